// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delta

import "github.com/pkg/errors"

// Sentinel errors for the pure transition handlers, classified per
// spec.md §7.
var (
	ErrNonPositiveAmount  = errors.New("delta: amount must be > 0")
	ErrCapacityExceeded   = errors.New("delta: capacity exceeded")
	ErrCreditBelowUsage   = errors.New("delta: new credit limit below current utilization")
	ErrAllowanceExceeded  = errors.New("delta: allowance would exceed collateral")
	ErrUnknownDirection   = errors.New("delta: unknown payment direction")
)
