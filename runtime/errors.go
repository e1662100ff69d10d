// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime implements the R-machine: the single-threaded tick
// coordinator that routes RuntimeInputs to entity replicas, iterates
// fan-out to a bounded budget, and captures snapshots.
package runtime

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned when a runtime tx other than
	// importReplica addresses a replica that does not exist.
	ErrInvalidInput = errors.New("runtime: invalid input")
	// ErrReplicaExists is returned when importReplica targets a
	// (entityId, signerId) pair that is already present.
	ErrReplicaExists = errors.New("runtime: replica already imported")
	// ErrIterationLimitExceeded is returned when fan-out does not settle
	// within the configured iteration budget.
	ErrIterationLimitExceeded = errors.New("runtime: iteration limit exceeded")
)
