// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xlntypes

// Params are the jurisdiction-wide constants the R/E/A machines are
// parameterized by, analogous to the teacher's thor.ForkConfig but scoped
// to this system's own knobs rather than EVM fork heights.
type Params struct {
	// IterationBudget bounds how many fan-out rounds a single R-tick may
	// take before it fails with IterationLimitExceeded. Spec default: 64.
	IterationBudget int

	// MempoolBundleSize bounds how many AccountTx a single proposed
	// AccountFrame may drain from the mempool.
	MempoolBundleSize int

	// ProposalTimeoutTicks is the default number of R-ticks an account
	// proposer waits for an Ack/Cancel before cancelling its own pending
	// frame.
	ProposalTimeoutTicks uint64

	// HopTimeoutTicks is carried from config into Params, but no machine
	// reads it: an upstream hop of a multi-hop forward is not timed out or
	// rolled back when its downstream hop does not settle.
	HopTimeoutTicks uint64

	// DefaultFeeBps is the forwarding fee applied per hop when an account
	// does not configure its own feeBps.
	DefaultFeeBps uint32
}

// DefaultParams returns the reference jurisdiction parameters used unless
// a config overrides them.
func DefaultParams() Params {
	return Params{
		IterationBudget:      64,
		MempoolBundleSize:    128,
		ProposalTimeoutTicks: 8,
		HopTimeoutTicks:      4,
		DefaultFeeBps:        0,
	}
}
