// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// ConsensusMode selects how an entity's validators reach agreement.
type ConsensusMode uint8

const (
	// ProposerBased is the reference mode: a single designated proposer
	// per height drives propose/sign/commit.
	ProposerBased ConsensusMode = iota
	// GossipBased is carried as a variant per spec.md §9 but has no
	// concrete liveness argument here; ProposerBased is the only mode
	// this package implements a state machine for.
	GossipBased
)

// ValidatorConfig is an entity's BFT parameterization (spec.md §4.2).
type ValidatorConfig struct {
	Mode       ConsensusMode
	Threshold  xlntypes.U256
	Validators []xlntypes.SignerId
	Shares     map[xlntypes.SignerId]xlntypes.U256
}

// TotalShares sums every validator's share.
func (c ValidatorConfig) TotalShares() xlntypes.U256 {
	total := xlntypes.ZeroU256
	for _, v := range c.Validators {
		total = total.Add(c.Shares[v])
	}
	return total
}

// Validate checks threshold <= total shares.
func (c ValidatorConfig) Validate() error {
	if c.Threshold.Cmp(c.TotalShares()) > 0 {
		return ErrThresholdExceedsShares
	}
	return nil
}

// SingleSignerFastPath reports whether this config collapses propose and
// commit into one step: exactly one validator holding the full threshold.
func (c ValidatorConfig) SingleSignerFastPath() bool {
	if len(c.Validators) != 1 {
		return false
	}
	return c.Shares[c.Validators[0]].Cmp(c.Threshold) >= 0
}

// ProposalStatus is a governance proposal's lifecycle state.
type ProposalStatus uint8

const (
	ProposalPending ProposalStatus = iota
	ProposalApproved
	ProposalRejected
	ProposalExecuted
)

// Proposal is an entity-level governance action awaiting validator votes.
type Proposal struct {
	Id       xlntypes.Bytes32
	Proposer xlntypes.SignerId
	Action   string
	Votes    map[xlntypes.SignerId]bool
	Status   ProposalStatus
	Created  int64
}
