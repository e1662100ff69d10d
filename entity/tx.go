// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/delta"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// TxKind identifies an EntityTx variant (spec.md §4.2).
type TxKind uint8

const (
	TxOpenAccount TxKind = iota
	TxDirectPayment
	TxAccountInput
	TxExtendCredit
	TxProposal
	TxVote
	TxReserveToReserve
)

// EntityTx is one committed-or-pending entity-level operation. Every
// variant carries the proposer's SignerId and a strictly-increasing
// nonce; only the fields relevant to Kind are populated otherwise.
type EntityTx struct {
	Kind   TxKind
	Signer xlntypes.SignerId
	Nonce  uint64

	Target      xlntypes.EntityId // openAccount, directPayment, extendCredit, reserveToReserve
	TokenId     xlntypes.TokenId
	Amount      xlntypes.U256
	Route       []xlntypes.EntityId // directPayment
	Description string

	AccountTxs []account.AccountTx // accountInput

	NewLimit xlntypes.U256 // extendCredit

	ProposalAction string           // proposal
	ProposalId     xlntypes.Bytes32 // vote
	VoteChoice     bool             // vote
	Comment        string           // vote
}

// applyTx runs one committed EntityTx against state, mutating it in
// place and returning any EntityInputs it wants routed onward. A failed
// tx still consumes its nonce (spec.md §7: "tx handlers may fail and
// record a failedTx entry without aborting the enclosing frame").
func applyTx(state *EntityState, tx EntityTx, now int64, cfg account.Config) ([]Outgoing, error) {
	switch tx.Kind {
	case TxOpenAccount:
		return nil, state.openAccount(tx.Target, cfg)
	case TxDirectPayment:
		return state.directPayment(tx, cfg)
	case TxAccountInput:
		return state.accountInput(tx.Target, tx.AccountTxs)
	case TxExtendCredit:
		return state.extendCreditTx(tx.Target, tx.TokenId, tx.NewLimit)
	case TxProposal:
		return nil, state.openProposal(tx)
	case TxVote:
		return nil, state.vote(tx)
	case TxReserveToReserve:
		return nil, state.reserveToReserve(tx)
	default:
		return nil, ErrUnknownAccount
	}
}

func (s *EntityState) openAccount(counterparty xlntypes.EntityId, cfg account.Config) error {
	if _, ok := s.Accounts[counterparty]; ok {
		return ErrAccountExists
	}
	key, isLeft := xlntypes.CanonicalAccountKey(s.EntityId, counterparty)
	s.Accounts[counterparty] = account.NewMachine(key, isLeft, cfg)
	return nil
}

func (s *EntityState) extendCreditTx(counterparty xlntypes.EntityId, tokenId xlntypes.TokenId, newLimit xlntypes.U256) ([]Outgoing, error) {
	m, ok := s.Accounts[counterparty]
	if !ok {
		return nil, ErrUnknownAccount
	}
	// The local side extends credit on its own leg: left extends
	// leftCreditLimit, right extends rightCreditLimit.
	m.EnqueueTx(account.AccountTx{Kind: account.TxExtendCredit, TokenId: tokenId, NewLimit: newLimit, Left: m.IsLeft})
	return nil, nil
}

func (s *EntityState) accountInput(counterparty xlntypes.EntityId, txs []account.AccountTx) ([]Outgoing, error) {
	m, ok := s.Accounts[counterparty]
	if !ok {
		return nil, ErrUnknownAccount
	}
	for _, tx := range txs {
		m.EnqueueTx(tx)
	}
	return nil, nil
}

// directPayment enqueues the first hop of a routed payment. If this
// entity is not the route's origin the handler still enqueues against
// the named Target (used when a middle hop re-enters directPayment for
// the remainder of the route — see replica.go's forwardContinuations).
func (s *EntityState) directPayment(tx EntityTx, cfg account.Config) ([]Outgoing, error) {
	m, ok := s.Accounts[tx.Target]
	if !ok {
		return nil, ErrUnknownAccount
	}
	dir := delta.LeftToRight
	if !m.IsLeft {
		dir = delta.RightToLeft
	}

	var fwd *account.Forward
	if len(tx.Route) > 1 {
		fwd = &account.Forward{To: tx.Route[len(tx.Route)-1], Remaining: tx.Route[1:], FeeBps: m.Config.FeeBps}
	}
	m.EnqueueTx(account.AccountTx{Kind: account.TxPayment, TokenId: tx.TokenId, Amount: tx.Amount, Direction: dir, Forward: fwd})
	return nil, nil
}

func (s *EntityState) reserveToReserve(tx EntityTx) ([]Outgoing, error) {
	bal := s.Reserves[tx.TokenId]
	if bal.Cmp(tx.Amount) < 0 {
		return nil, ErrInsufficientReserve
	}
	s.Reserves[tx.TokenId] = bal.Sub(tx.Amount)
	return nil, nil
}

func (s *EntityState) openProposal(tx EntityTx) error {
	id := tx.ProposalId
	if id.IsZero() {
		id = xlntypes.BytesToBytes32([]byte(tx.ProposalAction))
	}
	if _, exists := s.Proposals[id]; exists {
		return ErrAccountExists
	}
	s.Proposals[id] = &Proposal{
		Id:       id,
		Proposer: tx.Signer,
		Action:   tx.ProposalAction,
		Votes:    map[xlntypes.SignerId]bool{},
		Status:   ProposalPending,
		Created:  0,
	}
	return nil
}

func (s *EntityState) vote(tx EntityTx) ([]Outgoing, error) {
	p, ok := s.Proposals[tx.ProposalId]
	if !ok {
		return nil, ErrUnknownProposal
	}
	if _, voted := p.Votes[tx.Signer]; voted {
		return nil, ErrAlreadyVoted
	}
	p.Votes[tx.Signer] = tx.VoteChoice

	approve, reject := xlntypes.ZeroU256, xlntypes.ZeroU256
	for signer, choice := range p.Votes {
		share := s.Config.Shares[signer]
		if choice {
			approve = approve.Add(share)
		} else {
			reject = reject.Add(share)
		}
	}
	if approve.Cmp(s.Config.Threshold) >= 0 {
		p.Status = ProposalApproved
	} else if reject.Cmp(s.Config.Threshold) >= 0 {
		p.Status = ProposalRejected
	}
	return nil, nil
}
