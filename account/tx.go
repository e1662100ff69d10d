// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package account implements the A-machine: the bilateral two-party
// consensus state machine that runs identically on both sides of an
// account (one per canonically-ordered entity pair). Its transition
// handlers are pure functions over the delta package; the
// proposer-cancel-rollback protocol governs how the two sides agree on
// each new AccountFrame.
package account

import (
	"github.com/xlnfinance/xln-sub011/delta"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// TxKind identifies an AccountTx variant.
type TxKind uint8

const (
	TxPayment TxKind = iota
	TxExtendCredit
	TxRequestWithdrawal
	TxAcceptWithdrawal
	TxRequestRebalance
	TxSettleCooperative
)

// Forward carries a multi-hop directPayment's remaining route, attached
// to the payment AccountTx enqueued on the first hop of that route.
type Forward struct {
	To        xlntypes.EntityId
	Remaining []xlntypes.EntityId
	FeeBps    uint32
}

// AccountTx is one pending bilateral operation. Only the fields relevant
// to Kind are populated; the rest are zero.
type AccountTx struct {
	Kind      TxKind
	TokenId   xlntypes.TokenId
	Amount    xlntypes.U256
	Direction delta.Direction // TxPayment
	NewLimit  xlntypes.U256   // TxExtendCredit
	Left      bool            // which side this tx is issued by/for (credit, withdrawal)

	Forward *Forward // non-nil when this payment carries a pending multi-hop continuation

	Bounced int // times this tx has been bounced back to the mempool tail
}

// apply runs tx against d, returning the updated delta or an error. Pure:
// no mempool, no frame, no I/O.
func apply(d delta.Delta, tx AccountTx) (delta.Delta, error) {
	switch tx.Kind {
	case TxPayment:
		return delta.ApplyPayment(d, tx.Amount, tx.Direction)
	case TxExtendCredit:
		return delta.ApplyExtendCredit(d, tx.NewLimit, tx.Left)
	case TxRequestWithdrawal:
		return delta.ApplyRequestWithdrawal(d, tx.Amount, tx.Left)
	case TxAcceptWithdrawal:
		return delta.ApplyWithdrawalExecuted(d, tx.Amount, tx.Left)
	case TxRequestRebalance:
		// Requesting rebalance is a pure intent; it does not itself move
		// funds, so it leaves the delta untouched until the counterparty's
		// on-chain collateral deposit lands as a CollateralPosted event.
		return d, nil
	case TxSettleCooperative:
		return d, nil
	default:
		return d, ErrUnknownTxKind
	}
}
