// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/hanko"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// InputKind identifies an EntityInput variant (spec.md §4.2).
type InputKind uint8

const (
	InputAddTx InputKind = iota
	InputPropose
	InputSign
	InputCommit
	InputAccountMessage
)

// AccountMsgKind identifies which bilateral message an AccountMessage
// carries.
type AccountMsgKind uint8

const (
	AccountMsgPropose AccountMsgKind = iota
	AccountMsgAck
	AccountMsgCancel
)

// AccountMessage wraps one proposer-cancel-rollback protocol message,
// carried inside an InputAccountMessage EntityInput and committed by BFT
// like any other tx (spec.md §4.3).
type AccountMessage struct {
	Kind             AccountMsgKind
	Propose          account.ProposeMsg
	Ack              account.AckMsg
	Cancel           account.CancelMsg
	ProposerSignerId xlntypes.SignerId // set on Propose
	AcceptorSignerId xlntypes.SignerId // set on Ack
}

// EntityInput is one message routed to a specific (entityId, signerId)
// replica (spec.md §4.2). Only the fields relevant to Kind are populated.
type EntityInput struct {
	Kind InputKind

	Tx EntityTx // InputAddTx

	Frame       EntityFrame // InputPropose
	ProposerSig []byte      // InputPropose

	Height     uint64            // InputSign, InputCommit
	PartialSig []byte            // InputSign
	SignerId   xlntypes.SignerId // InputSign: who signed

	Hanko hanko.Hanko // InputCommit

	FromEntity xlntypes.EntityId // InputAccountMessage
	AccountMsg AccountMessage    // InputAccountMessage
}
