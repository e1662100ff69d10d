// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"math/big"

	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/hanko"
	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// entityTxPayload carries the kind-specific EntityTx fields not already on
// wire.EntityTxRecord, kept as a nested encoding so the outer record's
// shape never changes across tx kinds.
type entityTxPayload struct {
	Target         []byte
	Route          [][]byte
	Description    string
	AccountTxs     []wire.AccountTxRecord
	NewLimit       *big.Int
	ProposalAction string
	ProposalId     []byte
	VoteChoice     bool
	Comment        string
}

// ToRecord converts tx to its canonical wire representation.
func (tx EntityTx) ToRecord() (wire.EntityTxRecord, error) {
	route := make([][]byte, len(tx.Route))
	for i, e := range tx.Route {
		route[i] = e.Bytes()
	}
	accountTxs := make([]wire.AccountTxRecord, len(tx.AccountTxs))
	for i, atx := range tx.AccountTxs {
		r, err := atx.ToRecord()
		if err != nil {
			return wire.EntityTxRecord{}, err
		}
		accountTxs[i] = r
	}
	payload := entityTxPayload{
		Target:         tx.Target.Bytes(),
		Route:          route,
		Description:    tx.Description,
		AccountTxs:     accountTxs,
		NewLimit:       tx.NewLimit.Big(),
		ProposalAction: tx.ProposalAction,
		ProposalId:     tx.ProposalId.Bytes(),
		VoteChoice:     tx.VoteChoice,
		Comment:        tx.Comment,
	}
	encoded, err := wire.Encode(payload)
	if err != nil {
		return wire.EntityTxRecord{}, err
	}
	return wire.EntityTxRecord{
		Kind:    uint8(tx.Kind),
		Signer:  tx.Signer.Bytes(),
		Nonce:   tx.Nonce,
		Payload: encoded,
	}, nil
}

// EntityTxFromRecord reconstructs an EntityTx from its wire representation.
func EntityTxFromRecord(r wire.EntityTxRecord) (EntityTx, error) {
	var payload entityTxPayload
	if err := wire.Decode(r.Payload, &payload); err != nil {
		return EntityTx{}, err
	}
	route := make([]xlntypes.EntityId, len(payload.Route))
	for i, b := range payload.Route {
		route[i] = xlntypes.BytesToBytes32(b)
	}
	accountTxs := make([]account.AccountTx, len(payload.AccountTxs))
	for i, rec := range payload.AccountTxs {
		tx, err := account.AccountTxFromRecord(rec)
		if err != nil {
			return EntityTx{}, err
		}
		accountTxs[i] = tx
	}
	return EntityTx{
		Kind:           TxKind(r.Kind),
		Signer:         xlntypes.BytesToSignerId(r.Signer),
		Nonce:          r.Nonce,
		Target:         xlntypes.BytesToBytes32(payload.Target),
		Route:          route,
		Description:    payload.Description,
		AccountTxs:     accountTxs,
		NewLimit:       xlntypes.U256FromBig(payload.NewLimit),
		ProposalAction: payload.ProposalAction,
		ProposalId:     xlntypes.BytesToBytes32(payload.ProposalId),
		VoteChoice:     payload.VoteChoice,
		Comment:        payload.Comment,
	}, nil
}

// ToRecord converts f to its canonical wire representation.
func (f EntityFrame) ToRecord() (wire.EntityFrameRecord, error) {
	txs := make([]wire.EntityTxRecord, len(f.Txs))
	for i, tx := range f.Txs {
		r, err := tx.ToRecord()
		if err != nil {
			return wire.EntityFrameRecord{}, err
		}
		txs[i] = r
	}
	return wire.EntityFrameRecord{
		Height:        f.Height,
		Txs:           txs,
		PrevStateHash: f.PrevStateHash.Bytes(),
		NewStateRoot:  f.NewStateRoot.Bytes(),
	}, nil
}

// EntityFrameFromRecord reconstructs an EntityFrame from its wire representation.
func EntityFrameFromRecord(r wire.EntityFrameRecord) (EntityFrame, error) {
	txs := make([]EntityTx, len(r.Txs))
	for i, rec := range r.Txs {
		tx, err := EntityTxFromRecord(rec)
		if err != nil {
			return EntityFrame{}, err
		}
		txs[i] = tx
	}
	return EntityFrame{
		Height:        r.Height,
		Txs:           txs,
		PrevStateHash: xlntypes.BytesToBytes32(r.PrevStateHash),
		NewStateRoot:  xlntypes.BytesToBytes32(r.NewStateRoot),
	}, nil
}

// ToRecord converts msg to its canonical wire representation.
func (msg AccountMessage) ToRecord() (wire.AccountMessageRecord, error) {
	propose, err := msg.Propose.ToRecord()
	if err != nil {
		return wire.AccountMessageRecord{}, err
	}
	return wire.AccountMessageRecord{
		Kind:             uint8(msg.Kind),
		Propose:          propose,
		Ack:              msg.Ack.ToRecord(),
		Cancel:           msg.Cancel.ToRecord(),
		ProposerSignerId: msg.ProposerSignerId.Bytes(),
		AcceptorSignerId: msg.AcceptorSignerId.Bytes(),
	}, nil
}

// AccountMessageFromRecord reconstructs an AccountMessage from its wire representation.
func AccountMessageFromRecord(r wire.AccountMessageRecord) (AccountMessage, error) {
	propose, err := account.ProposeMsgFromRecord(r.Propose)
	if err != nil {
		return AccountMessage{}, err
	}
	return AccountMessage{
		Kind:             AccountMsgKind(r.Kind),
		Propose:          propose,
		Ack:              account.AckMsgFromRecord(r.Ack),
		Cancel:           account.CancelMsgFromRecord(r.Cancel),
		ProposerSignerId: xlntypes.BytesToSignerId(r.ProposerSignerId),
		AcceptorSignerId: xlntypes.BytesToSignerId(r.AcceptorSignerId),
	}, nil
}

// ToRecord converts input to its canonical wire representation.
func (input EntityInput) ToRecord() (wire.EntityInputRecord, error) {
	tx, err := input.Tx.ToRecord()
	if err != nil {
		return wire.EntityInputRecord{}, err
	}
	frame, err := input.Frame.ToRecord()
	if err != nil {
		return wire.EntityInputRecord{}, err
	}
	accountMsg, err := input.AccountMsg.ToRecord()
	if err != nil {
		return wire.EntityInputRecord{}, err
	}
	return wire.EntityInputRecord{
		Kind:        uint8(input.Kind),
		Tx:          tx,
		Frame:       frame,
		ProposerSig: input.ProposerSig,
		Height:      input.Height,
		PartialSig:  input.PartialSig,
		SignerId:    input.SignerId.Bytes(),
		Hanko:       input.Hanko.ToRecord(),
		FromEntity:  input.FromEntity.Bytes(),
		AccountMsg:  accountMsg,
	}, nil
}

// EntityInputFromRecord reconstructs an EntityInput from its wire representation.
func EntityInputFromRecord(r wire.EntityInputRecord) (EntityInput, error) {
	tx, err := EntityTxFromRecord(r.Tx)
	if err != nil {
		return EntityInput{}, err
	}
	frame, err := EntityFrameFromRecord(r.Frame)
	if err != nil {
		return EntityInput{}, err
	}
	accountMsg, err := AccountMessageFromRecord(r.AccountMsg)
	if err != nil {
		return EntityInput{}, err
	}
	return EntityInput{
		Kind:        InputKind(r.Kind),
		Tx:          tx,
		Frame:       frame,
		ProposerSig: r.ProposerSig,
		Height:      r.Height,
		PartialSig:  r.PartialSig,
		SignerId:    xlntypes.BytesToSignerId(r.SignerId),
		Hanko:       hanko.HankoFromRecord(r.Hanko),
		FromEntity:  xlntypes.BytesToBytes32(r.FromEntity),
		AccountMsg:  accountMsg,
	}, nil
}

// ToRecord converts cfg to its canonical wire representation.
func (cfg ValidatorConfig) ToRecord() wire.ValidatorConfigRecord {
	validators := make([][]byte, len(cfg.Validators))
	shares := make([]*big.Int, len(cfg.Validators))
	for i, v := range cfg.Validators {
		validators[i] = v.Bytes()
		shares[i] = cfg.Shares[v].Big()
	}
	return wire.ValidatorConfigRecord{
		Mode:       uint8(cfg.Mode),
		Threshold:  cfg.Threshold.Big(),
		Validators: validators,
		Shares:     shares,
	}
}

// ValidatorConfigFromRecord reconstructs a ValidatorConfig from its wire representation.
func ValidatorConfigFromRecord(r wire.ValidatorConfigRecord) ValidatorConfig {
	validators := make([]xlntypes.SignerId, len(r.Validators))
	shares := make(map[xlntypes.SignerId]xlntypes.U256, len(r.Validators))
	for i, v := range r.Validators {
		id := xlntypes.BytesToSignerId(v)
		validators[i] = id
		shares[id] = xlntypes.U256FromBig(r.Shares[i])
	}
	return ValidatorConfig{
		Mode:       ConsensusMode(r.Mode),
		Threshold:  xlntypes.U256FromBig(r.Threshold),
		Validators: validators,
		Shares:     shares,
	}
}
