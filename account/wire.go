// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/xlnfinance/xln-sub011/delta"
	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// ToRecord converts tx to its canonical wire representation, encoding the
// kind-specific fields not shared with every variant into Payload.
func (tx AccountTx) ToRecord() (wire.AccountTxRecord, error) {
	payload := wire.AccountTxPayload{
		Direction: uint8(tx.Direction),
		Left:      tx.Left,
		Bounced:   uint64(tx.Bounced),
	}
	if tx.Forward != nil {
		payload.HasForward = true
		payload.ForwardTo = tx.Forward.To.Bytes()
		payload.ForwardRest = make([][]byte, len(tx.Forward.Remaining))
		for i, e := range tx.Forward.Remaining {
			payload.ForwardRest[i] = e.Bytes()
		}
		payload.ForwardFeeBps = tx.Forward.FeeBps
	}
	encoded, err := wire.Encode(payload)
	if err != nil {
		return wire.AccountTxRecord{}, err
	}
	return wire.AccountTxRecord{
		Kind:    uint8(tx.Kind),
		TokenId: uint32(tx.TokenId),
		Amount:  tx.Amount.Big(),
		Payload: encoded,
	}, nil
}

// AccountTxFromRecord reconstructs an AccountTx from its wire representation.
func AccountTxFromRecord(r wire.AccountTxRecord) (AccountTx, error) {
	var payload wire.AccountTxPayload
	if err := wire.Decode(r.Payload, &payload); err != nil {
		return AccountTx{}, err
	}
	tx := AccountTx{
		Kind:      TxKind(r.Kind),
		TokenId:   xlntypes.TokenId(r.TokenId),
		Amount:    xlntypes.U256FromBig(r.Amount),
		Direction: delta.Direction(payload.Direction),
		Left:      payload.Left,
		Bounced:   int(payload.Bounced),
	}
	if payload.HasForward {
		remaining := make([]xlntypes.EntityId, len(payload.ForwardRest))
		for i, b := range payload.ForwardRest {
			remaining[i] = xlntypes.BytesToBytes32(b)
		}
		tx.Forward = &Forward{
			To:        xlntypes.BytesToBytes32(payload.ForwardTo),
			Remaining: remaining,
			FeeBps:    payload.ForwardFeeBps,
		}
	}
	return tx, nil
}

// ToRecord converts f to its canonical wire representation.
func (f AccountFrame) ToRecord() (wire.AccountFrameRecord, error) {
	txs := make([]wire.AccountTxRecord, len(f.Txs))
	for i, tx := range f.Txs {
		r, err := tx.ToRecord()
		if err != nil {
			return wire.AccountFrameRecord{}, err
		}
		txs[i] = r
	}
	tokenIds := make([]uint32, len(f.TokenIds))
	for i, id := range f.TokenIds {
		tokenIds[i] = uint32(id)
	}
	deltas := make([]wire.DeltaRecord, len(f.Deltas))
	for i, d := range f.Deltas {
		deltas[i] = d.ToRecord()
	}
	return wire.AccountFrameRecord{
		Height:        f.Height,
		Timestamp:     f.Timestamp,
		Txs:           txs,
		PrevFrameHash: f.PrevFrameHash.Bytes(),
		StateHash:     f.StateHash.Bytes(),
		TokenIds:      tokenIds,
		Deltas:        deltas,
	}, nil
}

// AccountFrameFromRecord reconstructs an AccountFrame from its wire representation.
func AccountFrameFromRecord(r wire.AccountFrameRecord) (AccountFrame, error) {
	txs := make([]AccountTx, len(r.Txs))
	for i, rec := range r.Txs {
		tx, err := AccountTxFromRecord(rec)
		if err != nil {
			return AccountFrame{}, err
		}
		txs[i] = tx
	}
	tokenIds := make([]xlntypes.TokenId, len(r.TokenIds))
	for i, id := range r.TokenIds {
		tokenIds[i] = xlntypes.TokenId(id)
	}
	deltas := make([]delta.Delta, len(r.Deltas))
	for i, d := range r.Deltas {
		deltas[i] = delta.DeltaFromRecord(d)
	}
	return AccountFrame{
		Height:        r.Height,
		Timestamp:     r.Timestamp,
		Txs:           txs,
		PrevFrameHash: xlntypes.BytesToBytes32(r.PrevFrameHash),
		StateHash:     xlntypes.BytesToBytes32(r.StateHash),
		TokenIds:      tokenIds,
		Deltas:        deltas,
	}, nil
}

// ToRecord converts msg to its canonical wire representation.
func (msg ProposeMsg) ToRecord() (wire.ProposeMsgRecord, error) {
	frame, err := msg.Frame.ToRecord()
	if err != nil {
		return wire.ProposeMsgRecord{}, err
	}
	return wire.ProposeMsgRecord{Frame: frame, ProposerSig: msg.ProposerSig}, nil
}

// ProposeMsgFromRecord reconstructs a ProposeMsg from its wire representation.
func ProposeMsgFromRecord(r wire.ProposeMsgRecord) (ProposeMsg, error) {
	frame, err := AccountFrameFromRecord(r.Frame)
	if err != nil {
		return ProposeMsg{}, err
	}
	return ProposeMsg{Frame: frame, ProposerSig: r.ProposerSig}, nil
}

// ToRecord converts msg to its canonical wire representation.
func (msg AckMsg) ToRecord() wire.AckMsgRecord {
	return wire.AckMsgRecord{Height: msg.Height, AcceptorSig: msg.AcceptorSig}
}

// AckMsgFromRecord reconstructs an AckMsg from its wire representation.
func AckMsgFromRecord(r wire.AckMsgRecord) AckMsg {
	return AckMsg{Height: r.Height, AcceptorSig: r.AcceptorSig}
}

// ToRecord converts msg to its canonical wire representation.
func (msg CancelMsg) ToRecord() wire.CancelMsgRecord {
	return wire.CancelMsgRecord{Height: msg.Height, Reason: msg.Reason}
}

// CancelMsgFromRecord reconstructs a CancelMsg from its wire representation.
func CancelMsgFromRecord(r wire.CancelMsgRecord) CancelMsg {
	return CancelMsg{Height: r.Height, Reason: r.Reason}
}

// ToRecord converts cfg to its canonical wire representation.
func (cfg Config) ToRecord() wire.AccountConfigRecord {
	return wire.AccountConfigRecord{
		BundleSize:           uint64(cfg.BundleSize),
		ProposalTimeoutTicks: cfg.ProposalTimeoutTicks,
		ProposerMode:         uint8(cfg.ProposerMode),
		FeeBps:               cfg.FeeBps,
	}
}

// ConfigFromRecord reconstructs a Config from its wire representation.
func ConfigFromRecord(r wire.AccountConfigRecord) Config {
	return Config{
		BundleSize:           int(r.BundleSize),
		ProposalTimeoutTicks: r.ProposalTimeoutTicks,
		ProposerMode:         ProposerMode(r.ProposerMode),
		FeeBps:               r.FeeBps,
	}
}
