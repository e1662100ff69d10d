// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/entity"
	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// ToRecord converts tx to its canonical wire representation.
func (tx RuntimeTx) ToRecord() wire.RuntimeTxRecord {
	return wire.RuntimeTxRecord{
		Kind:          uint8(tx.Kind),
		EntityId:      tx.Key.EntityId.Bytes(),
		SignerId:      tx.Key.SignerId.Bytes(),
		Config:        tx.Config.ToRecord(),
		AccountConfig: tx.AccountConfig.ToRecord(),
		IsProposer:    tx.IsProposer,
	}
}

// RuntimeTxFromRecord reconstructs a RuntimeTx from its wire representation.
func RuntimeTxFromRecord(r wire.RuntimeTxRecord) RuntimeTx {
	return RuntimeTx{
		Kind:          RuntimeTxKind(r.Kind),
		Key:           ReplicaKey{EntityId: xlntypes.BytesToBytes32(r.EntityId), SignerId: xlntypes.BytesToSignerId(r.SignerId)},
		Config:        entity.ValidatorConfigFromRecord(r.Config),
		AccountConfig: account.ConfigFromRecord(r.AccountConfig),
		IsProposer:    r.IsProposer,
	}
}

// ToRecord converts in to its canonical wire representation.
func (in AddressedInput) ToRecord() (wire.AddressedInputRecord, error) {
	input, err := in.Input.ToRecord()
	if err != nil {
		return wire.AddressedInputRecord{}, err
	}
	return wire.AddressedInputRecord{
		EntityId: in.Key.EntityId.Bytes(),
		SignerId: in.Key.SignerId.Bytes(),
		Input:    input,
	}, nil
}

// AddressedInputFromRecord reconstructs an AddressedInput from its wire representation.
func AddressedInputFromRecord(r wire.AddressedInputRecord) (AddressedInput, error) {
	input, err := entity.EntityInputFromRecord(r.Input)
	if err != nil {
		return AddressedInput{}, err
	}
	return AddressedInput{
		Key:   ReplicaKey{EntityId: xlntypes.BytesToBytes32(r.EntityId), SignerId: xlntypes.BytesToSignerId(r.SignerId)},
		Input: input,
	}, nil
}

// ToRecord converts in to its canonical wire representation, the unit
// persisted at inputs/<height> for recovery-by-replay.
func (in RuntimeInput) ToRecord() (wire.RuntimeInputRecord, error) {
	txs := make([]wire.RuntimeTxRecord, len(in.RuntimeTxs))
	for i, tx := range in.RuntimeTxs {
		txs[i] = tx.ToRecord()
	}
	inputs := make([]wire.AddressedInputRecord, len(in.EntityInputs))
	for i, addr := range in.EntityInputs {
		r, err := addr.ToRecord()
		if err != nil {
			return wire.RuntimeInputRecord{}, err
		}
		inputs[i] = r
	}
	return wire.RuntimeInputRecord{RuntimeTxs: txs, EntityInputs: inputs}, nil
}

// RuntimeInputFromRecord reconstructs a RuntimeInput from its wire representation.
func RuntimeInputFromRecord(r wire.RuntimeInputRecord) (RuntimeInput, error) {
	txs := make([]RuntimeTx, len(r.RuntimeTxs))
	for i, rec := range r.RuntimeTxs {
		txs[i] = RuntimeTxFromRecord(rec)
	}
	inputs := make([]AddressedInput, len(r.EntityInputs))
	for i, rec := range r.EntityInputs {
		addr, err := AddressedInputFromRecord(rec)
		if err != nil {
			return RuntimeInput{}, err
		}
		inputs[i] = addr
	}
	return RuntimeInput{RuntimeTxs: txs, EntityInputs: inputs}, nil
}
