// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xlnfinance/xln-sub011/entity"
	"github.com/xlnfinance/xln-sub011/runtime"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// scenarioTx is the YAML shape of one entity tx submitted within a tick;
// only the fields relevant to Kind need to be set, mirroring
// entity.EntityTx's own "only fields relevant to Kind are populated"
// convention.
type scenarioTx struct {
	SignerId string `yaml:"signerId"`
	EntityId string `yaml:"entityId"`
	Nonce    uint64 `yaml:"nonce"`
	Kind     string `yaml:"kind"` // openAccount | directPayment | extendCredit | reserveToReserve
	Target   string `yaml:"target"`
	TokenId  uint32 `yaml:"tokenId"`
	Amount   uint64 `yaml:"amount"`
}

// scenarioTick is one RuntimeInput's worth of entity txs.
type scenarioTick struct {
	Txs []scenarioTx `yaml:"txs"`
}

// scenario is the full fixture cmd/xlnd replays tick by tick.
type scenario struct {
	Ticks []scenarioTick `yaml:"ticks"`
}

func loadScenario(path string) (scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, errors.Wrapf(err, "scenario: read %s", path)
	}
	var s scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return scenario{}, errors.Wrapf(err, "scenario: parse %s", path)
	}
	return s, nil
}

var txKinds = map[string]entity.TxKind{
	"openAccount":      entity.TxOpenAccount,
	"directPayment":    entity.TxDirectPayment,
	"extendCredit":     entity.TxExtendCredit,
	"reserveToReserve": entity.TxReserveToReserve,
}

// toRuntimeInput converts one scenarioTick into the AddressedInputs
// ApplyRuntimeInput expects, resolving hex signer/entity ids and
// defaulting Target to the zero EntityId when the tx kind doesn't use it.
func (t scenarioTick) toRuntimeInput() (runtime.RuntimeInput, error) {
	var input runtime.RuntimeInput
	for _, tx := range t.Txs {
		kind, ok := txKinds[tx.Kind]
		if !ok {
			return runtime.RuntimeInput{}, errors.Errorf("scenario: unknown tx kind %q", tx.Kind)
		}
		signer, err := xlntypes.ParseSignerId(tx.SignerId)
		if err != nil {
			return runtime.RuntimeInput{}, errors.Wrap(err, "scenario: signerId")
		}
		entityId, err := xlntypes.ParseBytes32(tx.EntityId)
		if err != nil {
			return runtime.RuntimeInput{}, errors.Wrap(err, "scenario: entityId")
		}
		var target xlntypes.EntityId
		if tx.Target != "" {
			target, err = xlntypes.ParseBytes32(tx.Target)
			if err != nil {
				return runtime.RuntimeInput{}, errors.Wrap(err, "scenario: target")
			}
		}

		etx := entity.EntityTx{
			Kind:    kind,
			Signer:  signer,
			Nonce:   tx.Nonce,
			Target:  target,
			TokenId: xlntypes.TokenId(tx.TokenId),
			Amount:  xlntypes.U256FromUint64(tx.Amount),
		}
		if kind == entity.TxExtendCredit {
			etx.NewLimit = xlntypes.U256FromUint64(tx.Amount)
		}

		input.EntityInputs = append(input.EntityInputs, runtime.AddressedInput{
			Key:   xlntypes.ReplicaKey{EntityId: entityId, SignerId: signer},
			Input: entity.EntityInput{Kind: entity.InputAddTx, Tx: etx},
		})
	}
	return input, nil
}
