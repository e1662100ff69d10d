// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnfinance/xln-sub011/entity"
)

func TestLoadScenarioParsesTestdataFixture(t *testing.T) {
	scn, err := loadScenario("testdata/scenario.yaml")
	require.NoError(t, err)
	require.Len(t, scn.Ticks, 3)

	input, err := scn.Ticks[0].toRuntimeInput()
	require.NoError(t, err)
	require.Len(t, input.EntityInputs, 2)
	assert.Equal(t, entity.TxOpenAccount, input.EntityInputs[0].Input.Tx.Kind)
	assert.Equal(t, entity.TxOpenAccount, input.EntityInputs[1].Input.Tx.Kind)

	payInput, err := scn.Ticks[2].toRuntimeInput()
	require.NoError(t, err)
	require.Len(t, payInput.EntityInputs, 1)
	assert.Equal(t, entity.TxDirectPayment, payInput.EntityInputs[0].Input.Tx.Kind)
	assert.Equal(t, uint64(250), payInput.EntityInputs[0].Input.Tx.Amount.Big().Uint64())
}

func TestToRuntimeInputRejectsUnknownKind(t *testing.T) {
	tick := scenarioTick{Txs: []scenarioTx{{Kind: "bogus"}}}
	_, err := tick.toRuntimeInput()
	assert.Error(t, err)
}
