// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/entity"
	"github.com/xlnfinance/xln-sub011/kv"
	"github.com/xlnfinance/xln-sub011/runtime"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

func singleValidatorCfg(signer xlntypes.SignerId) entity.ValidatorConfig {
	return entity.ValidatorConfig{
		Mode:       entity.ProposerBased,
		Threshold:  xlntypes.U256FromUint64(1),
		Validators: []xlntypes.SignerId{signer},
		Shares:     map[xlntypes.SignerId]xlntypes.U256{signer: xlntypes.U256FromUint64(1)},
	}
}

func TestAppendInputRoundTrips(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	entityId := xlntypes.BytesToBytes32([]byte{0x09})
	rk := runtime.ReplicaKey{EntityId: entityId, SignerId: key.SignerId()}

	input := runtime.RuntimeInput{RuntimeTxs: []runtime.RuntimeTx{
		{
			Kind:          runtime.RuntimeTxImportReplica,
			Key:           rk,
			Config:        singleValidatorCfg(key.SignerId()),
			AccountConfig: account.Config{BundleSize: 8, ProposalTimeoutTicks: 8, ProposerMode: account.ProposerFixedLeft, FeeBps: 25},
			IsProposer:    true,
		},
	}}

	store := kv.NewMem()
	require.NoError(t, AppendInput(store, 1, input))

	loaded, err := LoadInputsFrom(store, 0)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	require.Len(t, got.RuntimeTxs, 1)
	assert.Equal(t, rk, got.RuntimeTxs[0].Key)
	assert.Equal(t, uint32(25), got.RuntimeTxs[0].AccountConfig.FeeBps)
	assert.Equal(t, key.SignerId(), got.RuntimeTxs[0].Config.Validators[0])

	empty, err := LoadInputsFrom(store, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSnapshotRoundTripAndLatestHeight(t *testing.T) {
	env := runtime.NewEnv(xlntypes.DefaultParams())
	snap, err := runtime.Snapshot(env, runtime.RuntimeInput{}, "genesis")
	require.NoError(t, err)

	store := kv.NewMem()
	require.NoError(t, SaveSnapshot(store, snap))

	rec, err := LoadSnapshotRecord(store, snap.Height)
	require.NoError(t, err)
	assert.Equal(t, snap.Digest.Bytes(), rec.Digest)
	assert.Equal(t, "genesis", rec.Description)

	height, ok, err := LatestSnapshotHeight(store)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.Height, height)
}

func TestPersistTickWritesInputAndSnapshotTogether(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	entityId := xlntypes.BytesToBytes32([]byte{0x0b})
	rk := runtime.ReplicaKey{EntityId: entityId, SignerId: key.SignerId()}

	env := runtime.NewEnv(xlntypes.DefaultParams())
	input := runtime.RuntimeInput{RuntimeTxs: []runtime.RuntimeTx{
		{
			Kind:          runtime.RuntimeTxImportReplica,
			Key:           rk,
			Config:        singleValidatorCfg(key.SignerId()),
			AccountConfig: account.Config{BundleSize: 8, ProposalTimeoutTicks: 8, ProposerMode: account.ProposerFixedLeft},
			IsProposer:    true,
		},
	}}
	_, err = runtime.ApplyRuntimeInput(env, input)
	require.NoError(t, err)

	snap, err := runtime.Snapshot(env, input, "xlnd tick")
	require.NoError(t, err)

	store := kv.NewMem()
	require.NoError(t, PersistTick(store, input, snap))

	loaded, err := LoadInputsFrom(store, 0)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	rec, err := LoadSnapshotRecord(store, snap.Height)
	require.NoError(t, err)
	assert.Equal(t, snap.Digest.Bytes(), rec.Digest)
}

func TestJCursorRoundTrip(t *testing.T) {
	store := kv.NewMem()
	_, ok, err := LoadJCursor(store)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveJCursor(store, 42))
	cursor, ok, err := LoadJCursor(store)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), cursor)
}

func TestProfileRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	entityId := xlntypes.BytesToBytes32([]byte{0x0a})
	cfg := singleValidatorCfg(key.SignerId())

	store := kv.NewMem()
	require.NoError(t, SaveProfile(store, entityId, cfg.ToRecord()))

	rec, err := LoadProfile(store, entityId)
	require.NoError(t, err)
	got := entity.ValidatorConfigFromRecord(rec)
	assert.Equal(t, cfg.Validators, got.Validators)
	assert.Equal(t, 0, cfg.Threshold.Big().Cmp(got.Threshold.Big()))
}
