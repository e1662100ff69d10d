// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

func singleSignerReplica(t *testing.T, entityId xlntypes.EntityId) (*EntityReplica, *crypto.PrivateKey) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	cfg := ValidatorConfig{
		Mode:       ProposerBased,
		Threshold:  xlntypes.U256FromUint64(1),
		Validators: []xlntypes.SignerId{key.SignerId()},
		Shares:     map[xlntypes.SignerId]xlntypes.U256{key.SignerId(): xlntypes.U256FromUint64(1)},
	}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.SingleSignerFastPath())

	state := NewEntityState(entityId, cfg)
	acctCfg := account.Config{BundleSize: 8, ProposalTimeoutTicks: 8, ProposerMode: account.ProposerFixedLeft}
	r := NewReplica(entityId, key.SignerId(), state, acctCfg, true)
	return r, key
}

func TestSingleSignerFastPathCommitsImmediately(t *testing.T) {
	entityId := xlntypes.BytesToBytes32([]byte{0x09})
	r, key := singleSignerReplica(t, entityId)

	tx := EntityTx{Kind: TxReserveToReserve, Signer: key.SignerId(), Nonce: 1, TokenId: 1, Amount: xlntypes.ZeroU256}
	out, err := r.Step(EntityInput{Kind: InputAddTx, Tx: tx}, 1000, key)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.State.Height)
	// Both a Propose broadcast and a Commit broadcast are emitted.
	kinds := map[InputKind]int{}
	for _, o := range out {
		kinds[o.Input.Kind]++
	}
	assert.Equal(t, 1, kinds[InputPropose])
	assert.Equal(t, 1, kinds[InputCommit])
}

func TestNonceReusedRejected(t *testing.T) {
	entityId := xlntypes.BytesToBytes32([]byte{0x09})
	r, key := singleSignerReplica(t, entityId)

	tx := EntityTx{Kind: TxReserveToReserve, Signer: key.SignerId(), Nonce: 1, TokenId: 1, Amount: xlntypes.ZeroU256}
	_, err := r.Step(EntityInput{Kind: InputAddTx, Tx: tx}, 1000, key)
	require.NoError(t, err)

	_, err = r.Step(EntityInput{Kind: InputAddTx, Tx: tx}, 1001, key)
	assert.ErrorIs(t, err, ErrNonceReused)
	assert.Equal(t, uint64(1), r.State.Height) // unchanged
}

func TestThresholdBFTRequiresQuorum(t *testing.T) {
	keyA, _ := crypto.GenerateKey()
	keyB, _ := crypto.GenerateKey()
	keyC, _ := crypto.GenerateKey()
	entityId := xlntypes.BytesToBytes32([]byte{0x0a})
	cfg := ValidatorConfig{
		Mode:       ProposerBased,
		Threshold:  xlntypes.U256FromUint64(2),
		Validators: []xlntypes.SignerId{keyA.SignerId(), keyB.SignerId(), keyC.SignerId()},
		Shares: map[xlntypes.SignerId]xlntypes.U256{
			keyA.SignerId(): xlntypes.U256FromUint64(1),
			keyB.SignerId(): xlntypes.U256FromUint64(1),
			keyC.SignerId(): xlntypes.U256FromUint64(1),
		},
	}
	require.NoError(t, cfg.Validate())
	proposerId := DesignatedProposer(cfg)

	keys := map[xlntypes.SignerId]*crypto.PrivateKey{keyA.SignerId(): keyA, keyB.SignerId(): keyB, keyC.SignerId(): keyC}
	proposerKey := keys[proposerId]

	acctCfg := account.Config{BundleSize: 8, ProposalTimeoutTicks: 8}
	state := NewEntityState(entityId, cfg)
	proposer := NewReplica(entityId, proposerId, state, acctCfg, true)

	tx := EntityTx{Kind: TxReserveToReserve, Signer: proposerId, Nonce: 1, TokenId: 1, Amount: xlntypes.ZeroU256}
	out, err := proposer.Step(EntityInput{Kind: InputAddTx, Tx: tx}, 1000, proposerKey)
	require.NoError(t, err)
	require.Len(t, out, 1) // only Propose: 1 of 3 shares isn't enough yet
	assert.Equal(t, InputPropose, out[0].Input.Kind)
	assert.Equal(t, uint64(0), proposer.State.Height)

	// Another validator signs: total weight 2 meets threshold.
	var other xlntypes.SignerId
	for _, v := range cfg.Validators {
		if v != proposerId {
			other = v
			break
		}
	}
	hash := frameCommitHash(*proposer.PendingFrame)
	sig, err := keys[other].Sign(hash)
	require.NoError(t, err)

	out, err = proposer.Step(EntityInput{Kind: InputSign, Height: 1, PartialSig: sig, SignerId: other}, 1001, proposerKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), proposer.State.Height)
	foundCommit := false
	for _, o := range out {
		if o.Input.Kind == InputCommit {
			foundCommit = true
		}
	}
	assert.True(t, foundCommit)
}

func TestThresholdBFTFailsBelowQuorum(t *testing.T) {
	keyA, _ := crypto.GenerateKey()
	keyB, _ := crypto.GenerateKey()
	keyC, _ := crypto.GenerateKey()
	entityId := xlntypes.BytesToBytes32([]byte{0x0b})
	cfg := ValidatorConfig{
		Mode:       ProposerBased,
		Threshold:  xlntypes.U256FromUint64(2),
		Validators: []xlntypes.SignerId{keyA.SignerId(), keyB.SignerId(), keyC.SignerId()},
		Shares: map[xlntypes.SignerId]xlntypes.U256{
			keyA.SignerId(): xlntypes.U256FromUint64(1),
			keyB.SignerId(): xlntypes.U256FromUint64(1),
			keyC.SignerId(): xlntypes.U256FromUint64(1),
		},
	}
	proposerId := DesignatedProposer(cfg)
	keys := map[xlntypes.SignerId]*crypto.PrivateKey{keyA.SignerId(): keyA, keyB.SignerId(): keyB, keyC.SignerId(): keyC}
	proposerKey := keys[proposerId]

	acctCfg := account.Config{BundleSize: 8, ProposalTimeoutTicks: 8}
	state := NewEntityState(entityId, cfg)
	proposer := NewReplica(entityId, proposerId, state, acctCfg, true)

	tx := EntityTx{Kind: TxReserveToReserve, Signer: proposerId, Nonce: 1, TokenId: 1, Amount: xlntypes.ZeroU256}
	_, err := proposer.Step(EntityInput{Kind: InputAddTx, Tx: tx}, 1000, proposerKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), proposer.State.Height)
	// no further signatures arrive: height never advances.
	assert.Equal(t, uint64(0), proposer.State.Height)
}
