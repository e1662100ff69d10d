// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnfinance/xln-sub011/xlntypes"
)

func TestMockJAdapterPrefundAndEventDelivery(t *testing.T) {
	ctx := context.Background()
	a := NewMockJAdapter()
	entityA := xlntypes.BytesToBytes32([]byte{0x01})
	entityB := xlntypes.BytesToBytes32([]byte{0x02})
	tokenId := xlntypes.TokenId(1)

	a.Credit(entityA, tokenId, xlntypes.U256FromUint64(1000))
	bal, err := a.GetReserves(ctx, entityA, tokenId)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), bal.Big().Uint64())

	_, err = a.PrefundAccount(ctx, entityA, entityB, tokenId, xlntypes.U256FromUint64(400))
	require.NoError(t, err)

	bal, err = a.GetReserves(ctx, entityA, tokenId)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), bal.Big().Uint64())

	coll, err := a.GetCollateral(ctx, entityA, entityB, tokenId)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), coll.Big().Uint64())
	// Collateral is bilateral shared state: either side's key reads it back.
	coll, err = a.GetCollateral(ctx, entityB, entityA, tokenId)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), coll.Big().Uint64())

	feed := a.Events()
	ev, ok, err := feed.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventReserveCredited, ev.Kind)

	ev, ok, err = feed.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventCollateralPosted, ev.Kind)
	assert.Equal(t, entityA, ev.EntityId)
	assert.Equal(t, entityB, ev.Counterparty)
}

func TestMockJAdapterReserveToReserveInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	a := NewMockJAdapter()
	entityA := xlntypes.BytesToBytes32([]byte{0x01})
	entityB := xlntypes.BytesToBytes32([]byte{0x02})

	_, err := a.ReserveToReserve(ctx, entityA, entityB, xlntypes.TokenId(1), xlntypes.U256FromUint64(1))
	assert.Error(t, err)
}

func TestMockJEventSourceSeekResumesCursor(t *testing.T) {
	ctx := context.Background()
	a := NewMockJAdapter()
	entityA := xlntypes.BytesToBytes32([]byte{0x01})
	a.Credit(entityA, xlntypes.TokenId(1), xlntypes.U256FromUint64(1))
	a.Credit(entityA, xlntypes.TokenId(1), xlntypes.U256FromUint64(2))

	feed := a.Events()
	require.NoError(t, feed.Seek(1))
	ev, ok, err := feed.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), ev.BlockNumber)
}

func TestDeterministicRngReproducesSequence(t *testing.T) {
	a := NewDeterministicRng(42)
	b := NewDeterministicRng(42)
	for i := 0; i < 8; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestFixedClockAdvances(t *testing.T) {
	c := NewFixedClock(100)
	assert.Equal(t, int64(100), c.Now())
	c.Advance(5)
	assert.Equal(t, int64(105), c.Now())
}
