// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hanko

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

func TestVerifyMeetsThreshold(t *testing.T) {
	a, _ := crypto.GenerateKey()
	b, _ := crypto.GenerateKey()
	c, _ := crypto.GenerateKey()

	shares := []Share{
		{SignerId: a.SignerId(), Weight: xlntypes.U256FromUint64(1)},
		{SignerId: b.SignerId(), Weight: xlntypes.U256FromUint64(1)},
		{SignerId: c.SignerId(), Weight: xlntypes.U256FromUint64(1)},
	}
	hash := crypto.DomainHash(crypto.EntityDomainTag, []byte("frame-1"))

	sigA, _ := a.Sign(hash)
	sigC, _ := c.Sign(hash)

	h := Hanko{
		Signed:    []Signed{{SignerId: a.SignerId(), Sig: sigA}, {SignerId: c.SignerId(), Sig: sigC}},
		Threshold: xlntypes.U256FromUint64(2),
		Shares:    shares,
	}
	assert.NoError(t, Verify(h, hash))
}

func TestVerifyFailsBelowThreshold(t *testing.T) {
	a, _ := crypto.GenerateKey()
	b, _ := crypto.GenerateKey()
	c, _ := crypto.GenerateKey()

	shares := []Share{
		{SignerId: a.SignerId(), Weight: xlntypes.U256FromUint64(1)},
		{SignerId: b.SignerId(), Weight: xlntypes.U256FromUint64(1)},
		{SignerId: c.SignerId(), Weight: xlntypes.U256FromUint64(1)},
	}
	hash := crypto.DomainHash(crypto.EntityDomainTag, []byte("frame-1"))
	sigA, _ := a.Sign(hash)

	h := Hanko{
		Signed:    []Signed{{SignerId: a.SignerId(), Sig: sigA}},
		Threshold: xlntypes.U256FromUint64(2),
		Shares:    shares,
	}
	assert.ErrorIs(t, Verify(h, hash), ErrThresholdNotMet)
}

func TestCollectorIgnoresDuplicateAndNonMember(t *testing.T) {
	a, _ := crypto.GenerateKey()
	stranger, _ := crypto.GenerateKey()

	shares := []Share{{SignerId: a.SignerId(), Weight: xlntypes.U256FromUint64(1)}}
	hash := crypto.DomainHash(crypto.EntityDomainTag, []byte("frame-2"))
	col := NewCollector(hash, shares, xlntypes.U256FromUint64(1))

	sigA, _ := a.Sign(hash)
	assert.True(t, col.Add(a.SignerId(), sigA))
	assert.False(t, col.Add(a.SignerId(), sigA)) // duplicate
	assert.Equal(t, 1, col.Len())
	assert.True(t, col.Satisfied())

	sigStranger, _ := stranger.Sign(hash)
	assert.False(t, col.Add(stranger.SignerId(), sigStranger)) // not a member
	assert.Equal(t, 1, col.Len())
}
