// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xlntypes

import (
	"math/big"

	"github.com/holiman/uint256"
)

// U256 is an unsigned 256-bit amount: reserves, collateral, credit limits,
// allowances. Backed by holiman/uint256 so capacity arithmetic on the
// per-tick hot path allocates nothing.
type U256 struct {
	v uint256.Int
}

// ZeroU256 is the additive identity.
var ZeroU256 = U256{}

// U256FromUint64 builds a U256 from a uint64.
func U256FromUint64(v uint64) U256 {
	var u U256
	u.v.SetUint64(v)
	return u
}

// U256FromBig builds a U256 from a *big.Int, clamping negative values to
// zero (callers at the boundary must validate before reaching here).
func U256FromBig(v *big.Int) U256 {
	var u U256
	if v == nil || v.Sign() < 0 {
		return u
	}
	u.v.SetFromBig(v)
	return u
}

// Big returns the *big.Int representation.
func (u U256) Big() *big.Int { return u.v.ToBig() }

// Sign returns -1/0/1. U256 is never negative so this is 0 or 1.
func (u U256) Sign() int {
	if u.v.IsZero() {
		return 0
	}
	return 1
}

// IsZero reports whether u is zero.
func (u U256) IsZero() bool { return u.v.IsZero() }

// Add returns a + b.
func (a U256) Add(b U256) U256 {
	var out U256
	out.v.Add(&a.v, &b.v)
	return out
}

// Sub returns a - b. Panics on underflow: callers must check Cmp first,
// matching the invariant that collateral/reserves never go negative.
func (a U256) Sub(b U256) U256 {
	if a.v.Cmp(&b.v) < 0 {
		panic("xlntypes: U256 subtraction underflow")
	}
	var out U256
	out.v.Sub(&a.v, &b.v)
	return out
}

// SaturatingSub returns max(a-b, 0).
func (a U256) SaturatingSub(b U256) U256 {
	if a.v.Cmp(&b.v) < 0 {
		return ZeroU256
	}
	return a.Sub(b)
}

// Cmp compares a to b.
func (a U256) Cmp(b U256) int { return a.v.Cmp(&b.v) }

// Min returns the smaller of a, b.
func (a U256) Min(b U256) U256 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Bytes32 returns the big-endian 32-byte encoding.
func (a U256) Bytes32() [32]byte { return a.v.Bytes32() }

// U256FromBytes32 decodes the big-endian 32-byte encoding.
func U256FromBytes32(b [32]byte) U256 {
	var u U256
	u.v.SetBytes(b[:])
	return u
}

// String renders the decimal representation.
func (a U256) String() string { return a.v.Dec() }

// I256 is a signed 256-bit amount: ondelta/offdelta, which move with
// on-chain settlement and bilateral frames respectively and can go
// negative relative to either side of an account.
type I256 struct {
	v big.Int
}

// ZeroI256 is the additive identity.
var ZeroI256 = I256{}

// I256FromInt64 builds an I256 from an int64.
func I256FromInt64(v int64) I256 {
	var i I256
	i.v.SetInt64(v)
	return i
}

// Big returns the *big.Int representation.
func (i I256) Big() *big.Int { return new(big.Int).Set(&i.v) }

// Sign returns -1/0/1.
func (i I256) Sign() int { return i.v.Sign() }

// Add returns a + b.
func (a I256) Add(b I256) I256 {
	var out I256
	out.v.Add(&a.v, &b.v)
	return out
}

// Sub returns a - b.
func (a I256) Sub(b I256) I256 {
	var out I256
	out.v.Sub(&a.v, &b.v)
	return out
}

// Neg returns -a.
func (a I256) Neg() I256 {
	var out I256
	out.v.Neg(&a.v)
	return out
}

// Cmp compares a to b.
func (a I256) Cmp(b I256) int { return a.v.Cmp(&b.v) }

// String renders the decimal representation.
func (a I256) String() string { return a.v.String() }

// Bytes32 returns the two's-complement big-endian 32-byte encoding.
func (a I256) Bytes32() [32]byte {
	var out [32]byte
	if a.v.Sign() >= 0 {
		a.v.FillBytes(out[:])
		return out
	}
	// two's complement: 2^256 + v
	mod := new(big.Int).Lsh(big.NewInt(1), 256)
	mod.Add(mod, &a.v)
	mod.FillBytes(out[:])
	return out
}

// I256FromBytes32 decodes the two's-complement big-endian 32-byte encoding.
func I256FromBytes32(b [32]byte) I256 {
	var i I256
	i.v.SetBytes(b[:])
	// if top bit set, interpret as negative (two's complement over 256 bits)
	if b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), 256)
		i.v.Sub(&i.v, mod)
	}
	return i
}
