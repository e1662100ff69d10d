// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package delta implements the RCPAN (Reserve-Collateral-Credit-Allowance-
// Net-capacity) invariant from spec.md §3: pure functions computing each
// side's derived send capacity from the bilateral balance vector. Every
// function here is a pure function of (Delta, ...) -> (Delta', error); none
// of them touch I/O, mempools, or frames — those live in package account.
package delta

import (
	"math/big"

	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// Delta is the per-token, per-account balance record (spec.md §3).
type Delta struct {
	TokenId xlntypes.TokenId

	Collateral xlntypes.U256

	// Ondelta moves only with on-chain settlement.
	Ondelta xlntypes.I256
	// Offdelta moves with committed bilateral frames.
	Offdelta xlntypes.I256

	LeftCreditLimit  xlntypes.U256
	RightCreditLimit xlntypes.U256

	LeftAllowance  xlntypes.U256
	RightAllowance xlntypes.U256
}

// Net returns ondelta + offdelta: the signed net position. Positive values
// favor right (right is owed), negative values favor left.
func (d Delta) Net() xlntypes.I256 {
	return d.Ondelta.Add(d.Offdelta)
}

// total returns collateral + leftCreditLimit + rightCreditLimit as an
// I256, the Σ spec.md §3 clamps derived capacities against.
func (d Delta) total() xlntypes.I256 {
	sum := d.Collateral.Add(d.LeftCreditLimit).Add(d.RightCreditLimit)
	return i256FromU256(sum)
}

func i256FromU256(u xlntypes.U256) xlntypes.I256 {
	return xlntypes.I256FromBig(u.Big())
}

func u256FromI256Clamped(i xlntypes.I256) xlntypes.U256 {
	if i.Sign() <= 0 {
		return xlntypes.ZeroU256
	}
	return xlntypes.U256FromBig(i.Big())
}

func clampI256(v, lo, hi xlntypes.I256) xlntypes.I256 {
	if v.Cmp(lo) < 0 {
		return lo
	}
	if v.Cmp(hi) > 0 {
		return hi
	}
	return v
}

// Capacities are the derived send capacities of both sides of an account.
type Capacities struct {
	Left  xlntypes.U256
	Right xlntypes.U256
}

// SignedCapacities is the pre-clamp-to-zero form of Capacities: it stays
// negative when a side is over capacity instead of saturating at zero, so
// callers validating a prospective transition can tell "exactly at zero"
// from "already violated" (spec.md §3: "No sends are permitted that would
// drive a side's available capacity below zero").
type SignedCapacities struct {
	Left  xlntypes.I256
	Right xlntypes.I256
}

// derivedSigned computes the unclamped (except clamped to the Σ ceiling)
// leftCapacity/rightCapacity per spec.md §3:
//
//	leftCapacity  = leftCreditLimit  + (collateral - delta)/2 - leftAllowance
//	rightCapacity = rightCreditLimit + (collateral + delta)/2 - rightAllowance
//
// dividing collateral's contribution by two — rather than granting each
// side the full positive part of collateral — is what makes
// leftCapacity + rightCapacity collapse to exactly
// collateral + leftCreditLimit + rightCreditLimit whenever |delta| <=
// collateral (the uncommitted-allowance case spec.md §3 calls out; both
// halves truncate, so one unit is lost when collateral ± delta is odd), and
// each side's own pending withdrawal allowance then shrinks its own
// capacity.
func derivedSigned(d Delta) SignedCapacities {
	delta := d.Net()
	collateral := i256FromU256(d.Collateral)
	sigma := d.total()

	leftHalf := xlntypes.I256FromBig(quoByTwo(collateral.Sub(delta).Big()))
	leftRaw := i256FromU256(d.LeftCreditLimit).Add(leftHalf).Sub(i256FromU256(d.LeftAllowance))
	left := clampI256(leftRaw, xlntypes.I256FromBig(negInf), sigma)

	rightHalf := xlntypes.I256FromBig(quoByTwo(collateral.Add(delta).Big()))
	rightRaw := i256FromU256(d.RightCreditLimit).Add(rightHalf).Sub(i256FromU256(d.RightAllowance))
	right := clampI256(rightRaw, xlntypes.I256FromBig(negInf), sigma)

	return SignedCapacities{Left: left, Right: right}
}

// negInf stands in for "no lower clamp" in derivedSigned's call to
// clampI256 (a sufficiently large negative bound since I256 wraps
// math/big.Int, which has no real infinity).
var negInf = bigNeg(big.NewInt(1).Lsh(big.NewInt(1), 300))

func bigNeg(v *big.Int) *big.Int { return new(big.Int).Neg(v) }

// DerivedCapacities computes leftCapacity and rightCapacity clamped to
// [0, Σ], the public view used for display and for on-chain capacity
// queries.
func DerivedCapacities(d Delta) Capacities {
	signed := derivedSigned(d)
	return Capacities{
		Left:  u256FromI256Clamped(signed.Left),
		Right: u256FromI256Clamped(signed.Right),
	}
}

func quoByTwo(v *big.Int) *big.Int {
	return new(big.Int).Quo(v, big.NewInt(2))
}
