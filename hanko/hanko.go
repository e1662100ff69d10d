// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package hanko implements the threshold signature aggregate from
// spec.md §4.4: a Hanko is the serialized tuple (signers, sigs, threshold,
// shares) with Σ shares[s] for s in signed >= threshold. Verification is
// pure — no trusted setup, no aggregate cryptography beyond "recover every
// signature and sum the shares of the ones that check out".
//
// The signer-dedup/collection shape is grounded on the teacher's
// block.Endorsements (dedup-by-hash, ordered collection, heap-free linear
// scan) adapted from per-block VRF endorsements to per-commit signer
// shares.
package hanko

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// ErrThresholdNotMet is returned by Verify when the aggregate weight of
// valid signatures falls short of threshold.
var ErrThresholdNotMet = errors.New("hanko: threshold not met")

// Share is one signer's weight in a validator set.
type Share struct {
	SignerId xlntypes.SignerId
	Weight   xlntypes.U256
}

// Signed is one signer's contribution to a Hanko.
type Signed struct {
	SignerId xlntypes.SignerId
	Sig      []byte // 65-byte recoverable ECDSA signature
}

// Hanko is the aggregate threshold signature.
type Hanko struct {
	Signed    []Signed
	Threshold xlntypes.U256
	Shares    []Share
}

func shareOf(shares []Share, signer xlntypes.SignerId) (xlntypes.U256, bool) {
	for _, s := range shares {
		if s.SignerId == signer {
			return s.Weight, true
		}
	}
	return xlntypes.ZeroU256, false
}

// Verify recovers every signature over hash, checks the recovered signer
// is a member with a share, and sums the shares of valid, non-duplicate
// signers. It returns nil once the aggregate weight reaches threshold, or
// ErrThresholdNotMet otherwise. An individual bad signature does not fail
// the whole Hanko — it simply does not contribute weight, mirroring
// spec.md §7's "Signature verification failure ... is fatal for that
// message only".
func Verify(h Hanko, hash xlntypes.Bytes32) error {
	seen := make(map[xlntypes.SignerId]struct{}, len(h.Signed))
	total := xlntypes.ZeroU256

	for _, sg := range h.Signed {
		if _, dup := seen[sg.SignerId]; dup {
			continue
		}
		weight, isMember := shareOf(h.Shares, sg.SignerId)
		if !isMember {
			continue
		}
		recovered, err := crypto.PureRecover(hash, sg.Sig)
		if err != nil || recovered != sg.SignerId {
			continue
		}
		seen[sg.SignerId] = struct{}{}
		total = total.Add(weight)
	}

	if total.Cmp(h.Threshold) < 0 {
		return ErrThresholdNotMet
	}
	return nil
}

// Collector incrementally builds a Hanko across a sequence of individual
// sign() messages without re-verifying already-seen signers, used by the
// entity package's Committing state.
type Collector struct {
	hash      xlntypes.Bytes32
	shares    []Share
	threshold xlntypes.U256
	seen      map[xlntypes.SignerId]struct{}
	signed    []Signed
	weight    xlntypes.U256
}

// NewCollector starts an aggregate-signature collection over hash.
func NewCollector(hash xlntypes.Bytes32, shares []Share, threshold xlntypes.U256) *Collector {
	return &Collector{
		hash:      hash,
		shares:    shares,
		threshold: threshold,
		seen:      make(map[xlntypes.SignerId]struct{}),
	}
}

// Add verifies and folds in one signer's partial signature. Returns false
// if the signature is invalid, the signer is not a member, or the signer
// already contributed.
func (c *Collector) Add(signer xlntypes.SignerId, sig []byte) bool {
	if _, dup := c.seen[signer]; dup {
		return false
	}
	weight, isMember := shareOf(c.shares, signer)
	if !isMember {
		return false
	}
	if !crypto.Verify(c.hash, sig, signer) {
		return false
	}
	c.seen[signer] = struct{}{}
	c.signed = append(c.signed, Signed{SignerId: signer, Sig: sig})
	c.weight = c.weight.Add(weight)
	return true
}

// Len returns the number of distinct signers collected so far.
func (c *Collector) Len() int { return len(c.signed) }

// Clone returns an independent copy, used by the runtime's shadow-copy
// discipline when a replica step must be speculatively retried.
func (c *Collector) Clone() *Collector {
	out := &Collector{
		hash:      c.hash,
		shares:    append([]Share{}, c.shares...),
		threshold: c.threshold,
		seen:      make(map[xlntypes.SignerId]struct{}, len(c.seen)),
		signed:    append([]Signed{}, c.signed...),
		weight:    c.weight,
	}
	for k, v := range c.seen {
		out.seen[k] = v
	}
	return out
}

// Satisfied reports whether the aggregate weight has reached threshold.
func (c *Collector) Satisfied() bool {
	return c.weight.Cmp(c.threshold) >= 0
}

// Hanko materializes the collected signatures into a Hanko, with signers
// ordered canonically (ascending SignerId) for deterministic encoding.
func (c *Collector) Hanko() Hanko {
	out := make([]Signed, len(c.signed))
	copy(out, c.signed)
	sort.Slice(out, func(i, j int) bool {
		return signerLess(out[i].SignerId, out[j].SignerId)
	})
	return Hanko{Signed: out, Threshold: c.threshold, Shares: c.shares}
}

func signerLess(a, b xlntypes.SignerId) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
