// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package adapter

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"

	"github.com/pkg/errors"
)

// CryptoRng is the production Rng, backed by the OS CSPRNG. Per spec.md
// §6 its output must never feed anything consensus-observable — only
// adapter-local choices like retry jitter.
type CryptoRng struct{}

func (CryptoRng) Uint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(errors.Wrap(err, "adapter: crypto/rand read failed"))
	}
	return binary.BigEndian.Uint64(buf[:])
}

// DeterministicRng is the seeded test Rng: same seed, same sequence,
// every run.
type DeterministicRng struct {
	r *mathrand.Rand
}

// NewDeterministicRng returns an Rng seeded with seed.
func NewDeterministicRng(seed int64) *DeterministicRng {
	return &DeterministicRng{r: mathrand.New(mathrand.NewSource(seed))}
}

func (d *DeterministicRng) Uint64() uint64 { return d.r.Uint64() }
