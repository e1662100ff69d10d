// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sort"

	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// EnvSnapshot is a structural deep copy of an Env together with the
// RuntimeInput that produced it, the resulting Digest, and a
// human-readable Description (spec.md §4.5).
type EnvSnapshot struct {
	Height      uint64
	Timestamp   int64
	Env         *Env
	Input       RuntimeInput
	Digest      xlntypes.Bytes32
	Description string
}

// Digest computes the deterministic hash of env's committed content:
// every replica's (entityId, signerId, height, stateRoot), sorted. Two
// envs with the same Digest are equal under the replay law (spec.md
// §4.5), independent of in-flight mempools or pending frames which do
// not affect committed state.
func Digest(env *Env) (xlntypes.Bytes32, error) {
	keys := env.sortedKeys()
	records := make([]wire.ReplicaDigestRecord, len(keys))
	for i, k := range keys {
		r := env.Replicas[k]
		root, err := r.State.StateRoot()
		if err != nil {
			return xlntypes.Bytes32{}, err
		}
		records[i] = wire.ReplicaDigestRecord{
			EntityId:  k.EntityId.Bytes(),
			SignerId:  append([]byte{}, k.SignerId[:]...),
			Height:    r.State.Height,
			StateRoot: root.Bytes(),
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return string(records[i].EntityId)+string(records[i].SignerId) < string(records[j].EntityId)+string(records[j].SignerId)
	})
	encoded, err := wire.Encode(wire.EnvDigestFields{
		Height:    env.Height,
		Timestamp: env.Timestamp,
		Replicas:  records,
	})
	if err != nil {
		return xlntypes.Bytes32{}, err
	}
	return crypto.DomainHash(crypto.RuntimeDomainTag, encoded), nil
}

// Snapshot captures env's current state (spec.md §4.1's `snapshot(env)`).
func Snapshot(env *Env, input RuntimeInput, description string) (*EnvSnapshot, error) {
	digest, err := Digest(env)
	if err != nil {
		return nil, err
	}
	return &EnvSnapshot{
		Height:      env.Height,
		Timestamp:   env.Timestamp,
		Env:         env.clone(),
		Input:       input,
		Digest:      digest,
		Description: description,
	}, nil
}

// Replay reproduces the env state by re-running every input against the
// snapshot's captured env (spec.md §4.1's `replay(snapshot, inputs)`).
// The caller is expected to compare the returned Env's Digest against the
// live run's final snapshot Digest to assert byte-for-byte replay
// identity.
func Replay(snap *EnvSnapshot, inputs []RuntimeInput) (*Env, error) {
	env := snap.Env.clone()
	for _, in := range inputs {
		if _, err := ApplyRuntimeInput(env, in); err != nil {
			return nil, err
		}
	}
	return env, nil
}
