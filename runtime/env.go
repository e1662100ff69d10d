// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sort"

	"github.com/inconshreveable/log15"

	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/entity"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

var log = log15.New("pkg", "runtime")

// ReplicaKey addresses one signer's view of one entity.
type ReplicaKey = xlntypes.ReplicaKey

// AddressedInput is an EntityInput together with the replica it targets.
type AddressedInput struct {
	Key   ReplicaKey
	Input entity.EntityInput
}

// RuntimeTxKind identifies a runtime-level (not entity-level) transaction.
type RuntimeTxKind uint8

const (
	// RuntimeTxImportReplica inserts a new (EntityId, SignerId) replica.
	RuntimeTxImportReplica RuntimeTxKind = iota
	// RuntimeTxRemoveReplica deletes a replica. Not reachable from any
	// entity tx — an explicit runtime-level operation only.
	RuntimeTxRemoveReplica
)

// RuntimeTx is one env-level operation carried in a RuntimeInput.
type RuntimeTx struct {
	Kind          RuntimeTxKind
	Key           ReplicaKey
	Config        entity.ValidatorConfig
	AccountConfig account.Config
	IsProposer    bool
}

// RuntimeInput is one tick's worth of externally-submitted work
// (spec.md §4.1): runtime-level txs processed first, then entity inputs
// fed into the fan-out loop.
type RuntimeInput struct {
	RuntimeTxs   []RuntimeTx
	EntityInputs []AddressedInput
}

// OutcomeStatus classifies one originating tx's result within a tick.
type OutcomeStatus uint8

const (
	OutcomeApplied OutcomeStatus = iota
	OutcomeFailed
)

// Outcome reports what happened to one originating AddressedInput or
// RuntimeTx (spec.md §7: "every applyRuntimeInput returns (Env', []Outcome)").
type Outcome struct {
	Key    ReplicaKey
	Status OutcomeStatus
	Reason string
}

// Env is the runtime's entire state (spec.md §3): every entity replica
// known to this process, the signing keys available locally, and the
// snapshot history.
type Env struct {
	Height    uint64
	Timestamp int64
	Replicas  map[ReplicaKey]*entity.EntityReplica
	Signers   map[xlntypes.SignerId]account.Signer
	Params    xlntypes.Params

	PendingOutputs []AddressedInput
	// NextTickInputs holds Outgoings a replica step marked Deferred this
	// tick (a multi-hop forward's next leg, spec.md §4.3) — fed into the
	// fan-out queue at the start of the following ApplyRuntimeInput call,
	// never the one still in progress.
	NextTickInputs []AddressedInput
	History        []*EnvSnapshot
}

// NewEnv starts a fresh runtime at height 0 with no replicas.
func NewEnv(params xlntypes.Params) *Env {
	return &Env{
		Replicas: make(map[ReplicaKey]*entity.EntityReplica),
		Signers:  make(map[xlntypes.SignerId]account.Signer),
		Params:   params,
	}
}

// sortedKeys returns env.Replicas' keys in the canonical (entityId,
// signerId) order spec.md §5 requires for iteration.
func (env *Env) sortedKeys() []ReplicaKey {
	keys := make([]ReplicaKey, 0, len(env.Replicas))
	for k := range env.Replicas {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// clone returns a deep, independent copy of env sufficient for the
// shadow-copy-on-abort discipline applyRuntimeInput enforces (spec.md
// §4.1: "the implementation holds a shadow copy").
func (env *Env) clone() *Env {
	out := &Env{
		Height:         env.Height,
		Timestamp:      env.Timestamp,
		Replicas:       make(map[ReplicaKey]*entity.EntityReplica, len(env.Replicas)),
		Signers:        env.Signers, // signing keys are not tick-mutable state
		Params:         env.Params,
		NextTickInputs: append([]AddressedInput{}, env.NextTickInputs...),
		History:        env.History, // history is append-only and not rolled back on abort
	}
	for k, r := range env.Replicas {
		out.Replicas[k] = r.Clone()
	}
	return out
}
