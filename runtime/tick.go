// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/entity"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// applyRuntimeTx inserts or removes a replica. importReplica is the only
// runtime tx that may target a missing replica; everything else fails
// with ErrInvalidInput if its target doesn't exist (spec.md §4.1 step 1).
func applyRuntimeTx(env *Env, tx RuntimeTx) error {
	switch tx.Kind {
	case RuntimeTxImportReplica:
		if _, exists := env.Replicas[tx.Key]; exists {
			return ErrReplicaExists
		}
		if err := tx.Config.Validate(); err != nil {
			return err
		}
		isProposer := tx.IsProposer
		state := entity.NewEntityState(tx.Key.EntityId, tx.Config)
		env.Replicas[tx.Key] = entity.NewReplica(tx.Key.EntityId, tx.Key.SignerId, state, tx.AccountConfig, isProposer)
		return nil
	case RuntimeTxRemoveReplica:
		if _, exists := env.Replicas[tx.Key]; !exists {
			return ErrInvalidInput
		}
		delete(env.Replicas, tx.Key)
		return nil
	default:
		return ErrInvalidInput
	}
}

// resolve expands one Outgoing into the AddressedInputs it targets:
// every local replica of ToEntity if Broadcast, else the single
// (ToEntity, ToSigner) replica.
func resolve(env *Env, o entity.Outgoing) []AddressedInput {
	if o.Broadcast {
		var out []AddressedInput
		for k := range env.Replicas {
			if k.EntityId == o.ToEntity {
				out = append(out, AddressedInput{Key: k, Input: o.Input})
			}
		}
		return out
	}
	return []AddressedInput{{Key: ReplicaKey{EntityId: o.ToEntity, SignerId: o.ToSigner}, Input: o.Input}}
}

// process fans out queue against env's replicas until it drains or the
// iteration budget is exhausted (spec.md §4.1 steps 2-4). It is also the
// lower-level entry point tests use directly, exposing each iteration's
// outputs via env.PendingOutputs; singleIteration stops after one round
// regardless of whether the queue drained. The returned deferred slice
// collects every Outgoing a replica step marked Deferred — a multi-hop
// forward's next leg — which must NOT re-enter this same queue; the caller
// is responsible for carrying it over to the following tick.
func process(env *Env, queue []AddressedInput, budget int, singleIteration bool) (deferred []AddressedInput, err error) {
	iterations := 0
	for len(queue) > 0 {
		if iterations >= budget {
			return deferred, ErrIterationLimitExceeded
		}
		iterations++

		byReplica := make(map[ReplicaKey][]entity.EntityInput)
		var order []ReplicaKey
		for _, in := range queue {
			if _, ok := byReplica[in.Key]; !ok {
				order = append(order, in.Key)
			}
			byReplica[in.Key] = append(byReplica[in.Key], in.Input)
		}
		sortReplicaKeys(order)

		var next []AddressedInput
		for _, key := range order {
			replica, ok := env.Replicas[key]
			if !ok {
				return deferred, errors.Wrapf(ErrInvalidInput, "no replica for %s/%s", key.EntityId, key.SignerId)
			}
			signer := env.Signers[key.SignerId]
			for _, in := range byReplica[key] {
				outs, stepErr := replica.Step(in, env.Timestamp, signer)
				if stepErr != nil {
					if xlntypes.ClassifyOf(stepErr) == xlntypes.KindProtocol {
						// spec.md §7: drop the offending message and continue
						// the fan-out rather than aborting the whole tick —
						// a stale/forked/duplicate message at one replica
						// must not discard everything else this tick
						// committed.
						log.Warn("protocol error dropped", "entity", key.EntityId, "signer", key.SignerId, "err", stepErr)
						continue
					}
					return deferred, errors.Wrapf(stepErr, "replica %s/%s step", key.EntityId, key.SignerId)
				}
				for _, o := range outs {
					if o.Deferred {
						deferred = append(deferred, resolve(env, o)...)
						continue
					}
					next = append(next, resolve(env, o)...)
				}
			}
		}
		env.PendingOutputs = next
		queue = next
		if singleIteration {
			return deferred, nil
		}
	}
	return deferred, nil
}

func sortReplicaKeys(keys []ReplicaKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j].Less(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

// ApplyRuntimeInput is the R-machine's single public entry point
// (spec.md §4.1): routes runtimeTxs, fans out entityInputs to a bounded
// budget, and advances height. The tick is all-or-nothing — on any
// error the shadow copy is discarded and env is left unchanged.
func ApplyRuntimeInput(env *Env, input RuntimeInput) ([]Outcome, error) {
	shadow := env.clone()
	outcomes := make([]Outcome, 0, len(input.RuntimeTxs)+len(input.EntityInputs))

	for _, tx := range input.RuntimeTxs {
		if err := applyRuntimeTx(shadow, tx); err != nil {
			log.Error("runtime tx rejected", "entity", tx.Key.EntityId, "signer", tx.Key.SignerId, "err", err)
			return nil, xlntypes.NewClassified(xlntypes.KindUser, errors.Wrap(err, "runtime tx"))
		}
		outcomes = append(outcomes, Outcome{Key: tx.Key, Status: OutcomeApplied})
	}

	budget := env.Params.IterationBudget
	if budget <= 0 {
		budget = xlntypes.DefaultParams().IterationBudget
	}
	// Forward continuations deferred by a prior tick (spec.md §4.3: one
	// hop settles per R-tick) are drained alongside this tick's own
	// entityInputs; shadow.NextTickInputs is cleared up front so a
	// continuation generated during this tick lands on the one after it,
	// not this one.
	queue := append(append([]AddressedInput{}, shadow.NextTickInputs...), input.EntityInputs...)
	shadow.NextTickInputs = nil
	deferred, err := process(shadow, queue, budget, false)
	if err != nil {
		log.Error("tick aborted", "height", env.Height, "err", err)
		return nil, xlntypes.NewClassified(xlntypes.KindInvariant, errors.Wrap(err, "tick"))
	}
	shadow.NextTickInputs = deferred

	shadow.Height = env.Height + 1
	shadow.Timestamp = env.Timestamp + 1
	snap, err := Snapshot(shadow, input, "")
	if err != nil {
		return nil, xlntypes.NewClassified(xlntypes.KindInvariant, errors.Wrap(err, "snapshot"))
	}
	shadow.History = append(shadow.History, snap)

	for _, in := range input.EntityInputs {
		outcomes = append(outcomes, Outcome{Key: in.Key, Status: OutcomeApplied})
	}

	*env = *shadow
	return outcomes, nil
}

// Process exposes the lower-level fan-out loop directly for tests that
// need to inspect per-iteration outputs without the height-advance and
// snapshot steps applyRuntimeInput performs. The returned slice is any
// deferred (next-tick) Outgoing the fan-out produced; see process.
func Process(env *Env, queue []AddressedInput, iterationBudget int, singleIteration bool) ([]AddressedInput, error) {
	budget := iterationBudget
	if budget <= 0 {
		budget = env.Params.IterationBudget
	}
	return process(env, queue, budget, singleIteration)
}
