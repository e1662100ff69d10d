// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"sort"

	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/cache"
	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/delta"
	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// EntityState is one entity's committed state (spec.md §3), identical
// across every validator replica that has caught up to state.Height.
type EntityState struct {
	EntityId  xlntypes.EntityId
	Height    uint64
	Timestamp int64
	Nonces    map[xlntypes.SignerId]uint64
	Messages  []string
	Proposals map[xlntypes.Bytes32]*Proposal
	Reserves  map[xlntypes.TokenId]xlntypes.U256
	Accounts  map[xlntypes.EntityId]*account.AccountMachine
	JBlock    uint64
	Config    ValidatorConfig

	// rootCache memoizes StateRoot by height for this replica's lineage: a
	// single commit queries it twice (prevRoot, then the new shadow's
	// root) and the runtime's Digest queries it again on every tick. It is
	// shared (not deep-copied) across shadow clones of the same replica,
	// since they share the same height-to-root history.
	rootCache *cache.LRU
}

// NewEntityState starts a fresh entity at height 0 with no accounts,
// reserves or proposals.
func NewEntityState(entityId xlntypes.EntityId, cfg ValidatorConfig) *EntityState {
	return &EntityState{
		EntityId:  entityId,
		Nonces:    make(map[xlntypes.SignerId]uint64),
		Proposals: make(map[xlntypes.Bytes32]*Proposal),
		Reserves:  make(map[xlntypes.TokenId]xlntypes.U256),
		Accounts:  make(map[xlntypes.EntityId]*account.AccountMachine),
		Config:    cfg,
		rootCache: cache.NewLRU(64),
	}
}

// checkNonce enforces per-signer strict monotonicity (spec.md §4.2).
func (s *EntityState) checkNonce(signer xlntypes.SignerId, nonce uint64) error {
	if nonce <= s.Nonces[signer] {
		return ErrNonceReused
	}
	return nil
}

// clone returns a deep copy sufficient for the shadow-copy-on-panic
// discipline the runtime package applies around each replica step.
func (s *EntityState) clone() *EntityState {
	out := &EntityState{
		EntityId:  s.EntityId,
		Height:    s.Height,
		Timestamp: s.Timestamp,
		Nonces:    make(map[xlntypes.SignerId]uint64, len(s.Nonces)),
		Messages:  append([]string{}, s.Messages...),
		Proposals: make(map[xlntypes.Bytes32]*Proposal, len(s.Proposals)),
		Reserves:  make(map[xlntypes.TokenId]xlntypes.U256, len(s.Reserves)),
		Accounts:  make(map[xlntypes.EntityId]*account.AccountMachine, len(s.Accounts)),
		JBlock:    s.JBlock,
		Config:    s.Config,
		rootCache: s.rootCache,
	}
	for k, v := range s.Nonces {
		out.Nonces[k] = v
	}
	for k, v := range s.Reserves {
		out.Reserves[k] = v
	}
	for k, p := range s.Proposals {
		cp := *p
		cp.Votes = make(map[xlntypes.SignerId]bool, len(p.Votes))
		for s2, v := range p.Votes {
			cp.Votes[s2] = v
		}
		out.Proposals[k] = &cp
	}
	for k, m := range s.Accounts {
		cm := *m
		cm.Mempool = append([]account.AccountTx{}, m.Mempool...)
		cm.FrameHistory = append([]account.AccountFrame{}, m.FrameHistory...)
		cm.Deltas = make(map[xlntypes.TokenId]delta.Delta, len(m.Deltas))
		for tokenId, d := range m.Deltas {
			cm.Deltas[tokenId] = d
		}
		out.Accounts[k] = &cm
	}
	return out
}

// StateRoot computes the deterministic hash over the entity's committed
// fields: sorted nonces, sorted reserves, and each open account's own
// stateHash (not the whole AccountMachine — the account's converged
// history is authoritative there, see spec.md §4.3's invariant that both
// sides agree on stateHash at every committed height).
func (s *EntityState) StateRoot() (xlntypes.Bytes32, error) {
	if s.rootCache == nil {
		return s.computeStateRoot()
	}
	root, err := s.rootCache.GetOrLoad(s.Height, func(interface{}) (interface{}, error) {
		return s.computeStateRoot()
	})
	if err != nil {
		return xlntypes.Bytes32{}, err
	}
	return root.(xlntypes.Bytes32), nil
}

// computeStateRoot does the actual hashing StateRoot caches.
func (s *EntityState) computeStateRoot() (xlntypes.Bytes32, error) {
	signers := make([]xlntypes.SignerId, 0, len(s.Nonces))
	for signer := range s.Nonces {
		signers = append(signers, signer)
	}
	sort.Slice(signers, func(i, j int) bool { return signerLess(signers[i], signers[j]) })
	nonceRecords := make([]wire.NonceRecord, len(signers))
	for i, signer := range signers {
		nonceRecords[i] = wire.NonceRecord{Signer: append([]byte{}, signer[:]...), Nonce: s.Nonces[signer]}
	}

	tokenIds := make([]xlntypes.TokenId, 0, len(s.Reserves))
	for id := range s.Reserves {
		tokenIds = append(tokenIds, id)
	}
	sort.Slice(tokenIds, func(i, j int) bool { return tokenIds[i] < tokenIds[j] })
	reserveRecords := make([]wire.ReserveRecord, len(tokenIds))
	for i, id := range tokenIds {
		reserveRecords[i] = wire.ReserveRecord{TokenId: uint32(id), Amount: s.Reserves[id].Big()}
	}

	counterparties := make([]xlntypes.EntityId, 0, len(s.Accounts))
	for id := range s.Accounts {
		counterparties = append(counterparties, id)
	}
	sort.Slice(counterparties, func(i, j int) bool { return xlntypes.Less(counterparties[i], counterparties[j]) })
	accountRecords := make([]wire.AccountRefRecord, len(counterparties))
	for i, id := range counterparties {
		accountRecords[i] = wire.AccountRefRecord{
			Counterparty: id.Bytes(),
			StateHash:    s.Accounts[id].CurrentFrame.StateHash.Bytes(),
		}
	}

	fields := wire.EntityStateFields{
		Nonces:   nonceRecords,
		Reserves: reserveRecords,
		Accounts: accountRecords,
		Height:   s.Height,
	}
	encoded, err := wire.Encode(fields)
	if err != nil {
		return xlntypes.Bytes32{}, err
	}
	return crypto.DomainHash(crypto.EntityDomainTag, encoded), nil
}

func signerLess(a, b xlntypes.SignerId) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
