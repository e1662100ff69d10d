// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package adapter

import (
	"context"
	"math/big"
	"sync"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/co"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// MockJAdapter is an in-memory stand-in for the jurisdiction contracts,
// sufficient to drive the integration scenarios in spec.md §8 without a
// real chain. Every write call (Credit, ReserveToReserve, PrefundAccount,
// SettleCooperative, SubmitDispute) appends the matching Event to the
// attached MockJEventSource; only Credit, ReserveToReserve and
// PrefundAccount change ledger balances. This mirrors the
// teacher's solo packer applying a block then making it observable to
// subscribers in the same step.
type MockJAdapter struct {
	mu         sync.Mutex
	reserves   map[reserveKey]xlntypes.U256
	collateral map[collateralKey]xlntypes.U256
	events     *MockJEventSource
	block      uint64
}

type reserveKey struct {
	entity  xlntypes.EntityId
	tokenId xlntypes.TokenId
}

type collateralKey struct {
	a, b    xlntypes.EntityId
	tokenId xlntypes.TokenId
}

func collateralKeyOf(entity, counterparty xlntypes.EntityId, tokenId xlntypes.TokenId) collateralKey {
	key, _ := xlntypes.CanonicalAccountKey(entity, counterparty)
	return collateralKey{a: key.Left, b: key.Right, tokenId: tokenId}
}

// NewMockJAdapter returns an empty ledger wired to a fresh event feed.
func NewMockJAdapter() *MockJAdapter {
	return &MockJAdapter{
		reserves:   make(map[reserveKey]xlntypes.U256),
		collateral: make(map[collateralKey]xlntypes.U256),
		events:     NewMockJEventSource(),
	}
}

// Events returns the JEventSource fed by this adapter's calls.
func (m *MockJAdapter) Events() *MockJEventSource { return m.events }

// Credit directly credits entity's reserve balance, standing in for an
// external deposit that did not originate from a ReserveToReserve call
// issued by this adapter itself (e.g. test fixture setup).
func (m *MockJAdapter) Credit(entity xlntypes.EntityId, tokenId xlntypes.TokenId, amount xlntypes.U256) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addReserve(entity, tokenId, amount)
	m.block++
	m.events.publish(Event{Kind: EventReserveCredited, EntityId: entity, TokenId: tokenId, Amount: amount, BlockNumber: m.block, TxHash: blockTxHash(m.block), LogIndex: 0})
}

func (m *MockJAdapter) addReserve(entity xlntypes.EntityId, tokenId xlntypes.TokenId, amount xlntypes.U256) {
	k := reserveKey{entity: entity, tokenId: tokenId}
	m.reserves[k] = xlntypes.U256FromBig(new(big.Int).Add(m.reserves[k].Big(), amount.Big()))
}

func (m *MockJAdapter) ReserveToReserve(_ context.Context, from, to xlntypes.EntityId, tokenId xlntypes.TokenId, amount xlntypes.U256) (TxId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fromKey := reserveKey{entity: from, tokenId: tokenId}
	bal := m.reserves[fromKey]
	if bal.Big().Cmp(amount.Big()) < 0 {
		return "", errors.New("adapter: insufficient reserve")
	}
	m.reserves[fromKey] = xlntypes.U256FromBig(new(big.Int).Sub(bal.Big(), amount.Big()))
	m.addReserve(to, tokenId, amount)

	m.block++
	txId := TxId(uuid.New())
	m.events.publish(Event{Kind: EventReserveCredited, EntityId: to, Counterparty: from, TokenId: tokenId, Amount: amount, BlockNumber: m.block, TxHash: blockTxHash(m.block), LogIndex: 0})
	return txId, nil
}

func (m *MockJAdapter) PrefundAccount(_ context.Context, entity, counterparty xlntypes.EntityId, tokenId xlntypes.TokenId, amount xlntypes.U256) (TxId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fromKey := reserveKey{entity: entity, tokenId: tokenId}
	bal := m.reserves[fromKey]
	if bal.Big().Cmp(amount.Big()) < 0 {
		return "", errors.New("adapter: insufficient reserve")
	}
	m.reserves[fromKey] = xlntypes.U256FromBig(new(big.Int).Sub(bal.Big(), amount.Big()))

	ck := collateralKeyOf(entity, counterparty, tokenId)
	m.collateral[ck] = xlntypes.U256FromBig(new(big.Int).Add(m.collateral[ck].Big(), amount.Big()))

	m.block++
	txId := TxId(uuid.New())
	m.events.publish(Event{Kind: EventCollateralPosted, EntityId: entity, Counterparty: counterparty, TokenId: tokenId, Amount: amount, BlockNumber: m.block, TxHash: blockTxHash(m.block), LogIndex: 0})
	return txId, nil
}

func (m *MockJAdapter) SettleCooperative(_ context.Context, _, _ []byte, _ [][]byte) (TxId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.block++
	txId := TxId(uuid.New())
	m.events.publish(Event{Kind: EventSettlementApplied, BlockNumber: m.block, TxHash: blockTxHash(m.block), LogIndex: 0})
	return txId, nil
}

func (m *MockJAdapter) SubmitDispute(_ context.Context, entity, counterparty xlntypes.EntityId, tokenId xlntypes.TokenId, _ []byte) (TxId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.block++
	txId := TxId(uuid.New())
	m.events.publish(Event{Kind: EventDisputeOpened, EntityId: entity, Counterparty: counterparty, TokenId: tokenId, BlockNumber: m.block, TxHash: blockTxHash(m.block), LogIndex: 0})
	return txId, nil
}

func (m *MockJAdapter) GetReserves(_ context.Context, entity xlntypes.EntityId, tokenId xlntypes.TokenId) (xlntypes.U256, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserves[reserveKey{entity: entity, tokenId: tokenId}], nil
}

func (m *MockJAdapter) GetCollateral(_ context.Context, entity, counterparty xlntypes.EntityId, tokenId xlntypes.TokenId) (xlntypes.U256, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collateral[collateralKeyOf(entity, counterparty, tokenId)], nil
}

func blockTxHash(block uint64) xlntypes.Bytes32 {
	var h xlntypes.Bytes32
	h[31] = byte(block)
	h[30] = byte(block >> 8)
	h[29] = byte(block >> 16)
	return h
}

// MockJEventSource is a replayable, in-memory event feed: every event
// MockJAdapter publishes is appended to an ordered log, and Next replays
// it from whatever cursor Seek last set, exactly reproducing the
// teacher's expectation that a restarted adapter resumes from its saved
// j-cursor rather than re-subscribing from genesis. Blocking subscribers
// are woken through a co.Signal rather than a busy-wait, per that
// package's own documented purpose.
type MockJEventSource struct {
	mu     sync.Mutex
	signal co.Signal
	log    []Event
	cursor uint64
	closed bool
}

// NewMockJEventSource returns an empty feed positioned at cursor 0.
func NewMockJEventSource() *MockJEventSource {
	return &MockJEventSource{}
}

func (s *MockJEventSource) publish(ev Event) {
	s.mu.Lock()
	s.log = append(s.log, ev)
	s.mu.Unlock()
	s.signal.Broadcast()
}

// Close unblocks any pending Next call with ok=false.
func (s *MockJEventSource) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal.Broadcast()
}

func (s *MockJEventSource) Next(ctx context.Context) (Event, bool, error) {
	for {
		s.mu.Lock()
		if s.cursor < uint64(len(s.log)) {
			ev := s.log[s.cursor]
			s.cursor++
			s.mu.Unlock()
			return ev, true, nil
		}
		if s.closed {
			s.mu.Unlock()
			return Event{}, false, nil
		}
		waiter := s.signal.NewWaiter()
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, false, ctx.Err()
		case <-waiter.C():
		}
	}
}

func (s *MockJEventSource) Seek(cursor uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cursor > uint64(len(s.log)) {
		return errors.New("adapter: seek past end of log")
	}
	s.cursor = cursor
	return nil
}
