// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package adapter holds the capability interfaces the core is
// dependency-injected with (spec.md §6: JAdapter, JEventSource, Clock, Rng;
// the KvStore interface is kv.Store), plus reference implementations sufficient to drive an
// end-to-end demo without a real jurisdiction chain. The core never
// imports a concrete adapter; cmd/xlnd wires one in.
package adapter

import (
	"context"

	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// TxId is the opaque handle a JAdapter call returns; callers correlate it
// against later JEventSource events but never inspect its structure.
type TxId string

// JAdapter mediates settlement calls against the jurisdiction. Every call
// is fallible and asynchronous from the tick's point of view: the core
// issues the call, then later observes its effect (if any) as a
// JEventSource event, never by blocking the tick on the call's result.
type JAdapter interface {
	ReserveToReserve(ctx context.Context, from, to xlntypes.EntityId, tokenId xlntypes.TokenId, amount xlntypes.U256) (TxId, error)
	PrefundAccount(ctx context.Context, entity, counterparty xlntypes.EntityId, tokenId xlntypes.TokenId, amount xlntypes.U256) (TxId, error)
	SettleCooperative(ctx context.Context, proofHeader, proofBody []byte, sigs [][]byte) (TxId, error)
	SubmitDispute(ctx context.Context, entity, counterparty xlntypes.EntityId, tokenId xlntypes.TokenId, proofBody []byte) (TxId, error)

	GetReserves(ctx context.Context, entity xlntypes.EntityId, tokenId xlntypes.TokenId) (xlntypes.U256, error)
	GetCollateral(ctx context.Context, entity, counterparty xlntypes.EntityId, tokenId xlntypes.TokenId) (xlntypes.U256, error)
}

// EventKind discriminates the JEventSource event union.
type EventKind uint8

const (
	EventReserveCredited EventKind = iota
	EventCollateralPosted
	EventWithdrawalExecuted
	EventSettlementApplied
	EventDisputeOpened
)

// Event is one jurisdiction event. Counterparty is the zero EntityId for
// event kinds that are not account-scoped. TxHash/LogIndex are the
// dedup key the core applies on top of JEventSource's at-least-once
// delivery guarantee.
type Event struct {
	Kind         EventKind
	EntityId     xlntypes.EntityId
	Counterparty xlntypes.EntityId
	TokenId      xlntypes.TokenId
	Amount       xlntypes.U256
	BlockNumber  uint64
	TxHash       xlntypes.Bytes32
	LogIndex     uint32
}

// DedupKey is the tuple the core dedups delivered events by, per spec.md
// §6's "at-least-once per blockNumber" guarantee.
type DedupKey struct {
	Kind     EventKind
	TxHash   xlntypes.Bytes32
	LogIndex uint32
}

// Key returns ev's dedup key.
func (ev Event) Key() DedupKey {
	return DedupKey{Kind: ev.Kind, TxHash: ev.TxHash, LogIndex: ev.LogIndex}
}

// JEventSource streams jurisdiction events from a resumable cursor
// (spec.md's j-cursor watermark). Next blocks until an event is
// available, ctx is done, or the source is exhausted (ok=false).
type JEventSource interface {
	Next(ctx context.Context) (ev Event, ok bool, err error)
	Seek(cursor uint64) error
}

// Clock supplies wall-clock time to the tick boundary. Deterministic in
// tests, wall-clock (optionally NTP-disciplined) in production.
type Clock interface {
	Now() int64
}

// Rng supplies randomness for non-consensus-observable choices only
// (spec.md §6) — e.g. jittering a retry backoff, never anything that
// feeds a frame's hashed content.
type Rng interface {
	Uint64() uint64
}
