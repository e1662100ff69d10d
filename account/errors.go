// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import "github.com/pkg/errors"

var (
	// ErrUnknownTxKind is returned by apply for an unrecognized TxKind.
	ErrUnknownTxKind = errors.New("account: unknown tx kind")

	// ErrPendingFrameInFlight is returned when the proposer side already
	// has an unacknowledged pendingFrame and tries to propose another.
	ErrPendingFrameInFlight = errors.New("account: pending frame already in flight")

	// ErrNoPendingFrame is returned when an Ack or Cancel arrives with no
	// matching pendingFrame.
	ErrNoPendingFrame = errors.New("account: no pending frame")

	// ErrWrongHeight is returned when an incoming message's height does
	// not match the expected next height.
	ErrWrongHeight = errors.New("account: wrong height")

	// ErrWrongPrevHash is returned when a proposed frame's PrevFrameHash
	// does not match the current frame's StateHash.
	ErrWrongPrevHash = errors.New("account: wrong prev hash")

	// ErrBadSignature is returned when a Propose or Ack signature fails
	// to recover to the expected counterparty signer.
	ErrBadSignature = errors.New("account: bad signature")

	// ErrStateHashMismatch is returned when a proposed frame's declared
	// StateHash does not match the hash recomputed from its contents.
	ErrStateHashMismatch = errors.New("account: state hash mismatch")

	// ErrNotProposer is returned when the local side attempts to propose
	// a frame at a height where it is not the designated proposer.
	ErrNotProposer = errors.New("account: not proposer at this height")

	// ErrCooldownActive is returned when Propose is attempted during the
	// one-tick cooldown following a rollback.
	ErrCooldownActive = errors.New("account: cooldown active after rollback")

	// ErrMempoolEmpty is returned when Propose is attempted with nothing
	// queued to send.
	ErrMempoolEmpty = errors.New("account: mempool empty")
)
