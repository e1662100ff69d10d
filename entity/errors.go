// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package entity implements the E-machine: BFT consensus over an ordered
// EntityTx log, entity-level state (reserves, proposals, accounts) and
// dispatch into the account package for bilateral account operations.
package entity

import "github.com/pkg/errors"

var (
	// ErrNonceReused is a User error (spec.md §7): a tx's nonce does not
	// exceed the signer's current watermark.
	ErrNonceReused = errors.New("entity: nonce reused")

	// ErrUnknownAccount is returned when an account-targeting tx names a
	// counterparty with no open account.
	ErrUnknownAccount = errors.New("entity: unknown account")

	// ErrAccountExists is returned by openAccount when the account is
	// already open.
	ErrAccountExists = errors.New("entity: account already exists")

	// ErrInsufficientReserve is returned when reserveToReserve or a
	// direct-payment's originating leg would draw more reserve than the
	// entity holds.
	ErrInsufficientReserve = errors.New("entity: insufficient reserve")

	// ErrUnknownProposal is returned when a vote names a proposal id not
	// present in state.Proposals.
	ErrUnknownProposal = errors.New("entity: unknown proposal")

	// ErrAlreadyVoted is a User error: a signer voted twice on one
	// proposal.
	ErrAlreadyVoted = errors.New("entity: already voted")

	// ErrThresholdExceedsShares is returned when a ValidatorConfig's
	// threshold exceeds the sum of its shares.
	ErrThresholdExceedsShares = errors.New("entity: threshold exceeds total shares")

	// ErrNotProposer (Protocol error) is returned when a non-proposer
	// attempts to build/broadcast a propose message.
	ErrNotProposer = errors.New("entity: not proposer")

	// ErrWrongHeight (Protocol error) flags a frame/sign/commit message
	// for a height other than the replica's current pending height.
	ErrWrongHeight = errors.New("entity: wrong height")

	// ErrWrongPrevHash (Protocol error) flags a proposed frame whose
	// PrevStateHash does not match the replica's current state root.
	ErrWrongPrevHash = errors.New("entity: wrong prev hash")

	// ErrBadSignature (User error) is returned when a propose/sign/commit
	// signature fails to verify.
	ErrBadSignature = errors.New("entity: bad signature")

	// ErrStateRootMismatch (Invariant violation) is returned when a
	// proposer's declared NewStateRoot does not match the validator's own
	// recomputation.
	ErrStateRootMismatch = errors.New("entity: state root mismatch")

	// ErrNoPendingFrame (Protocol error) is returned when a sign/commit
	// message arrives with no frame awaiting it.
	ErrNoPendingFrame = errors.New("entity: no pending frame")
)
