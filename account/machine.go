// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/delta"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// ProposerMode governs which side is eligible to propose at a given
// height (spec.md §4.3: "proposer is a pure function of (canonical
// orientation, height parity) or fixed by config").
type ProposerMode uint8

const (
	// ProposerAlternating lets left and right take turns by height parity.
	ProposerAlternating ProposerMode = iota
	// ProposerFixedLeft always designates the canonical left side.
	ProposerFixedLeft
)

// Config holds per-account policy knobs.
type Config struct {
	BundleSize           int
	ProposalTimeoutTicks uint64
	ProposerMode         ProposerMode
	// FeeBps is this account's forwarding fee in basis points, applied
	// when it sits on a multi-hop route (spec.md §4.3).
	FeeBps uint32
}

// Signer abstracts over a private key for the two frame-signing hooks the
// account package needs, so it never imports a concrete key type.
type Signer interface {
	Sign(hash xlntypes.Bytes32) ([]byte, error)
}

// ProposeMsg is sent by the proposer to its counterparty.
type ProposeMsg struct {
	Frame       AccountFrame
	ProposerSig []byte
}

// AckMsg is the acceptor's agreement, sent back to the proposer.
type AckMsg struct {
	Height      uint64
	AcceptorSig []byte
}

// CancelMsg is the acceptor's rejection of a Propose, sent back to the
// proposer.
type CancelMsg struct {
	Height uint64
	Reason string
}

// AccountMachine is the per-counterparty bilateral state, identical in
// shape on both sides of the canonical orientation (spec.md §3).
type AccountMachine struct {
	Key    xlntypes.AccountKey
	IsLeft bool
	Config Config

	Mempool      []AccountTx
	CurrentFrame AccountFrame
	PendingFrame *AccountFrame
	// PendingIsOurs is true when PendingFrame was built and signed by this
	// side (Proposed state) as opposed to received from the counterparty.
	PendingIsOurs bool

	SentTransitions   uint64
	AckedTransitions  uint64
	Deltas            map[xlntypes.TokenId]delta.Delta
	FrameHistory      []AccountFrame
	RollbackCount     uint64
	SendCounter       uint64
	ReceiveCounter    uint64

	// CompactedFrom records the height of FrameHistory[0] once Compact has
	// trimmed older entries; zero means the history is still complete from
	// genesis.
	CompactedFrom uint64

	ticksSincePending uint64
	cooldown          uint64
}

// NewMachine starts a fresh account at the genesis frame (height 0, no
// tokens, zero stateHash root).
func NewMachine(key xlntypes.AccountKey, isLeft bool, cfg Config) *AccountMachine {
	if cfg.BundleSize <= 0 {
		cfg.BundleSize = 1
	}
	return &AccountMachine{
		Key:          key,
		IsLeft:       isLeft,
		Config:       cfg,
		CurrentFrame: AccountFrame{Height: 0},
		Deltas:       make(map[xlntypes.TokenId]delta.Delta),
	}
}

// EnqueueTx appends tx to the FIFO mempool.
func (m *AccountMachine) EnqueueTx(tx AccountTx) {
	m.Mempool = append(m.Mempool, tx)
}

// Capacities returns this token's currently committed derived send
// capacities, or ok=false if the account has never carried this token.
func (m *AccountMachine) Capacities(tokenId xlntypes.TokenId) (caps delta.Capacities, ok bool) {
	d, ok := m.Deltas[tokenId]
	if !ok {
		return delta.Capacities{}, false
	}
	return delta.DerivedCapacities(d), true
}

func zeroDelta(tokenId xlntypes.TokenId) delta.Delta {
	return delta.Delta{
		TokenId:          tokenId,
		Collateral:       xlntypes.ZeroU256,
		Ondelta:          xlntypes.ZeroI256,
		Offdelta:         xlntypes.ZeroI256,
		LeftCreditLimit:  xlntypes.ZeroU256,
		RightCreditLimit: xlntypes.ZeroU256,
		LeftAllowance:    xlntypes.ZeroU256,
		RightAllowance:   xlntypes.ZeroU256,
	}
}

func cloneDeltas(d map[xlntypes.TokenId]delta.Delta) map[xlntypes.TokenId]delta.Delta {
	out := make(map[xlntypes.TokenId]delta.Delta, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// isProposerAt reports whether this side is the designated proposer for
// the given (not-yet-committed) height.
func (m *AccountMachine) isProposerAt(height uint64) bool {
	if m.Config.ProposerMode == ProposerFixedLeft {
		return m.IsLeft
	}
	leftProposes := height%2 == 1
	return m.IsLeft == leftProposes
}

// buildFrame drains the mempool up to BundleSize, applying each tx to a
// shadow copy of the delta map. A tx whose application fails bounces back
// to the mempool tail once; a tx that fails a second time is dropped.
func (m *AccountMachine) buildFrame(now int64) (AccountFrame, []AccountTx, error) {
	shadow := cloneDeltas(m.Deltas)
	var committed []AccountTx
	var bounced []AccountTx
	var dropped []AccountTx

	limit := m.Config.BundleSize
	if limit > len(m.Mempool) {
		limit = len(m.Mempool)
	}
	head := m.Mempool[:limit]
	tail := append([]AccountTx{}, m.Mempool[limit:]...)

	for _, tx := range head {
		d, ok := shadow[tx.TokenId]
		if !ok {
			d = zeroDelta(tx.TokenId)
		}
		updated, err := apply(d, tx)
		if err != nil {
			tx.Bounced++
			if tx.Bounced >= 2 {
				dropped = append(dropped, tx)
				continue
			}
			bounced = append(bounced, tx)
			continue
		}
		shadow[tx.TokenId] = updated
		committed = append(committed, tx)
	}

	m.Mempool = append(tail, bounced...)

	tokenIds, deltas := sortedTokenDeltas(shadow)
	height := m.CurrentFrame.Height + 1
	stateHash, err := computeStateHash(tokenIds, deltas, m.CurrentFrame.StateHash, height)
	if err != nil {
		return AccountFrame{}, dropped, err
	}
	frame := AccountFrame{
		Height:        height,
		Timestamp:     now,
		Txs:           committed,
		PrevFrameHash: m.CurrentFrame.StateHash,
		StateHash:     stateHash,
		TokenIds:      tokenIds,
		Deltas:        deltas,
	}
	return frame, dropped, nil
}

// Propose builds a frame from the mempool, signs it, and arms
// PendingFrame. Returns the message to send to the counterparty, any txs
// dropped after a second bounce, or an error if this side may not
// propose right now.
func (m *AccountMachine) Propose(signer Signer, now int64) (ProposeMsg, []AccountTx, error) {
	if m.PendingFrame != nil {
		return ProposeMsg{}, nil, ErrPendingFrameInFlight
	}
	if !m.isProposerAt(m.CurrentFrame.Height + 1) {
		return ProposeMsg{}, nil, ErrNotProposer
	}
	if m.cooldown > 0 {
		return ProposeMsg{}, nil, ErrCooldownActive
	}
	if len(m.Mempool) == 0 {
		return ProposeMsg{}, nil, ErrMempoolEmpty
	}

	frame, dropped, err := m.buildFrame(now)
	if err != nil {
		return ProposeMsg{}, dropped, err
	}
	if len(frame.Txs) == 0 {
		return ProposeMsg{}, dropped, ErrMempoolEmpty
	}
	hash := frameSigningHash(frame.StateHash, frame.Height, m.IsLeft)
	sig, err := signer.Sign(hash)
	if err != nil {
		return ProposeMsg{}, dropped, err
	}

	m.PendingFrame = &frame
	m.PendingIsOurs = true
	m.SentTransitions++
	m.ticksSincePending = 0
	return ProposeMsg{Frame: frame, ProposerSig: sig}, dropped, nil
}

// HandlePropose validates an incoming Propose from the counterparty. On a
// crossed proposal (this side also has a pending frame of its own), the
// canonical left side always wins: right rolls back its own pending frame
// and proceeds to validate the incoming one; left rejects the incoming
// one with a Cancel.
func (m *AccountMachine) HandlePropose(msg ProposeMsg, proposerSignerId xlntypes.SignerId, signer Signer) (*AckMsg, *CancelMsg, error) {
	if m.PendingFrame != nil && m.PendingIsOurs {
		if m.IsLeft {
			return nil, &CancelMsg{Height: msg.Frame.Height, Reason: "crossed proposal: left wins"}, nil
		}
		m.rollbackPending()
	}

	expectedHeight := m.CurrentFrame.Height + 1
	if msg.Frame.Height != expectedHeight {
		return nil, nil, ErrWrongHeight
	}
	if msg.Frame.PrevFrameHash != m.CurrentFrame.StateHash {
		return nil, nil, ErrWrongPrevHash
	}

	declaredHash, err := computeStateHash(msg.Frame.TokenIds, msg.Frame.Deltas, msg.Frame.PrevFrameHash, msg.Frame.Height)
	if err != nil {
		return nil, nil, err
	}
	if declaredHash != msg.Frame.StateHash {
		return nil, nil, ErrStateHashMismatch
	}

	proposerIsLeft := !m.IsLeft
	proposeHash := frameSigningHash(msg.Frame.StateHash, msg.Frame.Height, proposerIsLeft)
	if !crypto.Verify(proposeHash, msg.ProposerSig, proposerSignerId) {
		return nil, nil, ErrBadSignature
	}

	// Re-derive the resulting deltas independently from our own current
	// state plus the frame's txs, rather than trusting the counterparty's
	// declared Deltas field, so a divergent or forged frame is caught here
	// instead of silently desyncing the two views.
	shadow := cloneDeltas(m.Deltas)
	for _, tx := range msg.Frame.Txs {
		d, ok := shadow[tx.TokenId]
		if !ok {
			d = zeroDelta(tx.TokenId)
		}
		updated, err := apply(d, tx)
		if err != nil {
			return nil, nil, errors.Wrap(err, "account: counterparty frame tx rejected locally")
		}
		shadow[tx.TokenId] = updated
	}
	tokenIds, deltas := sortedTokenDeltas(shadow)
	localHash, err := computeStateHash(tokenIds, deltas, msg.Frame.PrevFrameHash, msg.Frame.Height)
	if err != nil {
		return nil, nil, err
	}
	if localHash != msg.Frame.StateHash {
		return nil, nil, ErrStateHashMismatch
	}

	m.commit(msg.Frame, shadow)
	m.ReceiveCounter++

	ackHash := frameSigningHash(msg.Frame.StateHash, msg.Frame.Height, m.IsLeft)
	sig, err := signer.Sign(ackHash)
	if err != nil {
		return nil, nil, err
	}
	return &AckMsg{Height: msg.Frame.Height, AcceptorSig: sig}, nil, nil
}

// HandleAck completes the proposer side of a commit once the acceptor's
// signature has been validated. A duplicate Ack for an already-committed
// height is a no-op, matching spec.md §8's idempotence requirement.
func (m *AccountMachine) HandleAck(msg AckMsg, acceptorSignerId xlntypes.SignerId) error {
	if m.PendingFrame == nil || !m.PendingIsOurs {
		if msg.Height <= m.CurrentFrame.Height {
			return nil
		}
		return ErrNoPendingFrame
	}
	if msg.Height != m.PendingFrame.Height {
		return ErrWrongHeight
	}

	ackHash := frameSigningHash(m.PendingFrame.StateHash, m.PendingFrame.Height, !m.IsLeft)
	if !crypto.Verify(ackHash, msg.AcceptorSig, acceptorSignerId) {
		return ErrBadSignature
	}

	shadow := make(map[xlntypes.TokenId]delta.Delta, len(m.PendingFrame.TokenIds))
	for i, id := range m.PendingFrame.TokenIds {
		shadow[id] = m.PendingFrame.Deltas[i]
	}
	frame := *m.PendingFrame
	m.commit(frame, shadow)
	m.AckedTransitions++
	m.SendCounter++
	return nil
}

// HandleCancel rolls back a rejected proposal on the proposer side. A
// Cancel for a frame this side has already resolved on its own — the
// losing side of a crossed proposal rolls back its own PendingFrame
// proactively inside HandlePropose, before the winner's Cancel for that
// same height arrives — is a no-op, the same idempotence HandleAck gives a
// redelivered message rather than a protocol error.
func (m *AccountMachine) HandleCancel(msg CancelMsg) error {
	if m.PendingFrame == nil || !m.PendingIsOurs {
		if msg.Height <= m.CurrentFrame.Height {
			return nil
		}
		return ErrNoPendingFrame
	}
	if msg.Height != m.PendingFrame.Height {
		return ErrWrongHeight
	}
	m.rollbackPending()
	return nil
}

// rollbackPending clears an in-flight self-proposed frame, returning its
// txs to the mempool head in their original order and arming a one-tick
// cooldown before re-proposing (spec.md §4.3).
func (m *AccountMachine) rollbackPending() {
	if m.PendingFrame == nil {
		return
	}
	m.Mempool = append(append([]AccountTx{}, m.PendingFrame.Txs...), m.Mempool...)
	m.PendingFrame = nil
	m.PendingIsOurs = false
	m.RollbackCount++
	m.cooldown = 1
}

func (m *AccountMachine) commit(frame AccountFrame, deltas map[xlntypes.TokenId]delta.Delta) {
	m.FrameHistory = append(m.FrameHistory, frame)
	m.CurrentFrame = frame
	m.Deltas = deltas
	m.PendingFrame = nil
	m.PendingIsOurs = false
	m.ticksSincePending = 0
}

// Tick advances per-tick bookkeeping: cooldown countdown and the
// proposal timeout, which auto-cancels a self-proposed frame that has
// gone too long without an Ack or Cancel.
func (m *AccountMachine) Tick() {
	if m.cooldown > 0 {
		m.cooldown--
	}
	if m.PendingFrame != nil && m.PendingIsOurs {
		m.ticksSincePending++
		if m.Config.ProposalTimeoutTicks > 0 && m.ticksSincePending >= m.Config.ProposalTimeoutTicks {
			m.rollbackPending()
		}
	} else {
		m.ticksSincePending = 0
	}
}

// Compact trims FrameHistory down to its last keepLast entries. This
// breaks the "|frameHistory| == currentFrame.height" invariant in
// exchange for bounded memory; callers that need full replay from genesis
// must reconstruct earlier frames from the persisted KvStore input log
// instead of in-memory history.
func (m *AccountMachine) Compact(keepLast int) {
	if keepLast <= 0 || len(m.FrameHistory) <= keepLast {
		return
	}
	drop := len(m.FrameHistory) - keepLast
	trimmed := make([]AccountFrame, keepLast)
	copy(trimmed, m.FrameHistory[drop:])
	m.FrameHistory = trimmed
	m.CompactedFrom = m.FrameHistory[0].Height
}
