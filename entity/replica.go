// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"math/big"
	"sort"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/hanko"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

var log = log15.New("pkg", "entity")

// Phase is a proposer replica's position in the Collecting -> Proposing ->
// Signing -> Committing cycle (spec.md §4.2). Non-proposer replicas only
// ever observe Collecting and Signing.
type Phase uint8

const (
	PhaseCollecting Phase = iota
	PhaseProposing
	PhaseSigning
	PhaseCommitting
)

// Outgoing is an EntityInput a replica step wants delivered onward, either
// to every validator of an entity (Broadcast) or to one specific replica.
// Deferred marks an Outgoing that must land on a later R-tick rather than
// re-entering the same tick's fan-out: a multi-hop forward's next leg
// (spec.md §4.3: "hops must complete in distinct R-ticks").
type Outgoing struct {
	ToEntity  xlntypes.EntityId
	ToSigner  xlntypes.SignerId
	Broadcast bool
	Deferred  bool
	Input     EntityInput
}

// EntityReplica is one signer's view of one entity (spec.md §3).
type EntityReplica struct {
	EntityId xlntypes.EntityId
	SignerId xlntypes.SignerId

	IsProposer    bool
	Mempool       []EntityTx
	State         *EntityState
	AccountConfig account.Config

	Phase        Phase
	PendingFrame *EntityFrame
	shadowState  *EntityState
	Collector    *hanko.Collector
}

// NewReplica starts a replica at height 0. isProposer should be true for
// exactly the validator designated proposer under state.Config.
func NewReplica(entityId xlntypes.EntityId, signerId xlntypes.SignerId, state *EntityState, acctCfg account.Config, isProposer bool) *EntityReplica {
	return &EntityReplica{
		EntityId:      entityId,
		SignerId:      signerId,
		IsProposer:    isProposer,
		State:         state,
		AccountConfig: acctCfg,
	}
}

// Clone returns an independent deep copy of the replica, used by the
// runtime's shadow-copy discipline: a tick mutates the clone, and only on
// success is the clone promoted back over the live replica.
func (r *EntityReplica) Clone() *EntityReplica {
	out := &EntityReplica{
		EntityId:      r.EntityId,
		SignerId:      r.SignerId,
		IsProposer:    r.IsProposer,
		Mempool:       append([]EntityTx{}, r.Mempool...),
		State:         r.State.clone(),
		AccountConfig: r.AccountConfig,
		Phase:         r.Phase,
	}
	if r.PendingFrame != nil {
		pf := *r.PendingFrame
		pf.Txs = append([]EntityTx{}, r.PendingFrame.Txs...)
		out.PendingFrame = &pf
	}
	if r.shadowState != nil {
		out.shadowState = r.shadowState.clone()
	}
	if r.Collector != nil {
		out.Collector = r.Collector.Clone()
	}
	return out
}

// DesignatedProposer picks the fixed proposer for a ValidatorConfig: the
// first validator in canonical (ascending) order. The config does not
// specify a selection rule beyond "a pure function of config", so a fixed
// deterministic choice is used rather than rotating by height, keeping
// the single-signer fast path a special case of the general rule.
func DesignatedProposer(cfg ValidatorConfig) xlntypes.SignerId {
	if len(cfg.Validators) == 0 {
		return xlntypes.SignerId{}
	}
	best := cfg.Validators[0]
	for _, v := range cfg.Validators[1:] {
		if signerLess(v, best) {
			best = v
		}
	}
	return best
}

func sharesOf(cfg ValidatorConfig) []hanko.Share {
	out := make([]hanko.Share, len(cfg.Validators))
	for i, v := range cfg.Validators {
		out[i] = hanko.Share{SignerId: v, Weight: cfg.Shares[v]}
	}
	return out
}

// Step applies one EntityInput to the replica, mutating its state and
// returning any EntityInputs it wants routed onward.
func (r *EntityReplica) Step(input EntityInput, now int64, signer account.Signer) ([]Outgoing, error) {
	switch input.Kind {
	case InputAddTx:
		return r.handleAddTx(input.Tx, now, signer)
	case InputPropose:
		return r.handlePropose(input, signer)
	case InputSign:
		return r.handleSign(input, now, signer)
	case InputCommit:
		return r.handleCommit(input, now, signer)
	case InputAccountMessage:
		return r.handleAccountMessage(input, signer)
	default:
		return nil, errors.New("entity: unknown input kind")
	}
}

func (r *EntityReplica) handleAddTx(tx EntityTx, now int64, signer account.Signer) ([]Outgoing, error) {
	if err := r.State.checkNonce(tx.Signer, tx.Nonce); err != nil {
		return nil, err
	}
	r.Mempool = append(r.Mempool, tx)
	if r.IsProposer && r.PendingFrame == nil {
		return r.proposeFrame(now, signer)
	}
	return nil, nil
}

// proposeFrame builds a frame from the mempool, signs it and broadcasts
// Propose. If this replica's own share already meets the threshold (the
// single-signer fast path, or any proposer holding sufficient weight
// alone), propose and commit fuse into one step.
func (r *EntityReplica) proposeFrame(now int64, signer account.Signer) ([]Outgoing, error) {
	if len(r.Mempool) == 0 {
		return nil, nil
	}
	txs := orderTxs(r.Mempool)
	shadow := r.State.clone()
	for _, tx := range txs {
		if _, err := applyTx(shadow, tx, now, r.AccountConfig); err != nil {
			shadow.Messages = append(shadow.Messages, "failedTx: "+err.Error())
		}
		shadow.Nonces[tx.Signer] = tx.Nonce
	}
	prevRoot, err := r.State.StateRoot()
	if err != nil {
		return nil, err
	}
	shadow.Height = r.State.Height + 1
	newRoot, err := shadow.StateRoot()
	if err != nil {
		return nil, err
	}
	frame := EntityFrame{Height: shadow.Height, Txs: txs, PrevStateHash: prevRoot, NewStateRoot: newRoot}
	hash := frameCommitHash(frame)
	sig, err := signer.Sign(hash)
	if err != nil {
		return nil, err
	}

	r.PendingFrame = &frame
	r.shadowState = shadow
	r.Collector = hanko.NewCollector(hash, sharesOf(r.State.Config), r.State.Config.Threshold)
	r.Collector.Add(r.SignerId, sig)
	r.Phase = PhaseProposing

	out := []Outgoing{{ToEntity: r.EntityId, Broadcast: true, Input: EntityInput{Kind: InputPropose, Frame: frame, ProposerSig: sig}}}
	if r.Collector.Satisfied() {
		commitOut, err := r.finalizeCommit(now, signer)
		if err != nil {
			return nil, err
		}
		out = append(out, commitOut...)
	}
	return out, nil
}

func (r *EntityReplica) handlePropose(input EntityInput, signer account.Signer) ([]Outgoing, error) {
	expectedHeight := r.State.Height + 1
	if input.Frame.Height != expectedHeight {
		return nil, protocolErr(ErrWrongHeight)
	}
	prevRoot, err := r.State.StateRoot()
	if err != nil {
		return nil, err
	}
	if input.Frame.PrevStateHash != prevRoot {
		return nil, protocolErr(ErrWrongPrevHash)
	}
	proposerId := DesignatedProposer(r.State.Config)
	hash := frameCommitHash(input.Frame)
	if !crypto.Verify(hash, input.ProposerSig, proposerId) {
		return nil, ErrBadSignature
	}

	shadow := r.State.clone()
	for _, tx := range input.Frame.Txs {
		if _, err := applyTx(shadow, tx, 0, r.AccountConfig); err != nil {
			shadow.Messages = append(shadow.Messages, "failedTx: "+err.Error())
		}
		shadow.Nonces[tx.Signer] = tx.Nonce
	}
	shadow.Height = input.Frame.Height
	newRoot, err := shadow.StateRoot()
	if err != nil {
		return nil, err
	}
	if newRoot != input.Frame.NewStateRoot {
		return nil, ErrStateRootMismatch
	}

	r.PendingFrame = &input.Frame
	r.shadowState = shadow
	r.Phase = PhaseSigning

	sig, err := signer.Sign(hash)
	if err != nil {
		return nil, err
	}
	return []Outgoing{{ToEntity: r.EntityId, ToSigner: proposerId, Input: EntityInput{
		Kind: InputSign, Height: input.Frame.Height, PartialSig: sig, SignerId: r.SignerId,
	}}}, nil
}

func (r *EntityReplica) handleSign(input EntityInput, now int64, signer account.Signer) ([]Outgoing, error) {
	if !r.IsProposer || r.Collector == nil || r.PendingFrame == nil {
		return nil, protocolErr(ErrNoPendingFrame)
	}
	if input.Height != r.PendingFrame.Height {
		return nil, protocolErr(ErrWrongHeight)
	}
	if !r.Collector.Add(input.SignerId, input.PartialSig) {
		return nil, ErrBadSignature
	}
	if r.Collector.Satisfied() {
		return r.finalizeCommit(now, signer)
	}
	return nil, nil
}

func (r *EntityReplica) finalizeCommit(now int64, signer account.Signer) ([]Outgoing, error) {
	h := r.Collector.Hanko()
	r.Phase = PhaseCommitting
	r.applyShadow()
	out := []Outgoing{{ToEntity: r.EntityId, Broadcast: true, Input: EntityInput{
		Kind: InputCommit, Height: r.PendingFrame.Height, Hanko: h,
	}}}
	out = append(out, r.driveAccountProposals(now, signer)...)
	out = append(out, r.drainForwardContinuations()...)
	return out, nil
}

func (r *EntityReplica) handleCommit(input EntityInput, now int64, signer account.Signer) ([]Outgoing, error) {
	if r.PendingFrame == nil {
		if input.Height <= r.State.Height {
			return nil, nil
		}
		return nil, protocolErr(ErrNoPendingFrame)
	}
	if input.Height != r.PendingFrame.Height {
		return nil, protocolErr(ErrWrongHeight)
	}
	hash := frameCommitHash(*r.PendingFrame)
	if err := hanko.Verify(input.Hanko, hash); err != nil {
		return nil, err
	}
	r.applyShadow()
	out := r.driveAccountProposals(now, signer)
	return append(out, r.drainForwardContinuations()...), nil
}

// applyShadow promotes the validated shadow state to State, clears the
// committed txs from the mempool by nonce watermark, and resets
// consensus bookkeeping back to Collecting.
func (r *EntityReplica) applyShadow() {
	committed := r.PendingFrame.Txs
	r.State = r.shadowState
	r.shadowState = nil
	r.PendingFrame = nil
	r.Collector = nil
	r.Phase = PhaseCollecting

	committedNonces := make(map[xlntypes.SignerId]uint64, len(committed))
	for _, tx := range committed {
		if n, ok := committedNonces[tx.Signer]; !ok || tx.Nonce > n {
			committedNonces[tx.Signer] = tx.Nonce
		}
	}
	var remaining []EntityTx
	for _, tx := range r.Mempool {
		if n, ok := committedNonces[tx.Signer]; ok && tx.Nonce <= n {
			continue
		}
		remaining = append(remaining, tx)
	}
	r.Mempool = remaining
}

func (r *EntityReplica) handleAccountMessage(input EntityInput, signer account.Signer) ([]Outgoing, error) {
	m, ok := r.State.Accounts[input.FromEntity]
	if !ok {
		return nil, protocolErr(ErrUnknownAccount)
	}
	switch input.AccountMsg.Kind {
	case AccountMsgPropose:
		ack, cancel, err := m.HandlePropose(input.AccountMsg.Propose, input.AccountMsg.ProposerSignerId, signer)
		if err != nil {
			return nil, accountProtocolErr(err)
		}
		if cancel != nil {
			return []Outgoing{{ToEntity: input.FromEntity, Broadcast: true, Input: EntityInput{
				Kind: InputAccountMessage, FromEntity: r.EntityId,
				AccountMsg: AccountMessage{Kind: AccountMsgCancel, Cancel: *cancel},
			}}}, nil
		}
		out := []Outgoing{{ToEntity: input.FromEntity, Broadcast: true, Input: EntityInput{
			Kind: InputAccountMessage, FromEntity: r.EntityId,
			AccountMsg: AccountMessage{Kind: AccountMsgAck, Ack: *ack, AcceptorSignerId: r.SignerId},
		}}}
		return append(out, r.forwardContinuations(m)...), nil
	case AccountMsgAck:
		if err := m.HandleAck(input.AccountMsg.Ack, input.AccountMsg.AcceptorSignerId); err != nil {
			return nil, accountProtocolErr(err)
		}
		return r.forwardContinuations(m), nil
	case AccountMsgCancel:
		return nil, accountProtocolErr(m.HandleCancel(input.AccountMsg.Cancel))
	default:
		return nil, protocolErr(ErrNoPendingFrame)
	}
}

// protocolErr tags err as a spec.md §7 Protocol error (the runtime logs and
// drops the offending message and continues) rather than letting it abort the
// whole R-tick the way an Invariant violation must.
func protocolErr(err error) error {
	return xlntypes.NewClassified(xlntypes.KindProtocol, err)
}

// accountProtocolErr classifies the subset of account-machine errors that
// are message-level protocol violations (stale height, forked prevHash, a
// late Ack/Cancel for a frame this side already resolved) rather than a
// signature/state-hash failure serious enough to treat as an invariant
// violation. Everything else passes through unclassified (defaults to
// KindUser via xlntypes.ClassifyOf).
func accountProtocolErr(err error) error {
	switch errors.Cause(err) {
	case nil:
		return nil
	case account.ErrWrongHeight, account.ErrWrongPrevHash, account.ErrNoPendingFrame:
		return protocolErr(err)
	default:
		return err
	}
}

// driveAccountProposals attempts to propose a pending frame on every
// account this replica holds whose mempool is non-empty and which has no
// frame already in flight. Expected "not yet" outcomes (not our turn,
// cooldown, nothing queued, already proposing) are silent; anything else
// is a real account-machine error and is dropped with a log line rather
// than aborting the entity-level commit that triggered this pass.
func (r *EntityReplica) driveAccountProposals(now int64, signer account.Signer) []Outgoing {
	var out []Outgoing
	for _, counterparty := range r.sortedCounterparties() {
		m := r.State.Accounts[counterparty]
		msg, _, err := m.Propose(signer, now)
		switch errors.Cause(err) {
		case nil:
			out = append(out, Outgoing{ToEntity: counterparty, Broadcast: true, Input: EntityInput{
				Kind: InputAccountMessage, FromEntity: r.EntityId,
				AccountMsg: AccountMessage{Kind: AccountMsgPropose, Propose: msg, ProposerSignerId: r.SignerId},
			}})
		case account.ErrPendingFrameInFlight, account.ErrNotProposer, account.ErrCooldownActive, account.ErrMempoolEmpty:
			// nothing to do this tick
		default:
			log.Warn("account propose failed", "entity", r.EntityId, "counterparty", counterparty, "err", err)
		}
	}
	return out
}

// forwardContinuations inspects the account machine's most recently
// committed frame for payments carrying a multi-hop Forward intent and
// enqueues the next hop's directPayment on this entity. The continuation is
// marked Deferred: spec.md §4.3 requires each hop of a route to settle on
// its own R-tick, so the next leg must wait for a subsequent
// ApplyRuntimeInput call rather than draining within the tick that just
// committed this leg.
func (r *EntityReplica) forwardContinuations(m *account.AccountMachine) []Outgoing {
	if len(m.FrameHistory) == 0 {
		return nil
	}
	last := m.FrameHistory[len(m.FrameHistory)-1]
	var out []Outgoing
	for _, tx := range last.Txs {
		if tx.Kind != account.TxPayment || tx.Forward == nil || len(tx.Forward.Remaining) == 0 {
			continue
		}
		effective := applyFeeBps(tx.Amount, tx.Forward.FeeBps)
		nextHop := tx.Forward.Remaining[0]
		continuation := EntityTx{
			Kind:    TxDirectPayment,
			Signer:  r.SignerId,
			Nonce:   r.nextSelfNonce(),
			Target:  nextHop,
			TokenId: tx.TokenId,
			Amount:  effective,
			Route:   tx.Forward.Remaining,
		}
		out = append(out, Outgoing{ToEntity: r.EntityId, Broadcast: true, Deferred: true, Input: EntityInput{Kind: InputAddTx, Tx: continuation}})
	}
	return out
}

// drainForwardContinuations scans every account this replica holds after
// a commit, in case the committed entity frame itself opened or advanced
// an account whose just-committed bilateral frame also carries a forward.
func (r *EntityReplica) drainForwardContinuations() []Outgoing {
	var out []Outgoing
	for _, counterparty := range r.sortedCounterparties() {
		out = append(out, r.forwardContinuations(r.State.Accounts[counterparty])...)
	}
	return out
}

// sortedCounterparties returns this replica's account counterparties in
// canonical ascending order, so the outputs produced by iterating every
// account never depend on Go's randomized map iteration (spec.md §5).
func (r *EntityReplica) sortedCounterparties() []xlntypes.EntityId {
	out := make([]xlntypes.EntityId, 0, len(r.State.Accounts))
	for id := range r.State.Accounts {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return xlntypes.Less(out[i], out[j]) })
	return out
}

func (r *EntityReplica) nextSelfNonce() uint64 {
	watermark := r.State.Nonces[r.SignerId]
	for _, tx := range r.Mempool {
		if tx.Signer == r.SignerId && tx.Nonce > watermark {
			watermark = tx.Nonce
		}
	}
	return watermark + 1
}

func applyFeeBps(amount xlntypes.U256, feeBps uint32) xlntypes.U256 {
	if feeBps == 0 {
		return amount
	}
	num := new(big.Int).Mul(amount.Big(), big.NewInt(int64(10000-feeBps)))
	num.Quo(num, big.NewInt(10000))
	return xlntypes.U256FromBig(num)
}
