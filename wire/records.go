// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wire

import "math/big"

// DeltaRecord is the canonical wire shape of a per-token Delta (spec.md
// §3). ondelta/offdelta are encoded as two's-complement-free signed
// big.Int — rlp encodes *big.Int natively only for non-negative values, so
// sign is carried out-of-band in OndeltaSign/OffdeltaSign (0 = non-negative,
// 1 = negative) to stay within rlp's supported value space while remaining
// a flat, order-preserving struct.
type DeltaRecord struct {
	TokenId          uint32
	Collateral       *big.Int
	OndeltaSign      uint8
	OndeltaAbs       *big.Int
	OffdeltaSign     uint8
	OffdeltaAbs      *big.Int
	LeftCreditLimit  *big.Int
	RightCreditLimit *big.Int
	LeftAllowance    *big.Int
	RightAllowance   *big.Int
}

// FrameFields is the canonical wire shape hashed to produce an
// AccountFrame's stateHash: keccak256(domain ‖ encode(FrameFields)).
type FrameFields struct {
	TokenIds      []uint32
	Deltas        []DeltaRecord
	PrevFrameHash []byte
	Height        uint64
}

// AccountTxRecord is the canonical wire shape of one AccountTx within a
// frame, used both for hashing and for persistence.
type AccountTxRecord struct {
	Kind    uint8
	TokenId uint32
	Amount  *big.Int
	Payload []byte
}

// EntityTxRecord is the canonical wire shape of one EntityTx.
type EntityTxRecord struct {
	Kind    uint8
	Signer  []byte
	Nonce   uint64
	Payload []byte
}

// HankoRecord is the canonical wire shape of a threshold signature
// aggregate (spec.md §4.4).
type HankoRecord struct {
	Signers      [][]byte
	Sigs         [][]byte
	Threshold    *big.Int
	ShareSigners [][]byte
	ShareWeights []*big.Int
}

// NonceRecord is one signer's nonce watermark within an EntityState.
type NonceRecord struct {
	Signer []byte
	Nonce  uint64
}

// ReserveRecord is one token's reserve balance within an EntityState.
type ReserveRecord struct {
	TokenId uint32
	Amount  *big.Int
}

// AccountRefRecord binds a counterparty to that account's current
// stateHash, without re-encoding the whole AccountMachine.
type AccountRefRecord struct {
	Counterparty []byte
	StateHash    []byte
}

// EntityStateFields is the canonical wire shape hashed to produce an
// EntityState's state root, over sorted nonces, reserves and account
// references so Go's nondeterministic map iteration never leaks into the
// hash.
type EntityStateFields struct {
	Nonces   []NonceRecord
	Reserves []ReserveRecord
	Accounts []AccountRefRecord
	Height   uint64
}

// ReplicaDigestRecord summarizes one entity replica for the runtime's
// snapshot digest: its committed state root, not the full replica.
type ReplicaDigestRecord struct {
	EntityId  []byte
	SignerId  []byte
	Height    uint64
	StateRoot []byte
}

// EnvDigestFields is the canonical wire shape hashed to produce an Env's
// replay digest, over replicas sorted by (entityId, signerId).
type EnvDigestFields struct {
	Height    uint64
	Timestamp int64
	Replicas  []ReplicaDigestRecord
}

// AccountTxPayload carries the kind-specific fields of an AccountTx not
// already on AccountTxRecord (Forward, Bounced); kept separate from
// AccountTxRecord's hashed FrameFields shape so changing a field here
// never perturbs a committed stateHash.
type AccountTxPayload struct {
	Direction     uint8
	Left          bool
	HasForward    bool
	ForwardTo     []byte
	ForwardRest   [][]byte
	ForwardFeeBps uint32
	Bounced       uint64
}

// AccountFrameRecord is the canonical wire shape of a committed
// AccountFrame, used for input-log and history persistence.
type AccountFrameRecord struct {
	Height        uint64
	Timestamp     int64
	Txs           []AccountTxRecord
	PrevFrameHash []byte
	StateHash     []byte
	TokenIds      []uint32
	Deltas        []DeltaRecord
}

// ProposeMsgRecord is the canonical wire shape of an account Propose message.
type ProposeMsgRecord struct {
	Frame       AccountFrameRecord
	ProposerSig []byte
}

// AckMsgRecord is the canonical wire shape of an account Ack message.
type AckMsgRecord struct {
	Height      uint64
	AcceptorSig []byte
}

// CancelMsgRecord is the canonical wire shape of an account Cancel message.
type CancelMsgRecord struct {
	Height uint64
	Reason string
}

// AccountMessageRecord is the canonical wire shape of one bilateral
// protocol message carried inside an EntityInput.
type AccountMessageRecord struct {
	Kind             uint8
	Propose          ProposeMsgRecord
	Ack              AckMsgRecord
	Cancel           CancelMsgRecord
	ProposerSignerId []byte
	AcceptorSignerId []byte
}

// EntityFrameRecord is the canonical wire shape of a committed EntityFrame.
type EntityFrameRecord struct {
	Height        uint64
	Txs           []EntityTxRecord
	PrevStateHash []byte
	NewStateRoot  []byte
}

// EntityInputRecord is the canonical wire shape of one EntityInput, the
// unit the input log persists for replay-based recovery.
type EntityInputRecord struct {
	Kind        uint8
	Tx          EntityTxRecord
	Frame       EntityFrameRecord
	ProposerSig []byte
	Height      uint64
	PartialSig  []byte
	SignerId    []byte
	Hanko       HankoRecord
	FromEntity  []byte
	AccountMsg  AccountMessageRecord
}

// AddressedInputRecord binds an EntityInputRecord to the replica it targets.
type AddressedInputRecord struct {
	EntityId []byte
	SignerId []byte
	Input    EntityInputRecord
}

// ValidatorConfigRecord is the canonical wire shape of an entity's
// validator set and BFT threshold.
type ValidatorConfigRecord struct {
	Mode       uint8
	Threshold  *big.Int
	Validators [][]byte
	Shares     []*big.Int // parallel to Validators
}

// AccountConfigRecord is the canonical wire shape of per-account policy.
type AccountConfigRecord struct {
	BundleSize           uint64
	ProposalTimeoutTicks uint64
	ProposerMode         uint8
	FeeBps               uint32
}

// RuntimeTxRecord is the canonical wire shape of one RuntimeTx.
type RuntimeTxRecord struct {
	Kind          uint8
	EntityId      []byte
	SignerId      []byte
	Config        ValidatorConfigRecord
	AccountConfig AccountConfigRecord
	IsProposer    bool
}

// RuntimeInputRecord is the canonical wire shape of one RuntimeInput, the
// unit persisted at inputs/<height> for recovery-by-replay.
type RuntimeInputRecord struct {
	RuntimeTxs   []RuntimeTxRecord
	EntityInputs []AddressedInputRecord
}

// SnapshotRecord is the canonical wire shape of a snapshot index entry
// persisted at snapshot/<height>: metadata only, not the full Env — full
// recovery replays the input log from the nearest prior snapshot.
type SnapshotRecord struct {
	Height      uint64
	Timestamp   int64
	Digest      []byte
	Description string
}
