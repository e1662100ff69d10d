// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package snapshot persists the runtime's input log and checkpoint
// digests to a kv.Store (spec.md §6's snapshot/<height>, inputs/<height>,
// profile/<entityId>, j-cursor layout). It does not serialize the full
// in-memory Env graph: recovery replays the committed input log from the
// nearest prior checkpoint via runtime.Replay, the same replay-law
// guarantee runtime/snapshot.go already asserts in-process. Storing the
// full structural Env would mean round-tripping every in-flight
// collector, pending frame and mempool through rlp for no benefit, since
// none of that is consensus-relevant — only the committed input sequence
// and its resulting digest are.
package snapshot

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/kv"
	"github.com/xlnfinance/xln-sub011/runtime"
	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

var (
	snapshotPrefix = []byte("snapshot/")
	inputsPrefix   = []byte("inputs/")
	profilePrefix  = []byte("profile/")
	jCursorKey     = []byte("j-cursor")
)

func heightKey(prefix []byte, height uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], height)
	return key
}

// SaveSnapshot persists snap's metadata (height, timestamp, digest,
// description) at snapshot/<height>. The full Env is not written; see the
// package doc.
func SaveSnapshot(store kv.Store, snap *runtime.EnvSnapshot) error {
	rec := wire.SnapshotRecord{
		Height:      snap.Height,
		Timestamp:   snap.Timestamp,
		Digest:      snap.Digest.Bytes(),
		Description: snap.Description,
	}
	encoded, err := wire.Encode(rec)
	if err != nil {
		return errors.Wrap(err, "snapshot: encode")
	}
	return store.Put(heightKey(snapshotPrefix, snap.Height), encoded)
}

// LoadSnapshotRecord reads back the metadata saved by SaveSnapshot.
func LoadSnapshotRecord(store kv.Store, height uint64) (wire.SnapshotRecord, error) {
	data, err := store.Get(heightKey(snapshotPrefix, height))
	if err != nil {
		return wire.SnapshotRecord{}, err
	}
	var rec wire.SnapshotRecord
	if err := wire.Decode(data, &rec); err != nil {
		return wire.SnapshotRecord{}, errors.Wrap(err, "snapshot: decode")
	}
	return rec, nil
}

// LatestSnapshotHeight scans the snapshot/ prefix for the highest
// persisted height, or ok=false if none exist.
func LatestSnapshotHeight(store kv.Store) (height uint64, ok bool, err error) {
	it := store.Iterate(kv.PrefixRange(snapshotPrefix))
	defer it.Release()
	var found bool
	for it.Next() {
		h := binary.BigEndian.Uint64(it.Key()[len(snapshotPrefix):])
		if !found || h > height {
			height, found = h, true
		}
	}
	return height, found, it.Error()
}

// AppendInput persists the RuntimeInput that produced height at
// inputs/<height>, the unit recovery replays.
func AppendInput(store kv.Store, height uint64, input runtime.RuntimeInput) error {
	rec, err := input.ToRecord()
	if err != nil {
		return errors.Wrap(err, "snapshot: encode input")
	}
	encoded, err := wire.Encode(rec)
	if err != nil {
		return errors.Wrap(err, "snapshot: encode input")
	}
	return store.Put(heightKey(inputsPrefix, height), encoded)
}

// PersistTick writes the input log entry and the snapshot metadata for one
// tick through a single kv.Bulk, so the pair lands atomically: a crash
// between the two must never leave a snapshot whose input was not
// recorded, or vice versa, since recovery pairs them by height.
func PersistTick(store kv.Store, input runtime.RuntimeInput, snap *runtime.EnvSnapshot) error {
	inputRec, err := input.ToRecord()
	if err != nil {
		return errors.Wrap(err, "snapshot: encode input")
	}
	inputEncoded, err := wire.Encode(inputRec)
	if err != nil {
		return errors.Wrap(err, "snapshot: encode input")
	}

	snapRec := wire.SnapshotRecord{
		Height:      snap.Height,
		Timestamp:   snap.Timestamp,
		Digest:      snap.Digest.Bytes(),
		Description: snap.Description,
	}
	snapEncoded, err := wire.Encode(snapRec)
	if err != nil {
		return errors.Wrap(err, "snapshot: encode")
	}

	bulk := store.Bulk()
	if err := bulk.Put(heightKey(inputsPrefix, snap.Height), inputEncoded); err != nil {
		return errors.Wrap(err, "snapshot: stage input")
	}
	if err := bulk.Put(heightKey(snapshotPrefix, snap.Height), snapEncoded); err != nil {
		return errors.Wrap(err, "snapshot: stage snapshot")
	}
	return errors.Wrap(bulk.Write(), "snapshot: commit tick")
}

// LoadInputsFrom returns every persisted RuntimeInput with height strictly
// greater than fromHeight, in ascending height order — the suffix of the
// input log a recovering process must replay on top of the snapshot taken
// at fromHeight.
func LoadInputsFrom(store kv.Store, fromHeight uint64) ([]runtime.RuntimeInput, error) {
	it := store.Iterate(kv.PrefixRange(inputsPrefix))
	defer it.Release()

	type entry struct {
		height uint64
		data   []byte
	}
	var entries []entry
	for it.Next() {
		h := binary.BigEndian.Uint64(it.Key()[len(inputsPrefix):])
		if h <= fromHeight {
			continue
		}
		entries = append(entries, entry{height: h, data: append([]byte{}, it.Value()...)})
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].height < entries[j].height })

	out := make([]runtime.RuntimeInput, len(entries))
	for i, e := range entries {
		var rec wire.RuntimeInputRecord
		if err := wire.Decode(e.data, &rec); err != nil {
			return nil, errors.Wrapf(err, "snapshot: decode input at height %d", e.height)
		}
		input, err := runtime.RuntimeInputFromRecord(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "snapshot: reconstruct input at height %d", e.height)
		}
		out[i] = input
	}
	return out, nil
}

// SaveJCursor records the watermark up to which jurisdiction events have
// been applied, so a restarted adapter knows where to resume its feed.
func SaveJCursor(store kv.Store, cursor uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, cursor)
	return store.Put(jCursorKey, buf)
}

// LoadJCursor reads back the watermark saved by SaveJCursor, or
// (0, false) if none has been recorded yet.
func LoadJCursor(store kv.Store) (cursor uint64, ok bool, err error) {
	has, err := store.Has(jCursorKey)
	if err != nil || !has {
		return 0, false, err
	}
	data, err := store.Get(jCursorKey)
	if err != nil {
		return 0, false, err
	}
	return binary.BigEndian.Uint64(data), true, nil
}

// SaveProfile persists an entity's validator configuration at
// profile/<entityId>, the public directory other replicas and the
// adapter consult to learn an entity's validator set without replaying
// its whole history.
func SaveProfile(store kv.Store, entityId xlntypes.EntityId, cfg wire.ValidatorConfigRecord) error {
	encoded, err := wire.Encode(cfg)
	if err != nil {
		return errors.Wrap(err, "snapshot: encode profile")
	}
	key := append(append([]byte{}, profilePrefix...), entityId.Bytes()...)
	return store.Put(key, encoded)
}

// LoadProfile reads back the record saved by SaveProfile.
func LoadProfile(store kv.Store, entityId xlntypes.EntityId) (wire.ValidatorConfigRecord, error) {
	key := append(append([]byte{}, profilePrefix...), entityId.Bytes()...)
	data, err := store.Get(key)
	if err != nil {
		return wire.ValidatorConfigRecord{}, err
	}
	var rec wire.ValidatorConfigRecord
	if err := wire.Decode(data, &rec); err != nil {
		return wire.ValidatorConfigRecord{}, errors.Wrap(err, "snapshot: decode profile")
	}
	return rec, nil
}
