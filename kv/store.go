// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv implements the KvStore capability interface from spec.md §6:
// get/put/delete plus prefix scan, used only for snapshots, the profile
// registry, and the input log. The core never mutates it directly; it
// emits write intents the runtime captures through this interface.
//
// Adapted from the teacher's kv package (Getter/Putter/Bucket/Iterator
// shape in kv/bucket_test.go, kv/store_test.go) but trimmed to the
// narrower surface spec.md actually calls for.
package kv

import (
	"bytes"
	"errors"
)

// ErrNotFound is returned by Get when key is absent.
var ErrNotFound = errors.New("kv: not found")

// Range bounds a prefix scan: Start is inclusive, Limit is exclusive.
type Range struct {
	Start []byte
	Limit []byte
}

// PrefixRange returns the Range matching every key with the given prefix.
func PrefixRange(prefix []byte) Range {
	limit := append([]byte(nil), prefix...)
	for i := len(limit) - 1; i >= 0; i-- {
		limit[i]++
		if limit[i] != 0 {
			return Range{Start: prefix, Limit: limit[:i+1]}
		}
	}
	// prefix is all 0xff: unbounded above
	return Range{Start: prefix, Limit: nil}
}

// Iterator walks a Range in ascending key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Bulk batches writes for atomic application, matching spec.md §6's "writes
// are atomic per tick".
type Bulk interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Write() error
}

// Store is the KvStore capability interface.
type Store interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	IsNotFound(err error) bool
	Iterate(r Range) Iterator
	Bulk() Bulk
	Close() error
}

// inRange reports whether key falls within r (Limit==nil means unbounded).
func inRange(r Range, key []byte) bool {
	if bytes.Compare(key, r.Start) < 0 {
		return false
	}
	if r.Limit != nil && bytes.Compare(key, r.Limit) >= 0 {
		return false
	}
	return true
}
