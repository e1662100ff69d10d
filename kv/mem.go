// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sort"
	"sync"
)

// Mem is an in-memory Store, used in tests and by the demo runner when no
// durable backend is configured.
type Mem struct {
	lock sync.RWMutex
	data map[string][]byte
}

// NewMem creates an empty in-memory Store.
func NewMem() *Mem {
	return &Mem{data: make(map[string][]byte)}
}

func (m *Mem) Get(key []byte) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Mem) Has(key []byte) (bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

func (m *Mem) Put(key, value []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[string(key)] = cp
	return nil
}

func (m *Mem) Delete(key []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *Mem) IsNotFound(err error) bool {
	return err == ErrNotFound
}

func (m *Mem) Close() error { return nil }

func (m *Mem) Iterate(r Range) Iterator {
	m.lock.RLock()
	defer m.lock.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if inRange(r, []byte(k)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return &memIterator{store: m, keys: keys, idx: -1}
}

type memIterator struct {
	store *Mem
	keys  []string
	idx   int
}

func (it *memIterator) Next() bool {
	it.idx++
	return it.idx < len(it.keys)
}

func (it *memIterator) Key() []byte {
	return []byte(it.keys[it.idx])
}

func (it *memIterator) Value() []byte {
	v, _ := it.store.Get([]byte(it.keys[it.idx]))
	return v
}

func (it *memIterator) Release() {}
func (it *memIterator) Error() error { return nil }

func (m *Mem) Bulk() Bulk {
	return &memBulk{store: m}
}

type memOp struct {
	del   bool
	key   []byte
	value []byte
}

type memBulk struct {
	store *Mem
	ops   []memOp
}

func (b *memBulk) Put(key, value []byte) error {
	b.ops = append(b.ops, memOp{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
	return nil
}

func (b *memBulk) Delete(key []byte) error {
	b.ops = append(b.ops, memOp{del: true, key: append([]byte(nil), key...)})
	return nil
}

func (b *memBulk) Write() error {
	b.store.lock.Lock()
	defer b.store.lock.Unlock()
	for _, op := range b.ops {
		if op.del {
			delete(b.store.data, string(op.key))
		} else {
			b.store.data[string(op.key)] = op.value
		}
	}
	return nil
}
