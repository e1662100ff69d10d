// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is the durable Store backing snapshot/<height>, inputs/<height>,
// profile/<entityId>, and j-cursor (spec.md §6 persisted layout).
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a leveldb-backed Store at path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	return l.db.Get(key, nil)
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

func (l *LevelDB) IsNotFound(err error) bool {
	return err == leveldb.ErrNotFound
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}

func (l *LevelDB) Iterate(r Range) Iterator {
	var rng *util.Range
	if r.Start != nil || r.Limit != nil {
		rng = &util.Range{Start: r.Start, Limit: r.Limit}
	}
	return &levelIterator{it: l.db.NewIterator(rng, nil)}
}

type levelIterator struct {
	it    levelIter
	first bool
}

// levelIter narrows the goleveldb iterator to the subset kv.Iterator needs.
type levelIter interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

func (it *levelIterator) Next() bool        { return it.it.Next() }
func (it *levelIterator) Key() []byte       { return it.it.Key() }
func (it *levelIterator) Value() []byte     { return it.it.Value() }
func (it *levelIterator) Release()          { it.it.Release() }
func (it *levelIterator) Error() error      { return it.it.Error() }

func (l *LevelDB) Bulk() Bulk {
	return &levelBulk{db: l.db, batch: new(leveldb.Batch)}
}

type levelBulk struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelBulk) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *levelBulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelBulk) Write() error {
	return b.db.Write(b.batch, nil)
}
