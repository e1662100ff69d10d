// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// LRU extends golang-lru.Cache with a load-on-miss helper. Used by the
// entity package to cache each replica's state root by height.
type LRU struct {
	*lru.Cache
}

// NewLRU creates an LRU cache bounded to maxSize entries (floor 16).
func NewLRU(maxSize int) *LRU {
	if maxSize < 16 {
		maxSize = 16
	}
	c, _ := lru.New(maxSize)
	return &LRU{c}
}

// Loader loads the value for a cache miss.
type Loader func(key interface{}) (interface{}, error)

// GetOrLoad returns the cached value for key, loading and caching it via
// loader on a miss.
func (l *LRU) GetOrLoad(key interface{}, loader Loader) (interface{}, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}
