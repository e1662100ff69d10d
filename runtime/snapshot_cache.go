// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/xlnfinance/xln-sub011/cache"

// SnapshotCache keeps the most recently taken EnvSnapshots pinned in
// memory, keyed by height, so a caller driving many ticks can hand back a
// recent snapshot without re-reading it from a kv.Store. Priority is the
// height itself, so the lowest (oldest) height is evicted first once the
// cache grows past its bound.
type SnapshotCache struct {
	prio *cache.PrioCache
}

// NewSnapshotCache creates a cache pinning at most size snapshots.
func NewSnapshotCache(size int) *SnapshotCache {
	return &SnapshotCache{prio: cache.NewPrioCache(size)}
}

// Pin stores snap, keyed by its height.
func (c *SnapshotCache) Pin(snap *EnvSnapshot) {
	c.prio.Set(snap.Height, snap, float64(snap.Height))
}

// Get returns the pinned snapshot at height, or ok=false if it has aged
// out or was never pinned.
func (c *SnapshotCache) Get(height uint64) (*EnvSnapshot, bool) {
	v, _, ok := c.prio.Get(height)
	if !ok {
		return nil, false
	}
	return v.(*EnvSnapshot), true
}

// Heights returns every height currently pinned, in unspecified order.
func (c *SnapshotCache) Heights() []uint64 {
	var out []uint64
	c.prio.ForEach(func(e *cache.PrioEntry) bool {
		out = append(out, e.Key.(uint64))
		return true
	})
	return out
}
