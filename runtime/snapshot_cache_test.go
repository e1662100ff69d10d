// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCachePinsMostRecentHeights(t *testing.T) {
	f := newFixture(t)
	c := NewSnapshotCache(2)

	for h := uint64(1); h <= 3; h++ {
		snap, err := Snapshot(f.env, RuntimeInput{}, "")
		require.NoError(t, err)
		snap.Height = h
		c.Pin(snap)
	}

	assert.Equal(t, 2, len(c.Heights()))
	_, ok := c.Get(1)
	assert.False(t, ok, "oldest height should have aged out")
	got3, ok := c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), got3.Height)
}
