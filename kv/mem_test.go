// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemStore(t *testing.T) {
	st := NewMem()
	defer st.Close()

	assert.NoError(t, st.Put([]byte("snapshot/1"), []byte("a")))
	assert.NoError(t, st.Put([]byte("snapshot/2"), []byte("b")))
	assert.NoError(t, st.Put([]byte("inputs/1"), []byte("c")))

	has, err := st.Has([]byte("snapshot/1"))
	assert.NoError(t, err)
	assert.True(t, has)

	v, err := st.Get([]byte("snapshot/1"))
	assert.NoError(t, err)
	assert.Equal(t, "a", string(v))

	_, err = st.Get([]byte("missing"))
	assert.True(t, st.IsNotFound(err))

	var keys []string
	it := st.Iterate(PrefixRange([]byte("snapshot/")))
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	assert.Equal(t, []string{"snapshot/1", "snapshot/2"}, keys)

	assert.NoError(t, st.Delete([]byte("snapshot/1")))
	_, err = st.Get([]byte("snapshot/1"))
	assert.True(t, st.IsNotFound(err))
}

func TestMemStoreBulkIsAtomic(t *testing.T) {
	st := NewMem()
	bulk := st.Bulk()
	assert.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	assert.NoError(t, bulk.Put([]byte("b"), []byte("2")))

	// nothing visible before Write
	_, err := st.Get([]byte("a"))
	assert.True(t, st.IsNotFound(err))

	assert.NoError(t, bulk.Write())

	v, err := st.Get([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, "1", string(v))
}
