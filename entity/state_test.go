// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnfinance/xln-sub011/xlntypes"
)

func TestStateRootCachesAcrossCloneAndChangesWithHeight(t *testing.T) {
	entityId := xlntypes.BytesToBytes32([]byte{0x0a})
	cfg := ValidatorConfig{
		Mode:       ProposerBased,
		Threshold:  xlntypes.U256FromUint64(1),
		Validators: []xlntypes.SignerId{},
	}
	s := NewEntityState(entityId, cfg)

	root0a, err := s.StateRoot()
	require.NoError(t, err)
	root0b, err := s.StateRoot()
	require.NoError(t, err)
	assert.Equal(t, root0a, root0b)

	clone := s.clone()
	cloneRoot, err := clone.StateRoot()
	require.NoError(t, err)
	assert.Equal(t, root0a, cloneRoot, "a clone at the same height must read the same cached root")

	clone.Height = 1
	clone.Nonces[xlntypes.SignerId{0x01}] = 1
	root1, err := clone.StateRoot()
	require.NoError(t, err)
	assert.NotEqual(t, root0a, root1, "content changed along with height, so the root must change too")

	root1Again, err := clone.StateRoot()
	require.NoError(t, err)
	assert.Equal(t, root1, root1Again)
}
