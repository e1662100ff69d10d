// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/entity"
)

const fixtureYAML = `
jurisdiction:
  iterationBudget: 64
  mempoolBundleSize: 128
  proposalTimeoutTicks: 8
  hopTimeoutTicks: 4
  defaultFeeBps: 10

entities:
  - entityId: "0x0000000000000000000000000000000000000000000000000000000000000001"
    validators:
      mode: proposer
      threshold: 1
      validators:
        - signerId: "0x0000000000000000000000000000000000000001"
          weight: 1
    defaultAccount:
      bundleSize: 8
      proposalTimeoutTicks: 8
      proposerMode: fixedLeft
      feeBps: 5
`

func TestLoadParsesFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Jurisdiction.IterationBudget)
	assert.Equal(t, uint32(10), cfg.Jurisdiction.DefaultFeeBps)
	require.Len(t, cfg.Entities, 1)

	vc, err := cfg.Entities[0].Validators.ToValidatorConfig()
	require.NoError(t, err)
	assert.Equal(t, entity.ProposerBased, vc.Mode)
	require.Len(t, vc.Validators, 1)
	assert.Equal(t, uint64(1), vc.Shares[vc.Validators[0]].Big().Uint64())

	ac := cfg.Entities[0].DefaultAccount.ToAccountConfig(cfg.Jurisdiction.ToParams())
	assert.Equal(t, account.ProposerFixedLeft, ac.ProposerMode)
	assert.Equal(t, uint32(5), ac.FeeBps)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/demo.yaml")
	assert.Error(t, err)
}

func TestToAccountConfigFallsBackToJurisdictionDefaults(t *testing.T) {
	params := JurisdictionConfig{
		MempoolBundleSize:    128,
		ProposalTimeoutTicks: 8,
		DefaultFeeBps:        10,
	}.ToParams()

	unset := AccountPolicy{ProposerMode: "alternating"}
	ac := unset.ToAccountConfig(params)
	assert.Equal(t, 128, ac.BundleSize)
	assert.Equal(t, uint64(8), ac.ProposalTimeoutTicks)
	assert.Equal(t, uint32(10), ac.FeeBps)

	explicit := AccountPolicy{BundleSize: 4, ProposalTimeoutTicks: 2, FeeBps: 99}
	ac2 := explicit.ToAccountConfig(params)
	assert.Equal(t, 4, ac2.BundleSize)
	assert.Equal(t, uint64(2), ac2.ProposalTimeoutTicks)
	assert.Equal(t, uint32(99), ac2.FeeBps)
}
