// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the YAML schema cmd/xlnd reads at startup:
// jurisdiction parameters, per-entity validator sets, and per-account
// policy, mirroring the teacher's flag/config layering in
// cmd/thor/flags.go without its urfave/cli surface, which is out of
// scope here.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xlnfinance/xln-sub011/account"
	"github.com/xlnfinance/xln-sub011/entity"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// JurisdictionConfig is the top-level tunable set, analogous to the
// teacher's thor.ForkConfig: loaded once at startup and never mutated.
type JurisdictionConfig struct {
	IterationBudget      int    `yaml:"iterationBudget"`
	MempoolBundleSize    int    `yaml:"mempoolBundleSize"`
	ProposalTimeoutTicks uint64 `yaml:"proposalTimeoutTicks"`
	HopTimeoutTicks      uint64 `yaml:"hopTimeoutTicks"`
	DefaultFeeBps        uint32 `yaml:"defaultFeeBps"`
}

// ToParams converts to the runtime-facing xlntypes.Params.
func (c JurisdictionConfig) ToParams() xlntypes.Params {
	return xlntypes.Params{
		IterationBudget:      c.IterationBudget,
		MempoolBundleSize:    c.MempoolBundleSize,
		ProposalTimeoutTicks: c.ProposalTimeoutTicks,
		HopTimeoutTicks:      c.HopTimeoutTicks,
		DefaultFeeBps:        c.DefaultFeeBps,
	}
}

// ValidatorShare is one validator's signer id and governance weight.
type ValidatorShare struct {
	SignerId string `yaml:"signerId"`
	Weight   uint64 `yaml:"weight"`
}

// ValidatorSet is the YAML shape of entity.ValidatorConfig.
type ValidatorSet struct {
	Mode       string           `yaml:"mode"` // "proposer" or "gossip"
	Threshold  uint64           `yaml:"threshold"`
	Validators []ValidatorShare `yaml:"validators"`
}

// ToValidatorConfig parses hex signer ids and builds the entity package's
// native ValidatorConfig.
func (v ValidatorSet) ToValidatorConfig() (entity.ValidatorConfig, error) {
	mode := entity.ProposerBased
	if v.Mode == "gossip" {
		mode = entity.GossipBased
	}
	cfg := entity.ValidatorConfig{
		Mode:      mode,
		Threshold: xlntypes.U256FromUint64(v.Threshold),
		Shares:    make(map[xlntypes.SignerId]xlntypes.U256, len(v.Validators)),
	}
	for _, vs := range v.Validators {
		signer, err := xlntypes.ParseSignerId(vs.SignerId)
		if err != nil {
			return entity.ValidatorConfig{}, errors.Wrapf(err, "config: validator signerId %q", vs.SignerId)
		}
		cfg.Validators = append(cfg.Validators, signer)
		cfg.Shares[signer] = xlntypes.U256FromUint64(vs.Weight)
	}
	return cfg, nil
}

// AccountPolicy is the YAML shape of per-account policy (account.Config),
// keyed by counterparty entity id in EntityConfig.Accounts.
type AccountPolicy struct {
	BundleSize           int    `yaml:"bundleSize"`
	ProposalTimeoutTicks uint64 `yaml:"proposalTimeoutTicks"`
	ProposerMode         string `yaml:"proposerMode"` // "fixedLeft" or "alternating"
	FeeBps               uint32 `yaml:"feeBps"`
}

// ToAccountConfig builds the account package's native Config, falling back
// to jurisdiction-wide defaults for any field the policy leaves at its zero
// value: BundleSize to params.MempoolBundleSize, ProposalTimeoutTicks to
// params.ProposalTimeoutTicks, and FeeBps to params.DefaultFeeBps. An entity
// that wants an explicit zero must set the jurisdiction default to zero too,
// the same cascade the teacher's thor.ForkConfig applies to unset fork
// heights.
func (p AccountPolicy) ToAccountConfig(params xlntypes.Params) account.Config {
	mode := account.ProposerFixedLeft
	if p.ProposerMode == "alternating" {
		mode = account.ProposerAlternating
	}
	bundleSize := p.BundleSize
	if bundleSize <= 0 {
		bundleSize = params.MempoolBundleSize
	}
	timeout := p.ProposalTimeoutTicks
	if timeout == 0 {
		timeout = params.ProposalTimeoutTicks
	}
	feeBps := p.FeeBps
	if feeBps == 0 {
		feeBps = params.DefaultFeeBps
	}
	return account.Config{
		BundleSize:           bundleSize,
		ProposalTimeoutTicks: timeout,
		ProposerMode:         mode,
		FeeBps:               feeBps,
	}
}

// EntityConfig binds one entity's validator set, default account policy,
// and per-counterparty overrides.
type EntityConfig struct {
	EntityId        string                   `yaml:"entityId"`
	Validators      ValidatorSet             `yaml:"validators"`
	DefaultAccount  AccountPolicy            `yaml:"defaultAccount"`
	Accounts        map[string]AccountPolicy `yaml:"accounts"` // keyed by counterparty entityId hex
	InitialReserves map[uint32]uint64        `yaml:"initialReserves"` // tokenId -> amount, credited via JAdapter before the first tick
}

// Config is the full demo-runner configuration file.
type Config struct {
	Jurisdiction JurisdictionConfig `yaml:"jurisdiction"`
	Entities     []EntityConfig     `yaml:"entities"`
}

// Load reads and parses a Config from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: parse %s", path)
	}
	return cfg, nil
}
