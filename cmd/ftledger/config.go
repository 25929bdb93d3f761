// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/ftledger/accounting"
	"github.com/vechain/ftledger/ft"
)

// Config is the YAML config file. Unset fields keep their defaults.
type Config struct {
	Storage struct {
		AccountStorageUsage uint64 `yaml:"account-storage-usage"`
		StorageByteCost     string `yaml:"storage-byte-cost"`
		SafetyMarginPercent uint64 `yaml:"safety-margin-percent"`
		MaxDeposit          string `yaml:"max-deposit"`
	} `yaml:"storage"`
	NotifyTimeout time.Duration `yaml:"notify-timeout"`
	ReceiversDir  string        `yaml:"receivers-dir"`
}

func loadConfig(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %v", path)
	}
	return &cfg, nil
}

// Policy returns the storage policy, applying the configured overrides to the default one.
func (c *Config) Policy() (accounting.Policy, error) {
	p := accounting.DefaultPolicy()
	if c.Storage.AccountStorageUsage != 0 {
		p.AccountStorageUsage = c.Storage.AccountStorageUsage
	}
	if c.Storage.SafetyMarginPercent != 0 {
		p.SafetyMarginPercent = c.Storage.SafetyMarginPercent
	}
	if c.Storage.StorageByteCost != "" {
		cost, err := ft.ParseAmount(c.Storage.StorageByteCost)
		if err != nil {
			return accounting.Policy{}, errors.Wrap(err, "storage-byte-cost")
		}
		p.StorageByteCost = cost
	}
	if c.Storage.MaxDeposit != "" {
		maxDeposit, err := ft.ParseAmount(c.Storage.MaxDeposit)
		if err != nil {
			return accounting.Policy{}, errors.Wrap(err, "max-deposit")
		}
		p.MaxDeposit = maxDeposit
	}
	if err := p.Validate(); err != nil {
		return accounting.Policy{}, err
	}
	return p, nil
}
