// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package combine

import (
	"carvel.dev/tplcombine/pkg/config"
	"carvel.dev/tplcombine/pkg/dedup"
)

// ConfigFlags layers command line overrides on top of config.Loader.
// Only flags given explicitly override file and environment values.
type ConfigFlags struct {
	ConfigFile string
	EnvFile    string

	Threshold    float64
	Workers      int
	IdentityLink bool

	changed func(string) bool
}

func (s *ConfigFlags) Set(flags CmdFlags) {
	defaults := dedup.DefaultConfig()

	flags.StringVar(&s.ConfigFile, "config", "", "TOML configuration file")
	flags.StringVar(&s.EnvFile, "env-file", "", "Env file with TPLCOMBINE_* settings (default '.env' if present)")
	flags.Float64Var(&s.Threshold, "threshold", defaults.Threshold, "Minimum similarity for two templates to be duplicates, within [0,1]")
	flags.IntVar(&s.Workers, "workers", defaults.Workers, "Concurrent pair scoring workers (0 uses all CPUs)")
	flags.BoolVar(&s.IdentityLink, "identity-link", defaults.IdentityLink,
		"Also treat templates with the same image and contained titles as duplicates")

	s.changed = flags.Changed
}

func (s *ConfigFlags) Config() (dedup.Config, error) {
	cfg, err := config.Loader{ConfigFile: s.ConfigFile, EnvFile: s.EnvFile}.Load()
	if err != nil {
		return dedup.Config{}, err
	}

	if s.isChanged("threshold") {
		cfg.Threshold = s.Threshold
	}
	if s.isChanged("workers") {
		cfg.Workers = s.Workers
	}
	if s.isChanged("identity-link") {
		cfg.IdentityLink = s.IdentityLink
	}

	return cfg, nil
}

func (s *ConfigFlags) isChanged(name string) bool {
	return s.changed != nil && s.changed(name)
}
