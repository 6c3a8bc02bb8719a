// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"carvel.dev/tplcombine/pkg/dedup"
	"carvel.dev/tplcombine/pkg/spell"
	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultEnvFile = ".env"

	EnvThreshold        = "TPLCOMBINE_THRESHOLD"
	EnvWorkers          = "TPLCOMBINE_WORKERS"
	EnvIdentityLink     = "TPLCOMBINE_IDENTITY_LINK"
	EnvFeatureCacheSize = "TPLCOMBINE_FEATURE_CACHE_SIZE"
)

// File mirrors the TOML configuration file. Unset keys keep the value of
// the previous layer.
type File struct {
	Threshold        *float64     `toml:"threshold"`
	Workers          *int         `toml:"workers"`
	IdentityLink     *bool        `toml:"identity_link"`
	FeatureCacheSize *int         `toml:"feature_cache_size"`
	Weights          *WeightsFile `toml:"weights"`
}

type WeightsFile struct {
	Title       *float64 `toml:"title"`
	Image       *float64 `toml:"image"`
	Description *float64 `toml:"description"`
	Compose     *float64 `toml:"compose"`
	Env         *float64 `toml:"env"`
}

type Loader struct {
	// ConfigFile is an optional TOML file; it must exist when set.
	ConfigFile string

	// EnvFile is a dotenv file. When empty, DefaultEnvFile is used if it
	// exists.
	EnvFile string

	// LookupEnv reads the process environment (os.LookupEnv by default).
	LookupEnv func(string) (string, bool)
}

// Load returns the layered configuration. It does not validate the result;
// dedup.NewEngine does that before any work starts.
func (l Loader) Load() (dedup.Config, error) {
	cfg := dedup.DefaultConfig()

	if l.ConfigFile != "" {
		var file File
		md, err := toml.DecodeFile(l.ConfigFile, &file)
		if err != nil {
			return dedup.Config{}, fmt.Errorf("Reading config file '%s': %s", l.ConfigFile, err)
		}
		err = checkUndecoded(l.ConfigFile, md)
		if err != nil {
			return dedup.Config{}, err
		}
		file.apply(&cfg)
	}

	vars, err := l.envFileVars()
	if err != nil {
		return dedup.Config{}, err
	}

	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range []string{EnvThreshold, EnvWorkers, EnvIdentityLink, EnvFeatureCacheSize} {
		if val, found := lookup(name); found {
			vars[name] = val
		}
	}

	err = applyEnv(vars, &cfg)
	if err != nil {
		return dedup.Config{}, err
	}

	return cfg, nil
}

var knownKeys = []string{
	"threshold", "workers", "identity_link", "feature_cache_size", "weights",
	"weights.title", "weights.image", "weights.description", "weights.compose", "weights.env",
}

func checkUndecoded(path string, md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	key := undecoded[0].String()
	hint := ""
	if suggestion := spell.Suggest(key, knownKeys); suggestion != "" {
		hint = fmt.Sprintf(" (did you mean '%s'?)", suggestion)
	}
	return fmt.Errorf("Reading config file '%s': Unknown key '%s'%s", path, key, hint)
}

func (l Loader) envFileVars() (map[string]string, error) {
	path := l.EnvFile
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("Reading env file '%s': %s", path, err)
	}
	return vars, nil
}

func (f File) apply(cfg *dedup.Config) {
	if f.Threshold != nil {
		cfg.Threshold = *f.Threshold
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
	if f.IdentityLink != nil {
		cfg.IdentityLink = *f.IdentityLink
	}
	if f.FeatureCacheSize != nil {
		cfg.FeatureCacheSize = *f.FeatureCacheSize
	}
	if w := f.Weights; w != nil {
		setFloat(&cfg.Weights.Title, w.Title)
		setFloat(&cfg.Weights.Image, w.Image)
		setFloat(&cfg.Weights.Description, w.Description)
		setFloat(&cfg.Weights.Compose, w.Compose)
		setFloat(&cfg.Weights.Env, w.Env)
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func applyEnv(vars map[string]string, cfg *dedup.Config) error {
	if val, found := vars[EnvThreshold]; found {
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return fmt.Errorf("Parsing %s: Expected number, but was '%s'", EnvThreshold, val)
		}
		cfg.Threshold = f
	}
	if val, found := vars[EnvWorkers]; found {
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("Parsing %s: Expected integer, but was '%s'", EnvWorkers, val)
		}
		cfg.Workers = i
	}
	if val, found := vars[EnvIdentityLink]; found {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("Parsing %s: Expected boolean, but was '%s'", EnvIdentityLink, val)
		}
		cfg.IdentityLink = b
	}
	if val, found := vars[EnvFeatureCacheSize]; found {
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("Parsing %s: Expected integer, but was '%s'", EnvFeatureCacheSize, val)
		}
		cfg.FeatureCacheSize = i
	}
	return nil
}
