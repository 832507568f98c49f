package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"branec/internal/compiler"
)

// branecConfig mirrors branec.toml:
//
//	[index]
//	endpoint = "https://registry.example.com"
//	timeout = "30s"
//
//	[session]
//	snapshot = ".branec/session.mp"
//
//	[diagnostics]
//	max = 100
//	warnings-as-errors = false
type branecConfig struct {
	Index       indexConfig       `toml:"index"`
	Session     sessionConfig     `toml:"session"`
	Diagnostics diagnosticsConfig `toml:"diagnostics"`
}

type indexConfig struct {
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
}

type sessionConfig struct {
	Snapshot string `toml:"snapshot"`
}

type diagnosticsConfig struct {
	Max              int  `toml:"max"`
	WarningsAsErrors bool `toml:"warnings-as-errors"`
}

// findBranecToml walks from startDir toward the root looking for branec.toml.
func findBranecToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "branec.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (branecConfig, error) {
	var cfg branecConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return branecConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// sessionOptions merges the config file and the command flags into compiler
// options. Flags win over the file.
func sessionOptions(cmd *cobra.Command) (compiler.Options, error) {
	var opts compiler.Options

	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return opts, err
	}
	if cfgPath == "" {
		found, ok, err := findBranecToml(".")
		if err != nil {
			return opts, err
		}
		if ok {
			cfgPath = found
		}
	}
	if cfgPath != "" {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return opts, err
		}
		opts.IndexEndpoint = cfg.Index.Endpoint
		if cfg.Index.Timeout != "" {
			d, err := time.ParseDuration(cfg.Index.Timeout)
			if err != nil {
				return opts, fmt.Errorf("%s: invalid index timeout: %w", cfgPath, err)
			}
			opts.IndexTimeout = d
		}
		opts.SnapshotPath = cfg.Session.Snapshot
		opts.MaxDiagnostics = cfg.Diagnostics.Max
		opts.WarningsAsErrors = cfg.Diagnostics.WarningsAsErrors
	}

	if endpoint, err := cmd.Flags().GetString("index"); err == nil && endpoint != "" {
		opts.IndexEndpoint = endpoint
	}
	if maxDiag, err := cmd.Flags().GetInt("max-diagnostics"); err == nil && cmd.Flags().Changed("max-diagnostics") {
		opts.MaxDiagnostics = maxDiag
	} else if opts.MaxDiagnostics == 0 {
		opts.MaxDiagnostics = maxDiag
	}

	return opts, nil
}
