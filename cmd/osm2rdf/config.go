// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/osm2rdf/internal/errors"
	"github.com/kraklabs/osm2rdf/pkg/cache"
)

const (
	defaultConfigDir  = ".osm2rdf"
	defaultConfigFile = "project.yaml"
	configVersion     = "1"
)

// Config represents the .osm2rdf/project.yaml configuration file.
// CachePath, MaxFileSizeMB, Workers and MetricsAddr have 'parse' flag
// equivalents (flag > config file > built-in default); PageSizeBytes and
// LogLevel are set only here, though --debug forces debug logging.
type Config struct {
	Version       string `yaml:"version" json:"version"`
	CachePath     string `yaml:"cache_path" json:"cache_path"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb" json:"max_file_size_mb"`
	Workers       int    `yaml:"workers" json:"workers"` // 0 = GOMAXPROCS
	MetricsAddr   string `yaml:"metrics_addr" json:"metrics_addr"`
	PageSizeBytes int64  `yaml:"page_size_bytes" json:"page_size_bytes"`
	LogLevel      string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns a config with sensible defaults for a single
// conversion run on a local machine.
func DefaultConfig() *Config {
	return &Config{
		Version:       configVersion,
		CachePath:     "./osm2rdf-cache.bin",
		MaxFileSizeMB: 100,
		Workers:       0,
		MetricsAddr:   "",
		PageSizeBytes: cache.DefaultPageSize,
		LogLevel:      "info",
	}
}

// ConfigPath returns the path to the config file in the given directory.
func ConfigPath(dir string) string {
	return filepath.Join(dir, defaultConfigDir, defaultConfigFile)
}

// ConfigDir returns the path to the .osm2rdf directory in the given directory.
func ConfigDir(dir string) string {
	return filepath.Join(dir, defaultConfigDir)
}

// LoadConfig loads configuration from configPath, or returns DefaultConfig
// unchanged if configPath is empty and no project.yaml is found in the
// current directory. A configPath that was explicitly given but does not
// exist, or cannot be parsed, is a fatal argument error.
func LoadConfig(configPath string) (*Config, error) {
	explicit := configPath != ""
	if configPath == "" {
		configPath = ConfigPath(".")
		if _, err := os.Stat(configPath); err != nil {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is user-supplied by design
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.NewArgumentError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check the path and file permissions",
			err,
		)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewArgumentError(
			"Invalid configuration format",
			fmt.Sprintf("%s contains invalid YAML", configPath),
			"Fix the syntax error, or run 'osm2rdf init' to regenerate it",
			err,
		)
	}

	if cfg.Version != configVersion {
		return nil, errors.NewArgumentError(
			"Unsupported configuration version",
			fmt.Sprintf("Config version %q is not supported (expected %q)", cfg.Version, configVersion),
			"Run 'osm2rdf init' to regenerate the configuration file",
			nil,
		)
	}

	return cfg, nil
}

// SaveConfig writes cfg to configPath as YAML, creating the parent
// directory if necessary.
func SaveConfig(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug, please report it",
			err,
		)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.NewPermissionError(
			"Cannot create configuration directory",
			fmt.Sprintf("Permission denied creating %s", dir),
			"Check directory permissions",
			err,
		)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.NewPermissionError(
			"Cannot write configuration file",
			fmt.Sprintf("Permission denied writing %s", configPath),
			"Check file permissions and available disk space",
			err,
		)
	}

	return nil
}
