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
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/kraklabs/osm2rdf/internal/errors"
	"github.com/kraklabs/osm2rdf/internal/ui"
)

// runConfig executes the 'config' CLI command, printing the resolved
// configuration (flag/env overrides are not reflected here — this shows
// what 'parse' would load from disk before flags are applied).
func runConfig(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: osm2rdf config [options]\n\nPrints the resolved .osm2rdf/project.yaml configuration.\n")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(cfg)
		return
	}

	ui.Header("Configuration")
	data, err := yaml.Marshal(cfg)
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot render configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug, please report it",
			err,
		), globals.JSON)
	}
	os.Stdout.Write(data)
}
