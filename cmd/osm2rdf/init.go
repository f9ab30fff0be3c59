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

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/osm2rdf/internal/errors"
	"github.com/kraklabs/osm2rdf/internal/ui"
)

// runInit executes the 'init' CLI command, creating a .osm2rdf/project.yaml
// configuration file with default settings.
//
// Flags:
//   - --force: Overwrite an existing configuration file
func runInit(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing configuration file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: osm2rdf init [options]

Description:
  Creates .osm2rdf/project.yaml with default settings: a local cache
  path, a 100MB output rotation threshold, and GOMAXPROCS workers.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	configPath := ConfigPath(".")
	if _, err := os.Stat(configPath); err == nil && !*force {
		errors.FatalError(errors.NewArgumentError(
			"Configuration already exists",
			fmt.Sprintf("%s already exists", configPath),
			"Use 'osm2rdf init --force' to overwrite it",
			nil,
		), globals.JSON)
	}

	cfg := DefaultConfig()
	if err := SaveConfig(cfg, configPath); err != nil {
		errors.FatalError(err, globals.JSON)
	}

	ui.Success("Created %s", configPath)
}
