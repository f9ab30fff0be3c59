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

// runReset executes the 'reset' CLI command, deleting a coordinate cache
// file and, optionally, an output directory. This is destructive and
// requires --yes.
//
// Usage: osm2rdf reset CACHE_FILE [OUTPUT_DIR] --yes
func runReset(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "Confirm the reset (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: osm2rdf reset CACHE_FILE [OUTPUT_DIR] --yes

Description:
  WARNING: This is a destructive operation. Deletes the coordinate cache
  file and, if OUTPUT_DIR is given, OUTPUT_DIR itself with everything
  inside it.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fs.Usage()
		os.Exit(1)
	}
	cacheFile := rest[0]

	if !*confirm {
		errors.FatalError(errors.NewArgumentError(
			"Confirmation required",
			"The --yes flag is required to confirm this destructive operation",
			fmt.Sprintf("Run 'osm2rdf reset %s --yes' to confirm", cacheFile),
			nil,
		), globals.JSON)
	}

	if err := os.Remove(cacheFile); err != nil && !os.IsNotExist(err) {
		errors.FatalError(errors.NewPermissionError(
			"Cannot delete cache file",
			fmt.Sprintf("Failed to remove %s", cacheFile),
			"Check permissions and ensure no conversion is currently running",
			err,
		), globals.JSON)
	}
	ui.Success("Deleted cache file %s", cacheFile)

	if len(rest) >= 2 {
		outputDir := rest[1]
		if err := os.RemoveAll(outputDir); err != nil {
			errors.FatalError(errors.NewPermissionError(
				"Cannot delete output directory",
				fmt.Sprintf("Failed to remove %s", outputDir),
				"Check permissions and ensure no conversion is currently running",
				err,
			), globals.JSON)
		}
		ui.Success("Deleted output directory %s", outputDir)
	}
}
