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

// Package main implements the osm2rdf CLI: a streaming converter from OSM
// PBF extracts to gzip-compressed RDF Turtle.
//
// Usage:
//
//	osm2rdf parse INPUT.osm.pbf OUTPUT_DIR   Convert a PBF extract to Turtle
//	osm2rdf init                             Create .osm2rdf/project.yaml
//	osm2rdf status CACHE_FILE                Report on a coordinate cache
//	osm2rdf config                           Show resolved configuration
//	osm2rdf reset CACHE_FILE [OUTPUT_DIR]    Delete cache/output (destructive)
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/osm2rdf/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds the global CLI flags that apply to all commands.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Debug   bool
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "", "Path to .osm2rdf/project.yaml")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format (for applicable commands)")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)

	// Stop parsing at the first non-flag argument so subcommand flags
	// like "parse --workers 4" are handled by the subcommand, not rejected
	// here.
	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `osm2rdf - streaming OSM PBF to RDF Turtle converter

Usage:
  osm2rdf <command> [options]

Commands:
  parse         Convert an OSM PBF extract to gzip-compressed Turtle
  init          Create .osm2rdf/project.yaml configuration
  config        Show the resolved configuration
  status        Report on a coordinate cache file
  reset         Delete a cache file and/or output directory (destructive!)
  completion    Generate shell completion script (bash|zsh|fish)

Global Options:
  --json            Output in JSON format (for applicable commands)
  --no-color        Disable color output (respects NO_COLOR env var)
  --debug           Enable debug logging
  -c, --config      Path to .osm2rdf/project.yaml
  -V, --version     Show version and exit

Examples:
  osm2rdf init
  osm2rdf parse germany-latest.osm.pbf ./out
  osm2rdf parse germany-latest.osm.pbf ./out --workers 8 --max-file-size 200
  osm2rdf status ./osm2rdf-cache.bin
  osm2rdf reset ./osm2rdf-cache.bin ./out --yes

For detailed command help: osm2rdf <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("osm2rdf version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}
	if *jsonOutput {
		*noColor = true
	}

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor, Debug: *debug}
	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "parse":
		runParse(cmdArgs, *configPath, globals)
	case "init":
		runInit(cmdArgs, globals)
	case "config":
		runConfig(cmdArgs, *configPath, globals)
	case "status":
		runStatus(cmdArgs, globals)
	case "reset":
		runReset(cmdArgs, globals)
	case "completion":
		runCompletion(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
