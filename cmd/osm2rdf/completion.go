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
)

const bashCompletion = `_osm2rdf_completions() {
  local cur prev
  COMPREPLY=()
  cur="${COMP_WORDS[COMP_CWORD]}"
  prev="${COMP_WORDS[COMP_CWORD-1]}"
  if [ "$COMP_CWORD" -eq 1 ]; then
    COMPREPLY=( $(compgen -W "parse init config status reset completion" -- "$cur") )
    return
  fi
}
complete -F _osm2rdf_completions osm2rdf
`

const zshCompletion = `#compdef osm2rdf
_osm2rdf() {
  local -a commands
  commands=(
    'parse:Convert an OSM PBF extract to gzip-compressed Turtle'
    'init:Create .osm2rdf/project.yaml configuration'
    'config:Show the resolved configuration'
    'status:Report on a coordinate cache file'
    'reset:Delete a cache file and/or output directory'
    'completion:Generate shell completion script'
  )
  _describe 'command' commands
}
_osm2rdf
`

const fishCompletion = `complete -c osm2rdf -f
complete -c osm2rdf -n "__fish_use_subcommand" -a parse -d "Convert an OSM PBF extract to gzip-compressed Turtle"
complete -c osm2rdf -n "__fish_use_subcommand" -a init -d "Create .osm2rdf/project.yaml configuration"
complete -c osm2rdf -n "__fish_use_subcommand" -a config -d "Show the resolved configuration"
complete -c osm2rdf -n "__fish_use_subcommand" -a status -d "Report on a coordinate cache file"
complete -c osm2rdf -n "__fish_use_subcommand" -a reset -d "Delete a cache file and/or output directory"
complete -c osm2rdf -n "__fish_use_subcommand" -a completion -d "Generate shell completion script"
`

// runCompletion executes the 'completion' CLI command, printing a static
// completion script for the requested shell to stdout.
//
// Usage: osm2rdf completion {bash|zsh|fish}
func runCompletion(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: osm2rdf completion {bash|zsh|fish}")
		os.Exit(1)
	}

	switch args[0] {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unsupported shell: %s (expected bash, zsh, or fish)\n", args[0])
		os.Exit(1)
	}
}
