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
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/osm2rdf/internal/errors"
	"github.com/kraklabs/osm2rdf/internal/ui"
	"github.com/kraklabs/osm2rdf/pkg/cache"
)

// StatusResult reports on a coordinate cache file for JSON output.
type StatusResult struct {
	CacheFile   string `json:"cache_file"`
	SizeBytes   int64  `json:"size_bytes"`
	MaxNodeID   int64  `json:"max_node_id"`
	OutputDir   string `json:"output_dir,omitempty"`
	OutputFiles int    `json:"output_files,omitempty"`
	OutputBytes int64  `json:"output_bytes,omitempty"`
}

// runStatus executes the 'status' CLI command, reporting the size of a
// coordinate cache file (and, if given, an output directory) without
// modifying either.
//
// Usage: osm2rdf status CACHE_FILE [OUTPUT_DIR]
func runStatus(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: osm2rdf status CACHE_FILE [OUTPUT_DIR]

Description:
  Reports the on-disk size of a coordinate cache file and the implied
  maximum node id it could hold, and, if OUTPUT_DIR is given, the number
  and total size of the .ttl.gz files already written there.

`)
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

	info, err := os.Stat(cacheFile)
	if err != nil {
		errors.FatalError(errors.NewArgumentError(
			"Cannot read cache file",
			fmt.Sprintf("Failed to stat %s", cacheFile),
			"Check the path and that a conversion has been run",
			err,
		), globals.JSON)
	}

	result := StatusResult{
		CacheFile: cacheFile,
		SizeBytes: info.Size(),
	}
	// Node ids index the cache from 0, so n entries hold ids 0..n-1.
	if n := info.Size() / cache.EntrySize(); n > 0 {
		result.MaxNodeID = n - 1
	}

	if len(rest) >= 2 {
		outputDir := rest[1]
		entries, err := os.ReadDir(outputDir)
		if err == nil {
			result.OutputDir = outputDir
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".ttl.gz") {
					continue
				}
				if fi, err := e.Info(); err == nil {
					result.OutputFiles++
					result.OutputBytes += fi.Size()
				}
			}
		}
	}

	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	ui.Header("Cache Status")
	fmt.Printf("%s %s\n", ui.Label("Cache file:"), result.CacheFile)
	fmt.Printf("%s %s\n", ui.Label("Size:"), ui.DimText(fmt.Sprintf("%d bytes", result.SizeBytes)))
	fmt.Printf("%s %s\n", ui.Label("Implied max node id:"), ui.CountText(int(result.MaxNodeID)))
	if result.OutputDir != "" {
		fmt.Println()
		ui.SubHeader("Output Directory")
		fmt.Printf("%s %s\n", ui.Label("Path:"), result.OutputDir)
		fmt.Printf("%s %s\n", ui.Label("Files:"), ui.CountText(result.OutputFiles))
		fmt.Printf("%s %s\n", ui.Label("Total size:"), ui.DimText(fmt.Sprintf("%d bytes", result.OutputBytes)))
	}
}
