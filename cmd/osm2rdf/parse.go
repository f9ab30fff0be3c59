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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/osm2rdf/internal/errors"
	"github.com/kraklabs/osm2rdf/internal/ui"
	"github.com/kraklabs/osm2rdf/pkg/cache"
	"github.com/kraklabs/osm2rdf/pkg/osmrdf"
)

// runParse executes the 'parse' CLI command: stream-decode an OSM PBF
// extract and write gzip-compressed Turtle to the output directory.
//
// Flags:
//   - --cache PATH: coordinate cache file location (default: the config's
//     cache_path, ./osm2rdf-cache.bin; <output>/.osm2rdf-cache.bin only
//     when the config sets cache_path to "")
//   - --max-file-size MB: output file rotation threshold (default: 100)
//   - --workers N: decode/transform worker count (default: GOMAXPROCS)
//   - --metrics-addr ADDR: optional Prometheus metrics listen address
//   - --debug: enable debug logging
func runParse(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	cachePath := fs.String("cache", "", "Coordinate cache file path (default: config cache_path, ./osm2rdf-cache.bin)")
	maxFileSizeMB := fs.Int("max-file-size", 0, "Output file rotation threshold in MB (0 = use config/default)")
	workers := fs.Int("workers", 0, "Number of decode/transform workers (0 = GOMAXPROCS)")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	debug := fs.Bool("debug", globals.Debug, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: osm2rdf parse INPUT.osm.pbf OUTPUT_DIR [options]

Description:
  Streams an OSM PBF extract, converts every tagged node and every way
  and relation to an RDF Turtle fragment, and writes the result as a
  sequence of gzip-compressed files in OUTPUT_DIR. A coordinate cache
  file tracks every node's location so that way geometry can be
  resolved without holding the whole planet in memory.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  osm2rdf parse germany-latest.osm.pbf ./out
  osm2rdf parse germany-latest.osm.pbf ./out --workers 8 --max-file-size 200
  osm2rdf parse germany-latest.osm.pbf ./out --metrics-addr :9090

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	rest := fs.Args()
	if len(rest) != 2 {
		fs.Usage()
		os.Exit(1)
	}
	inputPath, outputDir := rest[0], rest[1]

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	logLevel := slog.LevelInfo
	if *debug || cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	runID := uuid.NewString()
	logger.Info("parse.run.start", "run_id", runID, "input", inputPath, "output_dir", outputDir)

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		errors.FatalError(errors.NewPermissionError(
			"Cannot create output directory",
			fmt.Sprintf("Failed to create %s", outputDir),
			"Check permissions on the parent directory",
			err,
		), globals.JSON)
	}

	resolvedCache := *cachePath
	if resolvedCache == "" {
		resolvedCache = cfg.CachePath
	}
	if resolvedCache == "" {
		resolvedCache = outputDir + "/.osm2rdf-cache.bin"
	}

	resolvedWorkers := *workers
	if resolvedWorkers == 0 {
		resolvedWorkers = cfg.Workers
	}
	if resolvedWorkers == 0 {
		resolvedWorkers = runtime.GOMAXPROCS(0)
	}

	resolvedMaxMB := *maxFileSizeMB
	if resolvedMaxMB == 0 {
		resolvedMaxMB = cfg.MaxFileSizeMB
	}
	if resolvedMaxMB == 0 {
		resolvedMaxMB = 100
	}

	resolvedMetrics := *metricsAddr
	if resolvedMetrics == "" {
		resolvedMetrics = cfg.MetricsAddr
	}

	f, err := os.Open(inputPath) //nolint:gosec // G304: path is a user-supplied CLI argument by design
	if err != nil {
		errors.FatalError(errors.NewArgumentError(
			"Cannot open input file",
			fmt.Sprintf("Failed to open %s", inputPath),
			"Check the path and that the file exists",
			err,
		), globals.JSON)
	}
	defer f.Close()

	coordCache, err := cache.Open(resolvedCache, cfg.PageSizeBytes, logger)
	if err != nil {
		errors.FatalError(errors.NewCacheError(
			"Cannot open coordinate cache",
			fmt.Sprintf("Failed to open or grow %s", resolvedCache),
			"Check available disk space and permissions",
			err,
		), globals.JSON)
	}
	defer coordCache.Close()

	var metrics *osmrdf.Metrics
	if resolvedMetrics != "" {
		metrics = osmrdf.NewMetrics()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: resolvedMetrics, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			logger.Info("metrics.http.start", "addr", resolvedMetrics)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("parse.shutdown.signal", "signal", sig.String())
		cancel()
	}()

	writer := osmrdf.NewWriter(outputDir, int64(resolvedMaxMB)*1024*1024, logger)

	progressCfg := NewProgressConfig(globals)
	bar := NewProgressBar(progressCfg, "Converting")

	start := time.Now()
	stats, runErr := osmrdf.Run(ctx, f, osmrdf.PipelineConfig{
		Workers: resolvedWorkers,
		Cache:   coordCache,
		Writer:  writer,
		Logger:  logger,
		Metrics: metrics,
		OnProgress: func(processed int64) {
			if bar != nil {
				_ = bar.Set64(processed)
			}
		},
	})
	if bar != nil {
		_ = bar.Finish()
	}
	elapsed := time.Since(start)

	if runErr != nil {
		errors.FatalError(errors.NewDecodeError(
			"Conversion failed",
			runErr.Error(),
			"Check the input file is a valid OSM PBF extract",
			runErr,
		), globals.JSON)
	}

	printParseSummary(stats, elapsed, globals)
}

func printParseSummary(stats osmrdf.Stats, elapsed time.Duration, globals GlobalFlags) {
	if globals.JSON {
		fmt.Printf(
			`{"added_nodes":%d,"added_ways":%d,"added_relations":%d,"skipped_nodes":%d,"deleted_nodes":%d,"deleted_ways":%d,"deleted_relations":%d,"blocks":%d,"duration_seconds":%.3f}`+"\n",
			stats.AddedNodes, stats.AddedWays, stats.AddedRels,
			stats.SkippedNodes, stats.DeletedNodes, stats.DeletedWays, stats.DeletedRels,
			stats.Blocks, elapsed.Seconds(),
		)
		return
	}

	fmt.Println()
	ui.Header("Conversion Complete")
	fmt.Printf("%s %s\n", ui.Label("Nodes added:"), ui.CountText(int(stats.AddedNodes)))
	fmt.Printf("%s %s\n", ui.Label("Ways added:"), ui.CountText(int(stats.AddedWays)))
	fmt.Printf("%s %s\n", ui.Label("Relations added:"), ui.CountText(int(stats.AddedRels)))
	fmt.Printf("%s %s\n", ui.Label("Nodes skipped (no tags):"), ui.DimText(fmt.Sprintf("%d", stats.SkippedNodes)))
	if stats.DeletedNodes+stats.DeletedWays+stats.DeletedRels > 0 {
		fmt.Printf("%s %d nodes, %d ways, %d relations\n", ui.Label("Deleted elements:"),
			stats.DeletedNodes, stats.DeletedWays, stats.DeletedRels)
	}
	fmt.Printf("%s %s\n", ui.Label("Worker shares combined:"), ui.CountText(int(stats.Blocks)))
	fmt.Printf("%s %s\n", ui.Label("Duration:"), ui.DimText(elapsed.String()))
}
