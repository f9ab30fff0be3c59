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

package osmrdf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"

	"github.com/kraklabs/osm2rdf/pkg/rdf"
)

// Writer is the single consumer of the Statement channel. It owns the
// output directory, rotating a new gzip file every time the current one
// crosses maxFileSize bytes of uncompressed Turtle written, and tracks
// the maximum timestamp observed across every Create statement so the
// final summary file can record it.
type Writer struct {
	outputDir   string
	maxFileSize int64
	logger      *slog.Logger

	fileIndex atomic.Uint32
	maxTS     atomic.Int64

	enc        *gzip.Writer
	underlying *os.File
	written    int64
}

// NewWriter returns a Writer rooted at outputDir. maxFileSize is the
// uncompressed-byte threshold at which the current file is closed and a
// new one opened.
func NewWriter(outputDir string, maxFileSize int64, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outputDir: outputDir, maxFileSize: maxFileSize, logger: logger}
}

// Run drains statements until the channel is closed, then writes the
// final "osmroot: schema:dateModified ..." summary line to one last
// rotated file. It is meant to run on its own goroutine; the caller
// waits on the returned error.
func (w *Writer) Run(statements <-chan Statement) error {
	for s := range statements {
		if s.Verb != VerbCreate {
			continue
		}
		if err := w.writeCreate(s); err != nil {
			return err
		}
	}
	return w.writeSummary()
}

func (w *Writer) writeCreate(s Statement) error {
	if w.enc == nil {
		if err := w.rotate(); err != nil {
			return err
		}
	}

	subject := s.Subject()
	if _, err := w.enc.Write([]byte(subject)); err != nil {
		return fmt.Errorf("write statement subject: %w", err)
	}
	if _, err := w.enc.Write([]byte(s.Value)); err != nil {
		return fmt.Errorf("write statement body: %w", err)
	}
	if _, err := w.enc.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write statement separator: %w", err)
	}

	w.written += int64(len(s.Value))
	updateMax(&w.maxTS, s.Timestamp)

	if w.written >= w.maxFileSize {
		if err := w.closeCurrent(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSummary() error {
	if err := w.closeCurrent(); err != nil {
		return err
	}
	if err := w.rotate(); err != nil {
		return err
	}
	defer w.closeCurrent()

	line := fmt.Sprintf("osmroot: schema:dateModified \"%s\".\n", rdf.FormatTimestamp(w.maxTS.Load()))
	if _, err := w.enc.Write([]byte(line)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// rotate opens the next "osm-{:06}.ttl.gz" file in sequence.
func (w *Writer) rotate() error {
	index := w.fileIndex.Add(1) - 1
	path := filepath.Join(w.outputDir, fmt.Sprintf("osm-%06d.ttl.gz", index))

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w.logger.Info("writer.file.rotate", "path", abs, "index", index)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", path, err)
	}
	w.underlying = f
	w.enc = gzip.NewWriter(f)
	w.written = 0
	return nil
}

func (w *Writer) closeCurrent() error {
	if w.enc == nil {
		return nil
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finish gzip stream: %w", err)
	}
	if err := w.underlying.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	w.enc = nil
	w.underlying = nil
	return nil
}

// updateMax performs an atomic fetch-max, mirroring the relaxed
// fetch_max used by the reference writer thread to track the newest
// timestamp seen across every record.
func updateMax(v *atomic.Int64, candidate int64) {
	for {
		cur := v.Load()
		if candidate <= cur {
			return
		}
		if v.CompareAndSwap(cur, candidate) {
			return
		}
	}
}
