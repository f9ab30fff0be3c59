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

// Package cache implements the dense, memory-mapped coordinate cache that
// lets the way pass recover a node's (lat, lon) by OSM id without
// holding every coordinate in the Go heap. The backing file is grown in
// large fixed-size pages and mapped with mmap, so the OS — not the
// process — owns the page cache for the (potentially tens of GB) file.
package cache

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	units "github.com/docker/go-units"
	"golang.org/x/sys/unix"
)

// entrySize is the on-disk/in-memory footprint of one cached coordinate:
// two int32 decimicro-degree values (lat, lon).
const entrySize = 8

// EntrySize returns the on-disk footprint of one cached coordinate, for
// callers (e.g. the status CLI command) that need to translate a cache
// file's size into an implied node id range without opening it.
func EntrySize() int64 { return entrySize }

// DefaultPageSize is the growth unit used when a caller does not override
// it: 10 GiB, matching the fixed page size the reference importer used so
// that a cache sized for the full planet only grows a handful of times.
const DefaultPageSize = 10 * 1024 * 1024 * 1024

// Cache is a grow-on-demand, memory-mapped array of (lat, lon) pairs
// indexed by OSM node id, shared by pointer across every pipeline worker
// goroutine (pkg/osmrdf's Parallel Pipeline hands the same *Cache to all
// of them). Growth replaces c.mapping and c.size wholesale — unmap, grow
// the file, remap — so every access to either field is guarded by mu: a
// read lock for the common in-bounds path (cheap, shared across workers
// reading/writing disjoint regions concurrently) and a write lock only
// while a grow is actually in flight. Without this, a grow running
// concurrently with another goroutine's Set/Get would race on the
// mapping slice header and risk a use of the just-unmapped region.
type Cache struct {
	mu       sync.RWMutex
	file     *os.File
	pageSize int64
	mapping  []byte
	size     int64
	logger   *slog.Logger
}

// Entry is a single cached coordinate, stored as decimicro-degrees
// (10^-7 degree units) to match the PBF wire format exactly — no
// float round-tripping.
type Entry struct {
	Lat int32
	Lon int32
}

// Open creates path if it does not exist, resizes it to exactly one page
// (pageSize bytes) and maps it read-write, growing it in pageSize
// increments as needed. An existing file is not cleared: entries within
// the first page are kept, anything beyond it is cut off. If pageSize is
// 0, DefaultPageSize is used.
func Open(path string, pageSize int64, logger *slog.Logger) (*Cache, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}

	c := &Cache{file: f, pageSize: pageSize, logger: logger}
	// Open runs before any worker goroutine has a reference to c, so the
	// initial grow needs no locking; every grow after this one is reached
	// through offsetFor, which takes c.mu itself.
	if err := c.grow(pageSize); err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

// grow extends the backing file and re-maps it so that it is at least
// minSize bytes, rounding up to the next whole page. The caller must
// hold c.mu for writing: grow replaces c.mapping and c.size, and every
// other access to those fields only holds a read lock.
func (c *Cache) grow(minSize int64) error {
	newSize := ((minSize + c.pageSize - 1) / c.pageSize) * c.pageSize

	if c.mapping != nil {
		if err := unix.Munmap(c.mapping); err != nil {
			return fmt.Errorf("unmap cache: %w", err)
		}
		c.mapping = nil
	}

	if err := c.file.Truncate(newSize); err != nil {
		return fmt.Errorf("grow cache file: %w", err)
	}

	mapping, err := unix.Mmap(int(c.file.Fd()), 0, int(newSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap cache: %w", err)
	}

	oldSize := c.size
	c.mapping = mapping
	c.size = newSize

	c.logger.Info("cache.grow",
		"old_size", units.BytesSize(float64(oldSize)),
		"new_size", units.BytesSize(float64(newSize)),
	)
	return nil
}

// offsetFor returns the byte offset of id's entry, growing the mapping
// first if id falls beyond the currently mapped range. Growth is
// double-checked under the write lock so that two goroutines racing to
// grow for overlapping ids don't both call grow.
func (c *Cache) offsetFor(id int64) (int64, error) {
	if id < 0 {
		return 0, fmt.Errorf("cache: negative id %d", id)
	}
	offset := id * entrySize
	required := offset + entrySize

	c.mu.RLock()
	size := c.size
	c.mu.RUnlock()

	if required > size {
		c.mu.Lock()
		if required > c.size {
			if err := c.grow(required); err != nil {
				c.mu.Unlock()
				return 0, err
			}
		}
		c.mu.Unlock()
	}
	return offset, nil
}

// Set stores the coordinate for id, growing the cache file if necessary.
// Safe for concurrent use by multiple goroutines, including when one
// call's id triggers a grow while others are reading/writing mapped
// regions: the grow runs under a write lock, and the mapping access
// below always runs under at least a read lock, so no goroutine ever
// dereferences a mapping that a concurrent grow has already unmapped.
func (c *Cache) Set(id int64, lat, lon int32) error {
	offset, err := c.offsetFor(id)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	putInt32(c.mapping[offset:], lat)
	putInt32(c.mapping[offset+4:], lon)
	return nil
}

// Get returns the coordinate previously stored for id. An id that was
// never Set reads back as (0, 0) — the cache is a dense array, not a
// sparse map, matching the reference implementation's "zero-filled file"
// growth semantics. Safe for concurrent use; see Set.
func (c *Cache) Get(id int64) (lat, lon int32) {
	offset := id * entrySize

	c.mu.RLock()
	defer c.mu.RUnlock()
	if id < 0 || offset+entrySize > c.size {
		return 0, 0
	}
	return getInt32(c.mapping[offset:]), getInt32(c.mapping[offset+4:])
}

// Close unmaps and closes the backing file. Callers must ensure no
// worker goroutine still holds a reference to the cache when Close runs.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mapping != nil {
		if err := unix.Munmap(c.mapping); err != nil {
			return err
		}
		c.mapping = nil
	}
	return c.file.Close()
}

// Size returns the current size in bytes of the mapped region.
func (c *Cache) Size() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

func putInt32(b []byte, v int32) {
	u := uint32(v)
	b[0] = byte(u)
	b[1] = byte(u >> 8)
	b[2] = byte(u >> 16)
	b[3] = byte(u >> 24)
}

func getInt32(b []byte) int32 {
	u := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return int32(u)
}
