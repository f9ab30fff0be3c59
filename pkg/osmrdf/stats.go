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

import "sync"

// Stats accumulates counters across the whole run. Each transform worker
// keeps its own Stats and merges it into a shared one under a mutex only
// once, when the worker's blob loop ends — the counters themselves are
// plain uint64 additions, associative and commutative, so merge order
// never matters.
type Stats struct {
	AddedNodes   uint64
	AddedWays    uint64
	AddedRels    uint64
	SkippedNodes uint64
	DeletedNodes uint64
	DeletedWays  uint64
	DeletedRels  uint64
	Blocks       uint64
}

// Merge folds other into s, field by field.
func (s *Stats) Merge(other Stats) {
	s.AddedNodes += other.AddedNodes
	s.AddedWays += other.AddedWays
	s.AddedRels += other.AddedRels
	s.SkippedNodes += other.SkippedNodes
	s.DeletedNodes += other.DeletedNodes
	s.DeletedWays += other.DeletedWays
	s.DeletedRels += other.DeletedRels
	s.Blocks += other.Blocks
}

// SharedStats is a mutex-guarded Stats accumulator shared by every
// transform worker, mirroring the worker-local-then-combine pattern used
// throughout the rest of the pipeline.
type SharedStats struct {
	mu    sync.Mutex
	stats Stats
}

// Combine merges a worker's final local Stats into the shared total.
func (s *SharedStats) Combine(local Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Merge(local)
}

// Snapshot returns a copy of the accumulated totals.
func (s *SharedStats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
