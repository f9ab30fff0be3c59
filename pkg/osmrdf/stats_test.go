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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsMergeIsAdditive(t *testing.T) {
	a := Stats{AddedNodes: 3, SkippedNodes: 1}
	b := Stats{AddedNodes: 2, DeletedWays: 5}
	a.Merge(b)

	assert.Equal(t, uint64(5), a.AddedNodes)
	assert.Equal(t, uint64(1), a.SkippedNodes)
	assert.Equal(t, uint64(5), a.DeletedWays)
}

func TestSharedStatsCombineIsOrderIndependent(t *testing.T) {
	var shared SharedStats
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			shared.Combine(Stats{AddedNodes: 1, Blocks: 1})
		}()
	}
	wg.Wait()

	snap := shared.Snapshot()
	assert.Equal(t, uint64(50), snap.AddedNodes)
	assert.Equal(t, uint64(50), snap.Blocks)
}
