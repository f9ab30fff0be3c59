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
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/osm2rdf/pkg/cache"
)

func TestRunOnMalformedStreamReturnsDecodeError(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(filepath.Join(dir, "coords.bin"), 4096, nil)
	require.NoError(t, err)
	defer c.Close()

	w := NewWriter(dir, 10*1024*1024, nil)

	_, err = Run(context.Background(), strings.NewReader("not a pbf file"), PipelineConfig{
		Workers: 2,
		Cache:   c,
		Writer:  w,
	})

	assert.Error(t, err)
}

func TestRunDefaultsWorkersAndBufferSize(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(filepath.Join(dir, "coords.bin"), 4096, nil)
	require.NoError(t, err)
	defer c.Close()

	w := NewWriter(dir, 10*1024*1024, nil)

	// Workers <= 0 and StatementBuf <= 0 must not panic or deadlock; the
	// malformed stream still surfaces a decode error once Run falls back
	// to its own defaults.
	_, err = Run(context.Background(), strings.NewReader("still not a pbf file"), PipelineConfig{
		Cache:  c,
		Writer: w,
	})

	assert.Error(t, err)
}
