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
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/osm2rdf/pkg/rdf"
)

func readAllFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func decompress(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := gz.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			break
		}
	}
	return string(buf)
}

func TestWriterProducesSummaryFileWithMaxTimestamp(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 100*1024*1024, nil)

	statements := make(chan Statement, 4)
	statements <- Statement{Verb: VerbCreate, Kind: KindNode, ID: 1, Value: "osmt:name \"a\";\n", Timestamp: 1000000}
	statements <- Statement{Verb: VerbCreate, Kind: KindNode, ID: 2, Value: "osmt:name \"b\";\n", Timestamp: 2000000}
	statements <- Statement{Verb: VerbDelete, Kind: KindNode, ID: 3}
	close(statements)

	require.NoError(t, w.Run(statements))

	names := readAllFiles(t, dir)
	require.Len(t, names, 2)

	data := decompress(t, filepath.Join(dir, names[0]))
	assert.Contains(t, data, "osmnode:1\n")
	assert.Contains(t, data, "osmnode:2\n")

	summary := decompress(t, filepath.Join(dir, names[1]))
	assert.Equal(t, "osmroot: schema:dateModified \""+rdf.FormatTimestamp(2000000)+"\".\n", summary)
}

func TestWriterRotatesOnSizeThreshold(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 10, nil)

	statements := make(chan Statement, 4)
	statements <- Statement{Verb: VerbCreate, Kind: KindNode, ID: 1, Value: "osmt:name \"aaaaaaaaaaaaaaaaaaaa\";\n"}
	statements <- Statement{Verb: VerbCreate, Kind: KindNode, ID: 2, Value: "osmt:name \"bbbbbbbbbbbbbbbbbbbb\";\n"}
	close(statements)

	require.NoError(t, w.Run(statements))

	names := readAllFiles(t, dir)
	assert.GreaterOrEqual(t, len(names), 3)
}
