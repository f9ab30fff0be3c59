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
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/osm2rdf/pkg/cache"
	"github.com/kraklabs/osm2rdf/pkg/rdf"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "coords.bin"), 4096, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNodeWithNoTagsIsSkipped(t *testing.T) {
	tr := NewTransformer(newTestCache(t), rdf.NewConsts())
	n := &osm.Node{ID: 1, Lat: 1, Lon: 2, Visible: true}

	st := tr.Node(n)

	assert.Equal(t, VerbSkip, st.Verb)
	assert.Equal(t, uint64(1), tr.Stats.SkippedNodes)
}

func TestNodeWithOnlyCreatedByIsSkipped(t *testing.T) {
	tr := NewTransformer(newTestCache(t), rdf.NewConsts())
	n := &osm.Node{
		ID: 1, Lat: 1, Lon: 2, Visible: true,
		Tags: osm.Tags{{Key: "created_by", Value: "JOSM"}},
	}

	st := tr.Node(n)

	assert.Equal(t, VerbSkip, st.Verb)
}

func TestDeletedNodeProducesDeleteStatement(t *testing.T) {
	tr := NewTransformer(newTestCache(t), rdf.NewConsts())
	n := &osm.Node{ID: 7, Visible: false}

	st := tr.Node(n)

	assert.Equal(t, VerbDelete, st.Verb)
	assert.Equal(t, KindNode, st.Kind)
	assert.Equal(t, int64(7), st.ID)
	assert.Equal(t, uint64(1), tr.Stats.DeletedNodes)
}

func TestTaggedNodeProducesCreateStatement(t *testing.T) {
	tr := NewTransformer(newTestCache(t), rdf.NewConsts())
	ts := time.Date(2020, 9, 13, 12, 26, 40, 0, time.UTC)
	n := &osm.Node{
		ID: 42, Lat: 52.5, Lon: 13.4, Visible: true,
		Version: 3, ChangesetID: 99, User: "alice", Timestamp: ts,
		Tags: osm.Tags{{Key: "amenity", Value: "cafe"}},
	}

	st := tr.Node(n)

	require.Equal(t, VerbCreate, st.Verb)
	assert.Equal(t, KindNode, st.Kind)
	assert.Contains(t, st.Value, `osmt:amenity "cafe";`)
	assert.Contains(t, st.Value, `osmm:loc "Point(13.4 52.5)"^^geo:wktLiteral;`)
	assert.Contains(t, st.Value, `osmm:type "n";`)
	assert.Contains(t, st.Value, `osmm:user "alice";`)
	assert.Equal(t, uint64(1), tr.Stats.AddedNodes)
}

func TestDeletedWayProducesDeleteStatement(t *testing.T) {
	tr := NewTransformer(newTestCache(t), rdf.NewConsts())
	w := &osm.Way{ID: 5, Visible: false}

	st := tr.Way(w)

	assert.Equal(t, VerbDelete, st.Verb)
	assert.Equal(t, KindWay, st.Kind)
}

func TestWayGeometryDetectsClosedRing(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set(1, 10000000, 20000000))
	require.NoError(t, c.Set(2, 30000000, 40000000))

	tr := NewTransformer(c, rdf.NewConsts())
	w := &osm.Way{
		ID: 9, Visible: true, User: "bob",
		Nodes: osm.WayNodes{{ID: 1}, {ID: 2}, {ID: 1}},
	}

	st := tr.Way(w)

	require.Equal(t, VerbCreate, st.Verb)
	assert.Contains(t, st.Value, `osmm:isClosed "true"^^xsd:boolean;`)
}

func TestWayWithAllUnresolvedNodesEmitsLocError(t *testing.T) {
	tr := NewTransformer(newTestCache(t), rdf.NewConsts())
	w := &osm.Way{
		ID: 11, Visible: true, User: "dave",
		// Nodes 101/102 were never Set in the cache, so both resolve to
		// the cache's (0, 0) "never set" sentinel.
		Nodes: osm.WayNodes{{ID: 101}, {ID: 102}},
	}

	st := tr.Way(w)

	require.Equal(t, VerbCreate, st.Verb)
	assert.Contains(t, st.Value, "osmm:loc:error")
	assert.NotContains(t, st.Value, "osmm:loc \"")
}

func TestRelationMembersEmitHasAndRoleClauses(t *testing.T) {
	tr := NewTransformer(newTestCache(t), rdf.NewConsts())
	r := &osm.Relation{
		ID: 3, Visible: true, User: "carol",
		Members: osm.Members{
			{Type: osm.TypeWay, Ref: 77, Role: "outer"},
		},
	}

	st := tr.Relation(r)

	require.Equal(t, VerbCreate, st.Verb)
	assert.Contains(t, st.Value, "osmm:has osmway:77;\n")
	assert.Contains(t, st.Value, `osmway:77 "outer";`)
}
