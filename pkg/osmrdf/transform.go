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
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/kraklabs/osm2rdf/pkg/cache"
	"github.com/kraklabs/osm2rdf/pkg/rdf"
)

// decimicroScale converts a degree float into the decimicro-degree
// (10^-7 degree) fixed-point units the cache stores, matching the PBF
// wire encoding exactly so coordinates round-trip without drift.
const decimicroScale = 1e7

// Transformer turns decoded osm.Node/Way/Relation values into Statements.
// One Transformer is owned by a single worker goroutine; its Stats field
// is worker-local and merged into the shared total once the worker's
// share of blobs is exhausted.
type Transformer struct {
	Stats  Stats
	consts *rdf.Consts
	cache  *cache.Cache
}

// NewTransformer builds a worker-local transformer sharing the given
// coordinate cache and tag-classification constants.
func NewTransformer(c *cache.Cache, consts *rdf.Consts) *Transformer {
	return &Transformer{consts: consts, cache: c}
}

// Node converts a decoded node. The node's coordinate is recorded in the
// cache unconditionally — including for deleted nodes — before anything
// else, since a later way or relation may still reference the id.
func (t *Transformer) Node(n *osm.Node) Statement {
	_ = t.cache.Set(int64(n.ID), toDecimicro(n.Lat), toDecimicro(n.Lon))

	if !n.Visible {
		t.Stats.DeletedNodes++
		return Statement{Verb: VerbDelete, Kind: KindNode, ID: int64(n.ID)}
	}

	b := rdf.NewBuilder()
	pushTags(b, n.Tags, t.consts)
	if b.Len() == 0 {
		t.Stats.SkippedNodes++
		return Statement{Verb: VerbSkip}
	}

	b.PushPoint("osmm:loc", n.Lat, n.Lon)
	b.PushElementType('n')
	b.PushMetadata(int64(n.Version), n.User, n.Timestamp.UnixMilli(), int64(n.ChangesetID))

	t.Stats.AddedNodes++
	return Statement{
		Verb:      VerbCreate,
		Kind:      KindNode,
		ID:        int64(n.ID),
		Value:     b.String(),
		Timestamp: n.Timestamp.UnixMilli(),
	}
}

// Way converts a decoded way, resolving its member node coordinates from
// the cache to compute a representative point and closed-ring flag.
//
// A way whose members were decoded out of order relative to their nodes
// — the pipeline does not enforce node-before-way ordering across blobs,
// matching the known ordering hazard of the reference importer this was
// built from — reads back a (0, 0) coordinate for any not-yet-cached
// node id instead of failing the whole record.
func (t *Transformer) Way(w *osm.Way) Statement {
	if !w.Visible {
		t.Stats.DeletedWays++
		return Statement{Verb: VerbDelete, Kind: KindWay, ID: int64(w.ID)}
	}

	b := rdf.NewBuilder()
	pushTags(b, w.Tags, t.consts)
	b.PushElementType('w')

	if err := t.pushWayGeometry(b, w); err != nil {
		// osmm:loc:error is an internal sentinel clause, not a user OSM
		// tag, so it bypasses PushTag's classification/osmt: namespacing
		// and is written directly like the other osmm: metadata clauses.
		b.PushString("osmm:loc:error", err.Error())
	}

	ts := w.Timestamp.UnixMilli()
	b.PushMetadata(int64(w.Version), w.User, ts, int64(w.ChangesetID))

	t.Stats.AddedWays++
	return Statement{Verb: VerbCreate, Kind: KindWay, ID: int64(w.ID), Value: b.String(), Timestamp: ts}
}

// Relation converts a decoded relation, emitting a member-list clause
// pair for every member: one to recover all members of a relation by a
// single predicate, one to recover the member's role.
func (t *Transformer) Relation(r *osm.Relation) Statement {
	if !r.Visible {
		t.Stats.DeletedRels++
		return Statement{Verb: VerbDelete, Kind: KindRelation, ID: int64(r.ID)}
	}

	b := rdf.NewBuilder()
	pushTags(b, r.Tags, t.consts)
	b.PushElementType('r')
	ts := r.Timestamp.UnixMilli()

	// Member clauses go before the metadata block so that PushMetadata's
	// final ".\n" terminates the whole record body.
	for _, m := range r.Members {
		prefix := memberPrefix(m.Type)
		memberID := strconv.FormatInt(m.Ref, 10)
		b.WriteString("osmm:has ")
		b.WriteString(prefix)
		b.WriteString(memberID)
		b.WriteString(";\n")
		b.WriteString(prefix)
		b.WriteString(memberID)
		b.WriteByte(' ')
		b.PushQuotedValue(m.Role)
	}
	b.PushMetadata(int64(r.Version), r.User, ts, int64(r.ChangesetID))

	t.Stats.AddedRels++
	return Statement{Verb: VerbCreate, Kind: KindRelation, ID: int64(r.ID), Value: b.String(), Timestamp: ts}
}

func memberPrefix(t osm.MemberType) string {
	switch t {
	case osm.TypeNode:
		return "osmnode:"
	case osm.TypeWay:
		return "osmway:"
	case osm.TypeRelation:
		return "osmrel:"
	default:
		return "osmnode:"
	}
}

// pushWayGeometry resolves the way's node coordinates from the cache,
// emits whether the ring is closed, and a representative "on surface"
// point. The reference implementation used GEOS's true point-on-surface
// operator; no GEOS binding exists anywhere in this module's dependency
// set, so the representative point here is the bounding-box center of
// the resolved vertices instead (via orb.MultiPoint.Bound) — adequate
// as a locating hint, not guaranteed to fall inside a concave or
// self-intersecting ring.
//
// Geometry construction fails — and returns an error instead of a
// Point — when none of the way's member nodes resolve to a cached
// coordinate. cache.Get's own documented sentinel for "never Set" is
// (0, 0); a way every one of whose nodes reads back (0, 0) almost
// certainly hit the node-after-way ordering hazard (see pipeline.go's
// parse.ordering_hazard warning) rather than genuinely sitting on null
// island, so it is treated as unresolved geometry rather than silently
// emitting a bogus Point(0 0). A way with only some nodes resolved
// still produces a (skewed) bounding-box center — only total failure is
// promoted to an error.
func (t *Transformer) pushWayGeometry(b *rdf.Builder, w *osm.Way) error {
	if len(w.Nodes) == 0 {
		return nil
	}

	points := make(orb.MultiPoint, 0, len(w.Nodes))
	first := w.Nodes[0].ID
	last := w.Nodes[len(w.Nodes)-1].ID
	resolved := 0

	for _, n := range w.Nodes {
		lat, lon := t.cache.Get(int64(n.ID))
		if lat != 0 || lon != 0 {
			resolved++
		}
		points = append(points, orb.Point{fromDecimicro(lon), fromDecimicro(lat)})
	}

	if resolved == 0 {
		return fmt.Errorf("no cached coordinates for any of %d member nodes", len(w.Nodes))
	}

	b.PushBool("osmm:isClosed", first == last)

	center := points.Bound().Center()
	b.PushPoint("osmm:loc", center.Lat(), center.Lon())
	return nil
}

func pushTags(b *rdf.Builder, tags osm.Tags, consts *rdf.Consts) {
	for _, tag := range tags {
		if tag.Key == "created_by" {
			continue
		}
		b.PushTag(tag.Key, tag.Value, consts)
	}
}

func toDecimicro(deg float64) int32 {
	return int32(math.Round(deg * decimicroScale))
}

func fromDecimicro(v int32) float64 {
	return float64(v) / decimicroScale
}
