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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the Parallel Pipeline's Stats as Prometheus gauges,
// registered against the default registry so they're served on the same
// /metrics endpoint as the process/Go runtime collectors promhttp.Handler
// already exposes. Stats are only fully known once every worker's share
// has been combined at the end of a run (see Stats.Blocks), so the
// per-kind gauges are set once, from the final snapshot; the objects-
// processed gauge is the one value available live, updated from the
// same progress callback the CLI's progress bar uses.
type Metrics struct {
	objectsProcessed prometheus.Gauge
	addedNodes       prometheus.Gauge
	addedWays        prometheus.Gauge
	addedRelations   prometheus.Gauge
	skippedNodes     prometheus.Gauge
	deletedNodes     prometheus.Gauge
	deletedWays      prometheus.Gauge
	deletedRelations prometheus.Gauge
	workerShares     prometheus.Gauge
}

// NewMetrics registers the osm2rdf_* gauge set against the default
// Prometheus registry. Call once per process, only when the metrics
// endpoint is enabled — promauto panics on a duplicate registration.
func NewMetrics() *Metrics {
	return &Metrics{
		objectsProcessed: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_objects_processed",
			Help: "OSM objects (nodes, ways, relations) handed to the worker pool so far in the current run.",
		}),
		addedNodes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_added_nodes",
			Help: "Tagged nodes converted to a Turtle statement in the most recent completed run.",
		}),
		addedWays: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_added_ways",
			Help: "Ways converted to a Turtle statement in the most recent completed run.",
		}),
		addedRelations: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_added_relations",
			Help: "Relations converted to a Turtle statement in the most recent completed run.",
		}),
		skippedNodes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_skipped_nodes",
			Help: "Untagged nodes dropped (no Turtle statement produced) in the most recent completed run.",
		}),
		deletedNodes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_deleted_nodes",
			Help: "Deleted nodes seen in the most recent completed run.",
		}),
		deletedWays: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_deleted_ways",
			Help: "Deleted ways seen in the most recent completed run.",
		}),
		deletedRelations: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_deleted_relations",
			Help: "Deleted relations seen in the most recent completed run.",
		}),
		workerShares: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "osm2rdf_worker_shares_combined",
			Help: "Number of worker-local Stats shares combined into the shared total (see Stats.Blocks).",
		}),
	}
}

// ObserveProgress updates the live objects-processed gauge. Safe to call
// with a nil receiver (metrics disabled) — it's then a no-op.
func (m *Metrics) ObserveProgress(processed int64) {
	if m == nil {
		return
	}
	m.objectsProcessed.Set(float64(processed))
}

// ObserveStats sets the final per-kind gauges from a completed run's
// snapshot. Safe to call with a nil receiver.
func (m *Metrics) ObserveStats(s Stats) {
	if m == nil {
		return
	}
	m.addedNodes.Set(float64(s.AddedNodes))
	m.addedWays.Set(float64(s.AddedWays))
	m.addedRelations.Set(float64(s.AddedRels))
	m.skippedNodes.Set(float64(s.SkippedNodes))
	m.deletedNodes.Set(float64(s.DeletedNodes))
	m.deletedWays.Set(float64(s.DeletedWays))
	m.deletedRelations.Set(float64(s.DeletedRels))
	m.workerShares.Set(float64(s.Blocks))
}
