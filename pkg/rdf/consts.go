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

// Package rdf implements the Turtle-fragment formatting primitives shared
// by every record the pipeline emits: typed literals, points, tags, and
// the metadata block. Nothing here reads a PBF record or touches the
// cache — it only knows how to append well-formed clauses to a
// strings.Builder.
package rdf

import "regexp"

// Consts is the process-wide, immutable bundle of precompiled regular
// expressions used by tag classification. It is built once at startup by
// NewConsts and shared by pointer across every worker — no copying, no
// locking, since regexp.Regexp is safe for concurrent use once compiled.
type Consts struct {
	// SimpleLocalName matches keys safe to use as a Turtle local name:
	// letters/digits/underscore, optionally followed by up to 58 more
	// characters (letters/digits/-/:/_), ending in an alphanumeric or '_'.
	SimpleLocalName *regexp.Regexp

	// WikidataValue matches a single Wikidata QID, e.g. "Q42".
	WikidataValue *regexp.Regexp

	// WikidataMultiValue matches a semicolon-separated list of QIDs.
	WikidataMultiValue *regexp.Regexp

	// WikipediaValue matches "lang:Title" wikipedia tag values.
	WikipediaValue *regexp.Regexp
}

// NewConsts compiles the shared regular expressions once. Call it once at
// program startup and pass the resulting pointer to every worker.
func NewConsts() *Consts {
	return &Consts{
		SimpleLocalName:    regexp.MustCompile(`^[0-9A-Za-z_]([-:0-9A-Za-z_]{0,58}[0-9A-Za-z_])?$`),
		WikidataValue:      regexp.MustCompile(`^Q[1-9][0-9]{0,18}$`),
		WikidataMultiValue: regexp.MustCompile(`^Q[1-9][0-9]{0,18}(;Q[1-9][0-9]{0,18})+$`),
		WikipediaValue:     regexp.MustCompile(`^([-a-z]+):(.+)$`),
	}
}
