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

package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushStringEscapesQuotes(t *testing.T) {
	b := NewBuilder()
	b.PushString("osmm:user", `a "quoted" name`)
	assert.Equal(t, `osmm:user "a \"quoted\" name";`+"\n", b.String())
}

func TestPushIntValue(t *testing.T) {
	b := NewBuilder()
	b.PushInt("osmm:version", 7)
	assert.Equal(t, `osmm:version "7"^^xsd:integer;`+"\n", b.String())
}

func TestPushBoolValue(t *testing.T) {
	b := NewBuilder()
	b.PushBool("osmm:isClosed", true)
	assert.Equal(t, `osmm:isClosed "true"^^xsd:boolean;`+"\n", b.String())
}

func TestPushPointOrdersLonThenLat(t *testing.T) {
	b := NewBuilder()
	b.PushPoint("osmm:loc", 52.5, 13.4)
	assert.Equal(t, `osmm:loc "Point(13.4 52.5)"^^geo:wktLiteral;`+"\n", b.String())
}

func TestFormatTimestampNoFractionalSeconds(t *testing.T) {
	assert.Equal(t, "2020-09-13T12:26:40Z", FormatTimestamp(1600000000000))
}

func TestFormatTimestampWithFractionalSeconds(t *testing.T) {
	assert.Equal(t, "2020-09-13T12:26:40.123Z", FormatTimestamp(1600000000123))
}

func TestPushTagSimpleKeyQuotesValue(t *testing.T) {
	consts := NewConsts()
	b := NewBuilder()
	b.PushTag("name", "Central Park", consts)
	assert.Equal(t, `osmt:name "Central Park";`+"\n", b.String())
}

func TestPushTagBadKeyFallsBackToBadkey(t *testing.T) {
	consts := NewConsts()
	b := NewBuilder()
	b.PushTag("this key has spaces", "value", consts)
	assert.Equal(t, `osmm:badkey "value";`+"\n", b.String())
}

func TestPushTagWikidataSingleValue(t *testing.T) {
	consts := NewConsts()
	b := NewBuilder()
	b.PushTag("wikidata", "Q42", consts)
	assert.Equal(t, "osmt:wikidata wd:Q42;\n", b.String())
}

func TestPushTagWikidataMultiValue(t *testing.T) {
	consts := NewConsts()
	b := NewBuilder()
	b.PushTag("wikidata", "Q42;Q123", consts)
	assert.Equal(t, "osmt:wikidata wd:Q42,wd:Q123;\n", b.String())
}

func TestPushTagWikipediaEncodesURL(t *testing.T) {
	consts := NewConsts()
	b := NewBuilder()
	b.PushTag("wikipedia", "en:Central Park", consts)
	assert.Equal(t, "osmt:wikipedia <https://en.wikipedia.org/wiki/Central_Park>;\n", b.String())
}

func TestPushMetadataTerminatesWithPeriod(t *testing.T) {
	b := NewBuilder()
	b.PushMetadata(3, "alice", 1600000000000, 42)
	got := b.String()
	assert.Contains(t, got, `osmm:version "3"^^xsd:integer;`)
	assert.Contains(t, got, `osmm:user "alice";`)
	assert.Contains(t, got, `osmm:changeset "42"^^xsd:integer.`)
	assert.Equal(t, byte('.'), got[len(got)-2])
}

func TestClassifyRejectsOverlongLocalName(t *testing.T) {
	consts := NewConsts()
	long := make([]byte, 61)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, consts.SimpleLocalName.Match(long))
}
