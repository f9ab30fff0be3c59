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
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Builder accumulates a Turtle fragment for a single record's body: a
// sequence of "PRED value;\n" clauses, with the final separator rewritten
// to ".\n" by PushMetadata. It is not safe for concurrent use — each
// worker owns one Builder per record.
type Builder struct {
	strings.Builder
}

// NewBuilder returns a Builder pre-sized the way the original parser
// pre-allocates its body string (most node/way/relation bodies are a few
// hundred bytes to a few KB; 4KB avoids most re-growth without wasting
// memory across millions of records).
func NewBuilder() *Builder {
	b := &Builder{}
	b.Grow(4096)
	return b
}

// PushString emits PRED "escaped-value";\n using JSON string escaping.
func (b *Builder) PushString(predicate, value string) {
	b.WriteString(predicate)
	b.WriteByte(' ')
	b.pushQuoted(value)
}

// PushQuotedValue writes a JSON-quoted string followed by ";\n" with no
// preceding predicate — used for relation member role clauses, where the
// subject (member prefix + id) was already written directly.
func (b *Builder) PushQuotedValue(value string) {
	b.pushQuoted(value)
}

// pushQuoted writes a JSON-quoted string followed by ";\n".
func (b *Builder) pushQuoted(value string) {
	encoded, _ := json.Marshal(value)
	b.Write(encoded)
	b.WriteString(";\n")
}

// PushChar emits PRED "X";\n.
func (b *Builder) PushChar(predicate string, value rune) {
	b.WriteString(predicate)
	b.WriteString(" \"")
	b.WriteRune(value)
	b.WriteString("\";\n")
}

// PushBool emits PRED "true"^^xsd:boolean;\n or "false"^^xsd:boolean;\n.
func (b *Builder) PushBool(predicate string, value bool) {
	b.WriteString(predicate)
	b.WriteString(" \"")
	if value {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	b.WriteString("\"^^xsd:boolean;\n")
}

// PushInt emits PRED "N"^^xsd:integer;\n.
func (b *Builder) PushInt(predicate string, value int64) {
	b.WriteString(predicate)
	b.WriteString(" \"")
	b.WriteString(strconv.FormatInt(value, 10))
	b.WriteString("\"^^xsd:integer;\n")
}

// PushDate emits PRED "ISO8601"^^xsd:dateTime;\n derived from a
// millisecond UNIX timestamp interpreted in UTC.
func (b *Builder) PushDate(predicate string, milliTimestamp int64) {
	b.WriteString(predicate)
	b.WriteString(" \"")
	b.WriteString(FormatTimestamp(milliTimestamp))
	b.WriteString("\"^^xsd:dateTime;\n")
}

// PushPoint emits PRED "Point(LON LAT)"^^geo:wktLiteral;\n — longitude
// first, matching WKT's (x y) = (lon lat) axis order.
func (b *Builder) PushPoint(predicate string, latitude, longitude float64) {
	b.WriteString(predicate)
	b.WriteString(" \"Point(")
	b.WriteString(strconv.FormatFloat(longitude, 'g', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(latitude, 'g', -1, 64))
	b.WriteString(")\"^^geo:wktLiteral;\n")
}

// PushWikiURL emits <https://LANG.wikipedia.org/wiki/TITLE>;\n, with
// spaces in the title mapped to '_' and the percent-encoding set below
// applied. The title is first normalized to NFC so that visually
// identical Unicode titles encode to the same IRI regardless of how the
// OSM tag happened to be composed upstream.
func (b *Builder) PushWikiURL(lang, site, title string) {
	b.WriteString("<https://")
	b.WriteString(lang)
	b.WriteString(site)
	normalized := norm.NFC.String(title)
	b.WriteString(percentEncodeWikiTitle(strings.ReplaceAll(normalized, " ", "_")))
	b.WriteString(">;\n")
}

// PushTag classifies and emits a single (key, value) OSM tag using
// consts: a key that is not a simple local name becomes
// osmm:badkey "value"; a wikidata key with one or more QIDs becomes a
// comma-separated wd: list; a wikipedia key with a "lang:Title" value
// becomes a wiki URL; anything else is written as osmt:KEY "value".
func (b *Builder) PushTag(key, value string, consts *Consts) {
	if !consts.SimpleLocalName.MatchString(key) {
		b.PushString("osmm:badkey", value)
		return
	}

	b.WriteString("osmt:")
	b.WriteString(key)
	b.WriteByte(' ')

	parsed := false
	switch {
	case strings.Contains(key, "wikidata"):
		switch {
		case consts.WikidataValue.MatchString(value):
			b.WriteString("wd:")
			b.WriteString(value)
			parsed = true
		case consts.WikidataMultiValue.MatchString(value):
			parts := strings.Split(value, ";")
			for i, v := range parts {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString("wd:")
				b.WriteString(v)
			}
			parsed = true
		}
	case strings.Contains(key, "wikipedia"):
		if m := consts.WikipediaValue.FindStringSubmatch(value); m != nil {
			b.PushWikiURL(m[1], ".wikipedia.org/wiki/", m[2])
			return
		}
	}

	if !parsed {
		b.pushQuoted(value)
	} else {
		b.WriteString(";\n")
	}
}

// PushMetadata emits the four-clause metadata block (version, user,
// timestamp, changeset), rewriting the final ";\n" separator to ".\n" so
// the record's subject statement is properly terminated.
func (b *Builder) PushMetadata(version int64, user string, milliTimestamp int64, changeset int64) {
	b.PushInt("osmm:version", version)
	b.PushString("osmm:user", user)
	b.PushDate("osmm:timestamp", milliTimestamp)
	b.PushInt("osmm:changeset", changeset)

	s := b.String()
	trimmed := strings.TrimSuffix(s, ";\n")
	b.Reset()
	b.WriteString(trimmed)
	b.WriteString(".\n")
}

// PushElementType emits the one-letter osmm:type clause for a node ('n'),
// way ('w') or relation ('r').
func (b *Builder) PushElementType(code rune) {
	b.PushChar("osmm:type", code)
}

// FormatTimestamp renders a millisecond UNIX timestamp as a UTC ISO-8601
// string, e.g. "2020-09-13T12:26:40Z", with fractional seconds included
// only when the millisecond remainder is non-zero.
func FormatTimestamp(milliTimestamp int64) string {
	seconds := milliTimestamp / 1000
	millis := milliTimestamp % 1000
	if millis < 0 {
		millis += 1000
		seconds--
	}
	t := time.Unix(seconds, millis*int64(time.Millisecond)).UTC()
	if millis == 0 {
		return t.Format("2006-01-02T15:04:05Z")
	}
	return t.Format("2006-01-02T15:04:05.000Z")
}

// percentEncodeSet is the set of ASCII punctuation bytes that
// percentEncodeWikiTitle escapes in addition to control characters
// (0x00-0x1F and 0x7F): "; @ $ ! * ( ) , / ~ : #". Every other byte is
// copied unchanged.
var percentEncodeSet = map[byte]bool{
	';': true, '@': true, '$': true, '!': true, '*': true, '(': true,
	')': true, ',': true, '/': true, '~': true, ':': true, '#': true,
}

func percentEncodeWikiTitle(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f || percentEncodeSet[c] {
			const hexDigits = "0123456789ABCDEF"
			out.WriteByte('%')
			out.WriteByte(hexDigits[c>>4])
			out.WriteByte(hexDigits[c&0x0f])
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}
