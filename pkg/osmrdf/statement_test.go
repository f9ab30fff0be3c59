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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectPrefixPerKind(t *testing.T) {
	assert.Equal(t, "osmnode:1\n", Statement{Kind: KindNode, ID: 1}.Subject())
	assert.Equal(t, "osmway:2\n", Statement{Kind: KindWay, ID: 2}.Subject())
	assert.Equal(t, "osmrel:3\n", Statement{Kind: KindRelation, ID: 3}.Subject())
}
