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

package main

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressConfig controls whether and how a progress bar is rendered.
type ProgressConfig struct {
	Enabled bool
}

// NewProgressConfig derives a ProgressConfig from the global flags: JSON
// output disables the bar so it can't corrupt machine-readable output.
func NewProgressConfig(globals GlobalFlags) ProgressConfig {
	return ProgressConfig{Enabled: !globals.JSON}
}

// NewProgressBar returns an indeterminate progress bar (PBF streaming
// decode has no known total object count ahead of time) describing desc,
// or nil if progress reporting is disabled.
func NewProgressBar(cfg ProgressConfig, desc string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}
	return progressbar.NewOptions64(
		-1,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(100_000_000),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("obj"),
		progressbar.OptionOnCompletion(func() { _, _ = os.Stderr.WriteString("\n") }),
	)
}
