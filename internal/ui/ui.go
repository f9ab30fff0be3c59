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

// Package ui provides the colored terminal output helpers shared by the
// osm2rdf CLI commands.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Color handles used across commands. Disabled by InitColors when
// NO_COLOR is set, --no-color is passed, or stdout is not a terminal.
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed, color.Bold)
	Dim    = color.New(color.Faint)
	Bold   = color.New(color.Bold)
)

// InitColors disables color output when explicitly requested, when
// NO_COLOR is set, or when stdout isn't a terminal.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Header prints a bold section header.
func Header(title string) {
	_, _ = Bold.Printf("== %s ==\n", title)
}

// SubHeader prints a bold sub-section header without Header's "==" marks.
func SubHeader(title string) {
	_, _ = Bold.Println(title)
}

// Label renders a bold field label, e.g. ui.Label("Project ID:").
func Label(s string) string {
	return Bold.Sprint(s)
}

// CountText renders an integer count in bold for emphasis in summaries.
func CountText(n int) string {
	return Bold.Sprintf("%d", n)
}

// DimText renders a string in a dimmed/faint style for secondary detail.
func DimText(s string) string {
	return Dim.Sprint(s)
}

// Warnf prints a yellow warning line to stderr.
func Warnf(format string, args ...interface{}) {
	_, _ = Yellow.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// Success prints a green confirmation line to stdout.
func Success(format string, args ...interface{}) {
	_, _ = Green.Printf(format+"\n", args...)
}

// Confirm asks a yes/no question on stderr/stdin, returning true on "y"/"yes".
func Confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	var resp string
	_, _ = fmt.Scanln(&resp)
	return resp == "y" || resp == "yes" || resp == "Y"
}
