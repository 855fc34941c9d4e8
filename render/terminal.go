// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aamcrae/nixie/tube"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Glow colour of a lit tube.
const glow = lipgloss.Color("#FF6600")

// Terminal prints frames as text. On a terminal the frame is redrawn
// in place and coloured, otherwise one line is written per frame.
type Terminal struct {
	w       io.Writer
	inPlace bool
	lit     lipgloss.Style
	dim     lipgloss.Style
	sep     lipgloss.Style
}

// NewTerminal creates a text display writing to w.
func NewTerminal(w io.Writer) *Terminal {
	t := &Terminal{w: w}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.inPlace = true
	}
	r := lipgloss.NewRenderer(w)
	t.lit = r.NewStyle().Foreground(glow).Bold(true)
	t.dim = r.NewStyle().Foreground(glow).Faint(true)
	t.sep = r.NewStyle().Foreground(glow)
	return t
}

// Text lays out a frame as "HH:MM:SS  DD MM YYYY" with unlit tubes
// and separators as spaces.
func Text(f tube.Frame) string {
	s := f.String()
	var b strings.Builder
	b.WriteString(s[tube.HourTens:tube.MinuteTens])
	b.WriteByte(sep(f.HourSep))
	b.WriteString(s[tube.MinuteTens:tube.SecondTens])
	b.WriteByte(sep(f.SecondSep))
	b.WriteString(s[tube.SecondTens:tube.DateFirstTens])
	b.WriteString("  ")
	b.WriteString(s[tube.DateFirstTens:tube.DateSecondTens])
	b.WriteByte(' ')
	b.WriteString(s[tube.DateSecondTens:tube.Year1])
	b.WriteByte(' ')
	b.WriteString(s[tube.Year1:])
	return b.String()
}

func (t *Terminal) Render(f tube.Frame) error {
	if !t.inPlace {
		_, err := fmt.Fprintln(t.w, Text(f))
		return err
	}
	style := t.lit
	if f.Brightness < 50 {
		style = t.dim
	}
	var b strings.Builder
	for _, c := range Text(f) {
		if c == ':' {
			b.WriteString(t.sep.Render(":"))
		} else {
			b.WriteString(style.Render(string(c)))
		}
	}
	// Return to the start of the line and clear to its end.
	_, err := fmt.Fprintf(t.w, "\r%s\x1b[K", b.String())
	return err
}
