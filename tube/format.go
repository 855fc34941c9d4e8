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

package tube

import (
	"strings"
)

// Position is the index of a tube on the clock face.
type Position int

const (
	HourTens Position = iota
	HourOnes
	MinuteTens
	MinuteOnes
	SecondTens
	SecondOnes
	DateFirstTens // Day for DMY, month for MDY
	DateFirstOnes
	DateSecondTens
	DateSecondOnes
	Year1
	Year2
	Year3
	Year4
	NumTubes
)

// Symbol is what a single tube shows: a digit, a unit glyph or nothing.
type Symbol byte

const (
	Blank  Symbol = 0
	GlyphC Symbol = 'C'
	GlyphF Symbol = 'F'
)

func digit(v int) Symbol {
	return Symbol('0' + v%10)
}

// IsDigit returns true if the tube shows a numeral.
func (s Symbol) IsDigit() bool {
	return s >= '0' && s <= '9'
}

// Rune returns the printable form of the symbol, with a space for blank.
func (s Symbol) Rune() rune {
	if s == Blank {
		return ' '
	}
	return rune(s)
}

// Frame is the state of every tube and separator for one tick.
type Frame struct {
	Tubes      [NumTubes]Symbol
	HourSep    bool // Separator between hours and minutes is lit
	SecondSep  bool // Separator between minutes and seconds is lit
	Overlay    bool // Temperature is shown instead of the time
	Brightness int  // Percent
}

// String returns one character per tube, blanks as spaces.
func (f Frame) String() string {
	var b strings.Builder
	for _, s := range f.Tubes {
		b.WriteRune(s.Rune())
	}
	return b.String()
}

// Format projects the instant onto the tubes. Separators are left
// unlit, they are set by Separators since they depend on the wall clock.
func Format(inst Instant, cfg Config) Frame {
	var f Frame
	f.Brightness = cfg.Brightness
	h := inst.Hour
	if !cfg.Use24Hour {
		h %= 12
		if h == 0 {
			h = 12
		}
	}
	if !cfg.Use24Hour && !cfg.LeadingZero && h < 10 {
		f.Tubes[HourTens] = Blank
	} else {
		f.Tubes[HourTens] = digit(h / 10)
	}
	f.Tubes[HourOnes] = digit(h)
	f.Tubes[MinuteTens] = digit(inst.Minute / 10)
	f.Tubes[MinuteOnes] = digit(inst.Minute)
	if cfg.ShowSeconds {
		f.Tubes[SecondTens] = digit(inst.Second / 10)
		f.Tubes[SecondOnes] = digit(inst.Second)
	}
	if cfg.ShowDate {
		first, second := inst.Day, int(inst.Month)
		if cfg.DateFormat == MDY {
			first, second = second, first
		}
		f.Tubes[DateFirstTens] = digit(first / 10)
		f.Tubes[DateFirstOnes] = digit(first)
		f.Tubes[DateSecondTens] = digit(second / 10)
		f.Tubes[DateSecondOnes] = digit(second)
		y := inst.Year
		if cfg.YearDigits == 2 {
			f.Tubes[Year1] = digit(y / 10)
			f.Tubes[Year2] = digit(y)
		} else {
			f.Tubes[Year1] = digit(y / 1000)
			f.Tubes[Year2] = digit(y / 100)
			f.Tubes[Year3] = digit(y / 10)
			f.Tubes[Year4] = digit(y)
		}
	}
	if cfg.ShowTemperature {
		overlayTemperature(&f, cfg)
	}
	return f
}
