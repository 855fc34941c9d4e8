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
	"math"
	"strconv"
)

const maxCelsius = 99

// TemperatureBounds returns the lowest and highest value that can be
// shown for the unit.
func TemperatureBounds(u Unit, r TempRange) (int, int) {
	if u != Fahrenheit {
		return 0, maxCelsius
	}
	if r == RangeDigits {
		return 0, 999
	}
	return int(math.Round(0*9.0/5 + 32)), int(math.Round(maxCelsius*9.0/5 + 32))
}

// ClampTemperature limits v to the bounds of the configured unit.
func ClampTemperature(v int, u Unit, r TempRange) int {
	lo, hi := TemperatureBounds(u, r)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TemperatureDigits returns the clamped temperature as 2 or 3 digits.
func TemperatureDigits(cfg Config) string {
	v := ClampTemperature(cfg.Temperature, cfg.Unit, cfg.TempRange)
	if v >= 100 {
		return strconv.Itoa(v)
	}
	return pad2(v)
}

// overlayTemperature replaces the time with the temperature.
//
//	2 digits: [ ][ ] [ ][U] [d][d]
//	3 digits: [ ][ ] [U][d] [d][d]
func overlayTemperature(f *Frame, cfg Config) {
	glyph := GlyphC
	if cfg.Unit == Fahrenheit {
		glyph = GlyphF
	}
	d := TemperatureDigits(cfg)
	f.Overlay = true
	f.Tubes[HourTens] = Blank
	f.Tubes[HourOnes] = Blank
	if len(d) == 3 {
		if cfg.Glyph == GlyphNone {
			f.Tubes[MinuteTens] = Blank
		} else {
			f.Tubes[MinuteTens] = glyph
		}
		f.Tubes[MinuteOnes] = Symbol(d[0])
		f.Tubes[SecondTens] = Symbol(d[1])
		f.Tubes[SecondOnes] = Symbol(d[2])
	} else {
		f.Tubes[MinuteTens] = Blank
		f.Tubes[MinuteOnes] = glyph
		f.Tubes[SecondTens] = Symbol(d[0])
		f.Tubes[SecondOnes] = Symbol(d[1])
	}
	f.HourSep = false
	f.SecondSep = false
}
