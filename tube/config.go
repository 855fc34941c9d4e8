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

// Package tube computes what a nixie tube clock displays.
//
// Resolve turns a real time into the instant shown on the clock face,
// and Format projects that instant onto the individual tubes.
// Clock ties both to a ticker and to the renderers that drive the tubes.
package tube

import (
	"regexp"
	"strconv"
)

type DateFormat int

const (
	DMY DateFormat = iota // Day pair first
	MDY                   // Month pair first
)

type DSTMode int

const (
	DSTOff DSTMode = iota
	DSTEU
	DSTUS
	DSTFixed // Always one hour ahead
)

var dstNames = []string{"off", "eu", "us", "fixed60"}

func (m DSTMode) String() string {
	if m < 0 || int(m) >= len(dstNames) {
		return dstNames[0]
	}
	return dstNames[m]
}

// ParseDSTMode returns the mode for name, defaulting to DSTOff.
func ParseDSTMode(name string) DSTMode {
	for i, n := range dstNames {
		if n == name {
			return DSTMode(i)
		}
	}
	return DSTOff
}

type SeparatorMode int

const (
	SeparatorOff SeparatorMode = iota
	SeparatorStatic
	SeparatorBlinking
)

var separatorNames = []string{"off", "static", "blinking"}

func (m SeparatorMode) String() string {
	if m < 0 || int(m) >= len(separatorNames) {
		return separatorNames[SeparatorBlinking]
	}
	return separatorNames[m]
}

// ParseSeparatorMode returns the mode for name, defaulting to blinking.
func ParseSeparatorMode(name string) SeparatorMode {
	for i, n := range separatorNames {
		if n == name {
			return SeparatorMode(i)
		}
	}
	return SeparatorBlinking
}

type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
)

// TempRange selects how the Fahrenheit bounds are derived.
type TempRange int

const (
	RangeDerived TempRange = iota // Celsius 0..99 converted, i.e. 32..210
	RangeDigits                   // Anything three tubes can show, 0..999
)

// GlyphPolicy selects where the unit glyph goes for a 3 digit temperature.
type GlyphPolicy int

const (
	GlyphMinuteTens GlyphPolicy = iota
	GlyphNone
)

type AlarmDays int

const (
	AlarmOff AlarmDays = iota
	AlarmDaily
	AlarmWeekdays
	AlarmWeekends
)

var alarmNames = []string{"off", "daily", "monfri", "weekends"}

func (a AlarmDays) String() string {
	if a < 0 || int(a) >= len(alarmNames) {
		return alarmNames[0]
	}
	return alarmNames[a]
}

// ParseAlarmDays returns the day filter for name, defaulting to AlarmOff.
func ParseAlarmDays(name string) AlarmDays {
	for i, n := range alarmNames {
		if n == name {
			return AlarmDays(i)
		}
	}
	return AlarmOff
}

// Manual is the anchor of a manually set time. The displayed time is
// Display + (now - Real), so a set time keeps running.
type Manual struct {
	Real    int64 // Real epoch ms when the time was set
	Display int64 // Epoch ms that was shown at that moment
}

// Config holds everything that affects what the tubes show.
type Config struct {
	Use24Hour   bool
	LeadingZero bool
	ShowSeconds bool
	ShowDate    bool
	DateFormat  DateFormat
	YearDigits  int // 2 or 4
	Timezone    int // Offset from UTC in minutes
	DST         DSTMode
	Separator   SeparatorMode
	Manual      *Manual

	ShowTemperature bool
	Temperature     int
	Unit            Unit
	TempRange       TempRange
	Glyph           GlyphPolicy

	Brightness int // Percent, 10-100
	NightMode  bool
	NightStart int // Minutes of day
	NightEnd   int // Minutes of day

	HourlyChime  bool
	HourlyMelody string
	AlarmTime    int // Minutes of day, -1 if unset
	AlarmDays    AlarmDays
	AlarmMelody  string
	Volume       int
}

// DefaultConfig returns the configuration of a freshly reset clock.
func DefaultConfig() Config {
	return Config{
		Use24Hour:    true,
		LeadingZero:  true,
		ShowDate:     true,
		DateFormat:   DMY,
		YearDigits:   4,
		Separator:    SeparatorBlinking,
		Temperature:  22,
		Brightness:   90,
		NightStart:   23 * 60,
		NightEnd:     7 * 60,
		HourlyMelody: "chime1",
		AlarmTime:    7*60 + 30,
		AlarmDays:    AlarmWeekdays,
		AlarmMelody:  "beep",
		Volume:       40,
	}
}

// Zone offsets in use run from UTC-12:00 to UTC+14:00.
const (
	minTimezone = -12 * 60
	maxTimezone = 14 * 60
)

var tzPattern = regexp.MustCompile(`^UTC([+-])(\d{2}):(\d{2})$`)

// ParseTimezone converts "UTC+HH:MM" or "UTC-HH:MM" to minutes east of UTC.
// Anything malformed or out of range is treated as UTC.
func ParseTimezone(s string) int {
	m := tzPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[2])
	min, _ := strconv.Atoi(m[3])
	if min > 59 {
		return 0
	}
	off := h*60 + min
	if m[1] == "-" {
		off = -off
	}
	if off < minTimezone || off > maxTimezone {
		return 0
	}
	return off
}

// FormatTimezone is the inverse of ParseTimezone.
func FormatTimezone(minutes int) string {
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return "UTC" + string(sign) + pad2(minutes/60) + ":" + pad2(minutes%60)
}

// ParseClock parses "HH:MM" into minutes of day.
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatClock converts minutes of day to "HH:MM".
func FormatClock(minutes int) string {
	return pad2(minutes/60) + ":" + pad2(minutes%60)
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
