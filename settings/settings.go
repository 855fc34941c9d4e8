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

// Package settings holds the user settings of the clock.
//
// Settings are kept as a flat JSON object. Stored objects are merged over
// the defaults, so missing keys take their default value and keys that
// are not understood are carried through unchanged when saved again.
package settings

import (
	"encoding/json"
	"fmt"

	"github.com/aamcrae/nixie/tube"
)

// Key is the name the settings are stored under.
const Key = "millclock_settings"

// Manual is the stored anchor of a manually set time.
type Manual struct {
	StartReal  int64 `json:"startReal"`
	StartClock int64 `json:"startClock"`
}

// Settings is the stored form of the clock configuration.
type Settings struct {
	Lang         string  `json:"lang"`
	Is24h        bool    `json:"is24h"`
	LeadingZero  bool    `json:"leadingZero"`
	ShowSeconds  bool    `json:"showSeconds"`
	AutoDate     bool    `json:"autoDate"`
	DateFormat   string  `json:"dateFormat"`
	YearDigits   int     `json:"yearDigits"`
	Timezone     string  `json:"timezone"`
	DSTMode      string  `json:"dstMode"`
	Separator    string  `json:"separator"`
	Manual       *Manual `json:"manual"`
	Brightness   int     `json:"brightness"`
	NightMode    bool    `json:"nightMode"`
	NightStart   string  `json:"nightStart"`
	NightEnd     string  `json:"nightEnd"`
	HourlyChime  bool    `json:"hourlyChime"`
	HourlyMelody string  `json:"hourlyMelody"`
	AlarmTime    string  `json:"alarmTime"`
	AlarmMelody  string  `json:"alarmMelody"`
	AlarmDays    string  `json:"alarmDays"`
	Volume       int     `json:"volume"`
	Units        string  `json:"units"`
	ShowTemp     bool    `json:"showTemp"`
	TempValue    int     `json:"tempValue"`
	TempRangeF   string  `json:"tempRangeF"`
	TempGlyph3   string  `json:"tempGlyph3"`

	extra map[string]json.RawMessage // Every key read, so unknown keys survive a save
}

// plain has the fields of Settings without its JSON methods.
type plain Settings

const (
	dmy = "DD-MM-YYYY"
	mdy = "MM-DD-YYYY"
)

// Defaults returns the settings of a freshly reset clock.
func Defaults() Settings {
	s := Settings{Lang: "en"}
	s.Apply(tube.DefaultConfig())
	return s
}

// Parse decodes stored settings over the defaults. Malformed data
// returns the defaults and false.
func Parse(data []byte) (Settings, bool) {
	s := Defaults()
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults(), false
	}
	return s, true
}

// UnmarshalJSON merges the object in b over the current values of s.
// Keys written by older versions of the clock are converted.
func (s *Settings) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("settings: not an object")
	}
	// dstMode was once a switch for a fixed hour of summer time.
	if v, ok := raw["dstMode"]; ok {
		var on bool
		if json.Unmarshal(v, &on) == nil {
			if on {
				raw["dstMode"] = json.RawMessage(`"fixed60"`)
			} else {
				raw["dstMode"] = json.RawMessage(`"off"`)
			}
		}
	}
	rename(raw, "separatorBehavior", "separator")
	rename(raw, "autoDateDisplay", "autoDate")
	// Re-encoding a map of valid raw values cannot fail.
	known, _ := json.Marshal(raw)
	if err := json.Unmarshal(known, (*plain)(s)); err != nil {
		return err
	}
	if _, ok := raw["manual"]; !ok {
		legacyManual(s, raw)
	}
	s.ClampTemperature()
	s.extra = raw
	return nil
}

// rename copies an old key to its new name unless the new one is present.
func rename(raw map[string]json.RawMessage, old, key string) {
	if v, ok := raw[old]; ok {
		if _, ok := raw[key]; !ok {
			raw[key] = v
		}
	}
}

// legacyManual converts a fixed offset from real time into an anchor.
func legacyManual(s *Settings, raw map[string]json.RawMessage) {
	var active bool
	var offset int64
	if v, ok := raw["manualActive"]; !ok || json.Unmarshal(v, &active) != nil || !active {
		return
	}
	if v, ok := raw["manualOffsetMs"]; ok && json.Unmarshal(v, &offset) == nil {
		s.Manual = &Manual{StartReal: 0, StartClock: offset}
	}
}

// MarshalJSON writes the settings over every key that was read.
func (s Settings) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(b, &known); err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(s.extra)+len(known))
	for k, v := range s.extra {
		out[k] = v
	}
	for k, v := range known {
		out[k] = v
	}
	return json.Marshal(out)
}

// Config converts the settings to a clock configuration.
// Values that cannot be understood take their defaults.
func (s *Settings) Config() tube.Config {
	cfg := tube.DefaultConfig()
	cfg.Use24Hour = s.Is24h
	cfg.LeadingZero = s.LeadingZero
	cfg.ShowSeconds = s.ShowSeconds
	cfg.ShowDate = s.AutoDate
	if s.DateFormat == mdy {
		cfg.DateFormat = tube.MDY
	}
	if s.YearDigits == 2 {
		cfg.YearDigits = 2
	}
	cfg.Timezone = tube.ParseTimezone(s.Timezone)
	cfg.DST = tube.ParseDSTMode(s.DSTMode)
	cfg.Separator = tube.ParseSeparatorMode(s.Separator)
	if s.Manual != nil {
		cfg.Manual = &tube.Manual{Real: s.Manual.StartReal, Display: s.Manual.StartClock}
	}
	cfg.ShowTemperature = s.ShowTemp
	if s.Units == "f" {
		cfg.Unit = tube.Fahrenheit
	}
	if s.TempRangeF == "digits" {
		cfg.TempRange = tube.RangeDigits
	}
	cfg.Temperature = tube.ClampTemperature(s.TempValue, cfg.Unit, cfg.TempRange)
	if s.TempGlyph3 == "none" {
		cfg.Glyph = tube.GlyphNone
	}
	cfg.Brightness = s.Brightness
	cfg.NightMode = s.NightMode
	if m, ok := tube.ParseClock(s.NightStart); ok {
		cfg.NightStart = m
	}
	if m, ok := tube.ParseClock(s.NightEnd); ok {
		cfg.NightEnd = m
	}
	cfg.HourlyChime = s.HourlyChime
	cfg.HourlyMelody = s.HourlyMelody
	cfg.AlarmTime = -1
	if m, ok := tube.ParseClock(s.AlarmTime); ok {
		cfg.AlarmTime = m
	}
	cfg.AlarmDays = tube.ParseAlarmDays(s.AlarmDays)
	cfg.AlarmMelody = s.AlarmMelody
	cfg.Volume = s.Volume
	return cfg
}

// Apply copies a clock configuration into the settings.
func (s *Settings) Apply(cfg tube.Config) {
	s.Is24h = cfg.Use24Hour
	s.LeadingZero = cfg.LeadingZero
	s.ShowSeconds = cfg.ShowSeconds
	s.AutoDate = cfg.ShowDate
	s.DateFormat = dmy
	if cfg.DateFormat == tube.MDY {
		s.DateFormat = mdy
	}
	s.YearDigits = 4
	if cfg.YearDigits == 2 {
		s.YearDigits = 2
	}
	s.Timezone = tube.FormatTimezone(cfg.Timezone)
	s.DSTMode = cfg.DST.String()
	s.Separator = cfg.Separator.String()
	s.Manual = nil
	if cfg.Manual != nil {
		s.Manual = &Manual{StartReal: cfg.Manual.Real, StartClock: cfg.Manual.Display}
	}
	s.ShowTemp = cfg.ShowTemperature
	s.TempValue = tube.ClampTemperature(cfg.Temperature, cfg.Unit, cfg.TempRange)
	s.Units = "c"
	if cfg.Unit == tube.Fahrenheit {
		s.Units = "f"
	}
	s.TempRangeF = "derived"
	if cfg.TempRange == tube.RangeDigits {
		s.TempRangeF = "digits"
	}
	s.TempGlyph3 = "minute-tens"
	if cfg.Glyph == tube.GlyphNone {
		s.TempGlyph3 = "none"
	}
	s.Brightness = cfg.Brightness
	s.NightMode = cfg.NightMode
	s.NightStart = tube.FormatClock(cfg.NightStart)
	s.NightEnd = tube.FormatClock(cfg.NightEnd)
	s.HourlyChime = cfg.HourlyChime
	s.HourlyMelody = cfg.HourlyMelody
	s.AlarmTime = ""
	if cfg.AlarmTime >= 0 {
		s.AlarmTime = tube.FormatClock(cfg.AlarmTime)
	}
	s.AlarmMelody = cfg.AlarmMelody
	s.AlarmDays = cfg.AlarmDays.String()
	s.Volume = cfg.Volume
}

// ClampTemperature limits the temperature to the bounds of the
// current units. It must be called after the units change.
func (s *Settings) ClampTemperature() {
	u, r := tube.Celsius, tube.RangeDerived
	if s.Units == "f" {
		u = tube.Fahrenheit
	}
	if s.TempRangeF == "digits" {
		r = tube.RangeDigits
	}
	s.TempValue = tube.ClampTemperature(s.TempValue, u, r)
}

// Extra returns the raw value of a key that is not part of Settings.
func (s *Settings) Extra(key string) (json.RawMessage, bool) {
	v, ok := s.extra[key]
	return v, ok
}

// SetExtra sets a key that is carried through without interpretation.
func (s *Settings) SetExtra(key string, v json.RawMessage) {
	if s.extra == nil {
		s.extra = make(map[string]json.RawMessage)
	}
	s.extra[key] = v
}
