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
	"fmt"
	"math"
	"time"
)

const (
	minBrightness = 10
	maxBrightness = 100
	nightFactor   = 0.3
	minOpacity    = 0.15
	chimeWindow   = 3 // seconds after the minute that still trigger
	alarmBurst    = 3
)

// IsNight returns true if night mode is on and inst is inside the night
// schedule. Schedules may span midnight; an empty schedule is never night.
func IsNight(cfg Config, inst Instant) bool {
	if !cfg.NightMode || cfg.NightStart == cfg.NightEnd {
		return false
	}
	now := inst.MinuteOfDay()
	if cfg.NightStart < cfg.NightEnd {
		return now >= cfg.NightStart && now < cfg.NightEnd
	}
	return now >= cfg.NightStart || now < cfg.NightEnd
}

// EffectiveBrightness returns the tube brightness in percent for inst,
// dimmed during the night schedule.
func EffectiveBrightness(cfg Config, inst Instant) int {
	b := cfg.Brightness
	if b == 0 {
		b = DefaultConfig().Brightness
	}
	b = max(minBrightness, min(maxBrightness, b))
	if IsNight(cfg, inst) {
		b = max(minBrightness, int(math.Round(float64(b)*nightFactor)))
	}
	return b
}

// TubeOpacity maps a brightness percentage onto the opacity of a lit digit.
func TubeOpacity(b int) float64 {
	b = max(minBrightness, min(maxBrightness, b))
	return minOpacity + float64(b-minBrightness)/float64(maxBrightness-minBrightness)*(1-minOpacity)
}

// Chimes decides when the hourly chime and the alarm sound. It remembers
// the last hour and minute that fired so each fires once.
type Chimes struct {
	lastChime string
	lastAlarm string
}

// Check returns the tones to play for inst, in order.
func (c *Chimes) Check(cfg Config, inst Instant) []string {
	var tones []string
	if cfg.HourlyChime && inst.Minute == 0 && inst.Second <= chimeWindow {
		key := fmt.Sprintf("%d-%d-%d-%d", inst.Year, inst.Month, inst.Day, inst.Hour)
		if c.lastChime != key {
			c.lastChime = key
			tones = append(tones, cfg.HourlyMelody)
		}
	}
	if alarmDay(cfg.AlarmDays, inst.Weekday) && cfg.AlarmTime >= 0 &&
		inst.MinuteOfDay() == cfg.AlarmTime && inst.Second <= chimeWindow {
		key := fmt.Sprintf("%d-%d-%d-%s", inst.Year, inst.Month, inst.Day, FormatClock(cfg.AlarmTime))
		if c.lastAlarm != key {
			c.lastAlarm = key
			for i := 0; i < alarmBurst; i++ {
				tones = append(tones, cfg.AlarmMelody)
			}
		}
	}
	return tones
}

func alarmDay(days AlarmDays, wd time.Weekday) bool {
	weekend := wd == time.Saturday || wd == time.Sunday
	switch days {
	case AlarmDaily:
		return true
	case AlarmWeekdays:
		return !weekend
	case AlarmWeekends:
		return weekend
	}
	return false
}
