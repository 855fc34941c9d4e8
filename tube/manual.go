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
	"strconv"
	"time"
)

// SetManualTime sets the displayed time to hh:mm:00 from real time now,
// keeping the date currently displayed. Invalid values leave cfg unchanged
// and return false.
func SetManualTime(cfg Config, now int64, hh, mm int) (Config, bool) {
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return cfg, false
	}
	cur := Resolve(cfg, now)
	return anchor(cfg, now, cur.Year, cur.Month, cur.Day, hh, mm, 0), true
}

// SetManualDate sets the displayed date from real time now, keeping the
// time currently displayed. Invalid dates leave cfg unchanged and return false.
func SetManualDate(cfg Config, now int64, y int, m time.Month, d int) (Config, bool) {
	if !validDate(y, m, d) {
		return cfg, false
	}
	cur := Resolve(cfg, now)
	return anchor(cfg, now, y, m, d, cur.Hour, cur.Minute, cur.Second), true
}

// ClearManual reverts to the real time.
func ClearManual(cfg Config) Config {
	cfg.Manual = nil
	return cfg
}

// ApplyManualInput handles the time ("HH:MM") and date ("YYYY-MM-DD") inputs
// together. Both empty clears the manual time. An empty field keeps the
// value currently displayed. Malformed input is ignored and returns false.
func ApplyManualInput(cfg Config, now int64, timeStr, dateStr string) (Config, bool) {
	if timeStr == "" && dateStr == "" {
		return ClearManual(cfg), true
	}
	cur := Resolve(cfg, now)
	y, m, d := cur.Year, cur.Month, cur.Day
	hh, mm, ss := cur.Hour, cur.Minute, cur.Second
	if dateStr != "" {
		var ok bool
		y, m, d, ok = ParseDate(dateStr)
		if !ok {
			return cfg, false
		}
	}
	if timeStr != "" {
		mins, ok := ParseClock(timeStr)
		if !ok {
			return cfg, false
		}
		hh, mm, ss = mins/60, mins%60, 0
	}
	return anchor(cfg, now, y, m, d, hh, mm, ss), true
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (int, time.Month, int, bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, false
	}
	y, err1 := strconv.Atoi(s[:4])
	m, err2 := strconv.Atoi(s[5:7])
	d, err3 := strconv.Atoi(s[8:])
	if err1 != nil || err2 != nil || err3 != nil || !validDate(y, time.Month(m), d) {
		return 0, 0, 0, false
	}
	return y, time.Month(m), d, true
}

func validDate(y int, m time.Month, d int) bool {
	if m < time.January || m > time.December || d < 1 {
		return false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d && t.Month() == m
}

// anchor stores the real time now against the displayed target so the
// clock keeps running from the target. The zone and summer time offsets
// are taken out so Resolve puts them back.
func anchor(cfg Config, now int64, y int, m time.Month, d, hh, mm, ss int) Config {
	local := time.Date(y, m, d, hh, mm, ss, 0, time.UTC).UnixMilli()
	display := local - int64(cfg.Timezone)*msPerMinute
	display -= int64(DSTOffset(cfg.DST, local, cfg.Timezone)) * msPerMinute
	cfg.Manual = &Manual{Real: now, Display: display}
	return cfg
}
