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
	"time"
)

const dstMinutes = 60

// DSTOffset returns the summer time adjustment in minutes for the
// timezone shifted epoch local (ms), where tz is the zone offset in minutes.
func DSTOffset(mode DSTMode, local int64, tz int) int {
	switch mode {
	case DSTFixed:
		return dstMinutes
	case DSTEU, DSTUS:
		start, end := DSTWindow(mode, time.UnixMilli(local).UTC().Year(), tz)
		if !start.Before(end) {
			// Degenerate window.
			return 0
		}
		t := time.UnixMilli(local).UTC()
		if !t.Before(start) && t.Before(end) {
			return dstMinutes
		}
	}
	return 0
}

// DSTWindow returns the start (inclusive) and end (exclusive) of summer
// time in year on the zone shifted standard time line, where tz is the
// zone offset in minutes.
func DSTWindow(mode DSTMode, year, tz int) (time.Time, time.Time) {
	switch mode {
	case DSTEU:
		// Last Sunday of March to last Sunday of October, 01:00 UTC.
		shift := time.Hour + time.Duration(tz)*time.Minute
		return lastSunday(year, time.March).Add(shift), lastSunday(year, time.October).Add(shift)
	case DSTUS:
		// Second Sunday of March 02:00 to first Sunday of November 02:00
		// local. The end is 02:00 summer time, an hour earlier in standard time.
		start := nthSunday(year, time.March, 2).Add(2 * time.Hour)
		end := nthSunday(year, time.November, 1).Add(2*time.Hour - dstMinutes*time.Minute)
		return start, end
	}
	return time.Time{}, time.Time{}
}

// lastSunday returns midnight UTC of the last Sunday in month.
func lastSunday(year int, month time.Month) time.Time {
	// Day 0 of the following month is the last day of this one.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return last.AddDate(0, 0, -int(last.Weekday()))
}

// nthSunday returns midnight UTC of the nth Sunday in month.
func nthSunday(year int, month time.Month, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	add := (7 - int(first.Weekday())) % 7
	return first.AddDate(0, 0, add+7*(n-1))
}
