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
	"testing"
)

func TestParseTimezone(t *testing.T) {
	tests := map[string]int{
		"UTC+00:00": 0,
		"UTC+05:30": 330,
		"UTC-03:30": -210,
		"UTC+14:00": 840,
		"UTC-12:00": -720,
		"UTC+5:30":  0,
		"GMT+01:00": 0,
		"UTC+01:75": 0,
		"UTC+99:00": 0,
		"UTC+14:30": 0,
		"UTC-12:01": 0,
		"UTC-23:59": 0,
		"":          0,
		"garbage":   0,
	}
	for in, want := range tests {
		if got := ParseTimezone(in); got != want {
			t.Errorf("ParseTimezone(%q) = %d, want %d", in, got, want)
		}
	}
	for _, tz := range []int{-720, -210, 0, 330, 345, 840} {
		if got := ParseTimezone(FormatTimezone(tz)); got != tz {
			t.Errorf("FormatTimezone(%d) = %q does not parse back", tz, FormatTimezone(tz))
		}
	}
}

func TestParseNames(t *testing.T) {
	for _, m := range []DSTMode{DSTOff, DSTEU, DSTUS, DSTFixed} {
		if got := ParseDSTMode(m.String()); got != m {
			t.Errorf("ParseDSTMode(%q) = %v", m.String(), got)
		}
	}
	if got := ParseDSTMode("summer"); got != DSTOff {
		t.Errorf("unknown DST mode gave %v", got)
	}
	if got := ParseSeparatorMode("flashing"); got != SeparatorBlinking {
		t.Errorf("unknown separator mode gave %v", got)
	}
	if got := ParseAlarmDays("monfri"); got != AlarmWeekdays {
		t.Errorf("monfri gave %v", got)
	}
}

func TestParseClock(t *testing.T) {
	if got, ok := ParseClock("07:30"); !ok || got != 450 {
		t.Errorf("ParseClock(07:30) = %d, %v", got, ok)
	}
	for _, bad := range []string{"7:30", "24:00", "12:60", "1230", "ab:cd"} {
		if _, ok := ParseClock(bad); ok {
			t.Errorf("ParseClock(%q) accepted", bad)
		}
	}
	if got := FormatClock(450); got != "07:30" {
		t.Errorf("FormatClock(450) = %q", got)
	}
}
