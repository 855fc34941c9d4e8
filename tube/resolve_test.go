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
	"time"
)

func ms(y int, m time.Month, d, hh, mm, ss int) int64 {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC).UnixMilli()
}

func TestResolveTimezoneOnly(t *testing.T) {
	now := ms(2026, time.October, 19, 8, 30, 15)
	cfg := DefaultConfig()
	for tz := -720; tz <= 840; tz += 15 {
		cfg.Timezone = tz
		got := Resolve(cfg, now)
		if want := now + int64(tz)*60000; got.Epoch != want {
			t.Errorf("tz %d: epoch %d, want %d", tz, got.Epoch, want)
		}
	}
}

func TestResolveFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = ParseTimezone("UTC+05:30")
	got := Resolve(cfg, ms(2026, time.December, 31, 20, 45, 9))
	want := Instant{Year: 2027, Month: time.January, Day: 1, Hour: 2, Minute: 15, Second: 9, Weekday: time.Friday}
	got.Epoch = 0
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveSummerTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DST = DSTEU
	if got := Resolve(cfg, ms(2026, time.July, 1, 12, 0, 0)); got.Hour != 13 {
		t.Errorf("EU summer: hour %d, want 13", got.Hour)
	}
	if got := Resolve(cfg, ms(2026, time.January, 1, 12, 0, 0)); got.Hour != 12 {
		t.Errorf("EU winter: hour %d, want 12", got.Hour)
	}
	cfg.DST = DSTFixed
	if got := Resolve(cfg, ms(2026, time.January, 1, 12, 0, 0)); got.Hour != 13 {
		t.Errorf("fixed: hour %d, want 13", got.Hour)
	}
}

func TestResolveManualKeepsRunning(t *testing.T) {
	now := ms(2026, time.October, 19, 8, 30, 15)
	cfg, ok := SetManualTime(DefaultConfig(), now, 12, 0)
	if !ok {
		t.Fatalf("SetManualTime() rejected 12:00")
	}
	got := Resolve(cfg, now+65*1000)
	if got.Hour != 12 || got.Minute != 1 || got.Second != 5 {
		t.Errorf("after 65s: %02d:%02d:%02d, want 12:01:05", got.Hour, got.Minute, got.Second)
	}
	if got.Day != 19 || got.Month != time.October {
		t.Errorf("date changed to %d/%d", got.Day, got.Month)
	}
}

func TestResolveDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = -300
	cfg.DST = DSTUS
	cfg.ShowSeconds = true
	now := ms(2026, time.June, 5, 3, 4, 5)
	a := Format(Resolve(cfg, now), cfg)
	b := Format(Resolve(cfg, now), cfg)
	if a != b {
		t.Errorf("frames differ: %q and %q", a, b)
	}
}
