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

func TestSetManualTimeKeepsDate(t *testing.T) {
	now := ms(2026, time.October, 19, 23, 10, 0)
	cfg := DefaultConfig()
	cfg.Timezone = 120 // Already the 20th on the clock.
	cfg, ok := SetManualTime(cfg, now, 6, 45)
	if !ok {
		t.Fatalf("SetManualTime() rejected 06:45")
	}
	got := Resolve(cfg, now)
	if got.Day != 20 || got.Hour != 6 || got.Minute != 45 || got.Second != 0 {
		t.Errorf("got day %d %02d:%02d:%02d, want day 20 06:45:00", got.Day, got.Hour, got.Minute, got.Second)
	}
}

func TestSetManualTimeWithSummerTime(t *testing.T) {
	now := ms(2026, time.July, 1, 10, 0, 0)
	cfg := DefaultConfig()
	cfg.Timezone = 60
	cfg.DST = DSTEU
	cfg, _ = SetManualTime(cfg, now, 8, 15)
	if got := Resolve(cfg, now); got.Hour != 8 || got.Minute != 15 {
		t.Errorf("displayed %02d:%02d, want 08:15", got.Hour, got.Minute)
	}
}

func TestSetManualDateKeepsTime(t *testing.T) {
	now := ms(2026, time.October, 19, 14, 20, 30)
	cfg, ok := SetManualDate(DefaultConfig(), now, 2030, time.February, 28)
	if !ok {
		t.Fatalf("SetManualDate() rejected 2030-02-28")
	}
	got := Resolve(cfg, now+1000)
	if got.Year != 2030 || got.Month != time.February || got.Day != 28 {
		t.Errorf("date %d-%d-%d", got.Year, got.Month, got.Day)
	}
	if got.Hour != 14 || got.Minute != 20 || got.Second != 31 {
		t.Errorf("time %02d:%02d:%02d, want 14:20:31", got.Hour, got.Minute, got.Second)
	}
}

func TestManualInvalidIgnored(t *testing.T) {
	now := ms(2026, time.October, 19, 14, 20, 30)
	cfg := DefaultConfig()
	if _, ok := SetManualTime(cfg, now, 24, 0); ok {
		t.Errorf("24:00 accepted")
	}
	if _, ok := SetManualDate(cfg, now, 2026, time.February, 30); ok {
		t.Errorf("February 30 accepted")
	}
	for _, in := range [][2]string{{"7:5", ""}, {"", "2026-13-01"}, {"12:60", "2026-01-01"}, {"ab:cd", ""}} {
		got, ok := ApplyManualInput(cfg, now, in[0], in[1])
		if ok || got.Manual != nil {
			t.Errorf("ApplyManualInput(%q, %q) accepted", in[0], in[1])
		}
	}
}

func TestApplyManualInput(t *testing.T) {
	now := ms(2026, time.October, 19, 14, 20, 30)
	cfg, ok := ApplyManualInput(DefaultConfig(), now, "09:30", "2027-01-02")
	if !ok {
		t.Fatalf("ApplyManualInput() rejected valid input")
	}
	got := Resolve(cfg, now+90*1000)
	want := Instant{Year: 2027, Month: time.January, Day: 2, Hour: 9, Minute: 31, Second: 30, Weekday: time.Saturday}
	got.Epoch = 0
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
	cfg, ok = ApplyManualInput(cfg, now, "", "")
	if !ok || cfg.Manual != nil {
		t.Errorf("empty input did not clear manual time")
	}
}

func TestClearManual(t *testing.T) {
	now := ms(2026, time.October, 19, 14, 20, 30)
	cfg, _ := SetManualTime(DefaultConfig(), now, 1, 2)
	cfg = ClearManual(cfg)
	if got := Resolve(cfg, now); got.Epoch != now {
		t.Errorf("after clear epoch %d, want %d", got.Epoch, now)
	}
}
