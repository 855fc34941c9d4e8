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

const msPerMinute = 60 * 1000

// Instant is the displayed date and time. The fields are read from the
// shifted epoch as if it were UTC, so the host timezone never matters.
type Instant struct {
	Epoch   int64 // Shifted epoch ms
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday time.Weekday
}

// Time returns the instant as a UTC time.Time.
func (i Instant) Time() time.Time {
	return time.UnixMilli(i.Epoch).UTC()
}

// MinuteOfDay returns hours and minutes as minutes since midnight.
func (i Instant) MinuteOfDay() int {
	return i.Hour*60 + i.Minute
}

// Resolve computes the instant shown on the clock for the real time now (epoch ms).
func Resolve(cfg Config, now int64) Instant {
	display := now
	if cfg.Manual != nil {
		display = cfg.Manual.Display + (now - cfg.Manual.Real)
	}
	local := display + int64(cfg.Timezone)*msPerMinute
	final := local + int64(DSTOffset(cfg.DST, local, cfg.Timezone))*msPerMinute
	return instantOf(final)
}

func instantOf(epoch int64) Instant {
	t := time.UnixMilli(epoch).UTC()
	return Instant{
		Epoch:   epoch,
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: t.Weekday(),
	}
}
