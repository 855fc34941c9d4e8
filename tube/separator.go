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

const blinkPeriod = 1000 // ms

// Separators returns whether the hour-minute and minute-second separators
// are lit at wall clock time now (epoch ms). Blinking is derived from the
// wall clock alone so independent renderers stay in phase.
func Separators(mode SeparatorMode, showSeconds, overlay bool, now int64) (bool, bool) {
	if overlay {
		return false, false
	}
	var lit bool
	switch mode {
	case SeparatorStatic:
		lit = true
	case SeparatorBlinking:
		phase := now % blinkPeriod
		if phase < 0 {
			phase += blinkPeriod
		}
		lit = phase < blinkPeriod/2
	}
	return lit, lit && showSeconds
}

// Light sets the separators of the frame for wall clock time now.
func (f *Frame) Light(mode SeparatorMode, showSeconds bool, now int64) {
	f.HourSep, f.SecondSep = Separators(mode, showSeconds, f.Overlay, now)
}
