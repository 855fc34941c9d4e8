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

package io

import (
	"math"
	"time"

	"github.com/aamcrae/nixie/tube"
)

// DimmerPeriod is fast enough that the tubes do not flicker.
const DimmerPeriod = time.Millisecond

// Dimmer drives the tube anode supply from the frame brightness.
type Dimmer struct {
	pwm  PWM
	last int
}

func NewDimmer(p PWM) *Dimmer {
	return &Dimmer{pwm: p, last: -1}
}

// Duty returns the PWM duty cycle for a brightness, following the
// same curve as the tube opacity of the drawn clock.
func Duty(brightness int) int {
	return int(math.Round(tube.TubeOpacity(brightness) * 100))
}

// Render sets the duty cycle when the brightness changes.
func (d *Dimmer) Render(f tube.Frame) error {
	duty := Duty(f.Brightness)
	if duty == d.last {
		return nil
	}
	if err := d.pwm.Set(DimmerPeriod, duty); err != nil {
		return err
	}
	d.last = duty
	return nil
}
