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


// Program to sweep the tube brightness through the dimmer.

package main

import (
	"flag"
	"time"

	gpio "github.com/aamcrae/gpio"

	"github.com/aamcrae/nixie/io"
	"github.com/aamcrae/nixie/logging"
	"github.com/aamcrae/nixie/tube"
)

var chip = flag.Int("chip", 0, "PWM chip")
var unit = flag.Int("unit", 0, "PWM unit")
var pinNum = flag.Int("gpio", -1, "GPIO for software PWM instead of a PWM unit")
var cycles = flag.Int("cycles", 3, "Number of sweeps")

func main() {
	flag.Parse()
	log := logging.New("dimmer", false, false)
	var pwm io.PWM
	if *pinNum >= 0 {
		pin, err := gpio.OutputPin(*pinNum)
		if err != nil {
			logging.Fatal(log, "pin", "gpio", *pinNum, "error", err)
		}
		defer pin.Close()
		pwm = io.NewSwPWM(pin)
	} else {
		p, err := io.NewHwPWM(*chip, *unit)
		if err != nil {
			logging.Fatal(log, "pwm", "chip", *chip, "unit", *unit, "error", err)
		}
		pwm = p
	}
	defer pwm.Close()
	d := io.NewDimmer(pwm)
	var levels []int
	for b := 10; b <= 100; b += 5 {
		levels = append(levels, b)
	}
	for b := 95; b > 10; b -= 5 {
		levels = append(levels, b)
	}
	for i := 0; i < *cycles; i++ {
		for _, b := range levels {
			if err := d.Render(tube.Frame{Brightness: b}); err != nil {
				logging.Fatal(log, "set", "brightness", b, "duty", io.Duty(b), "error", err)
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}
