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


// Program to play the chime and alarm tones on the buzzer.

package main

import (
	"flag"

	"github.com/jonboulle/clockwork"

	"github.com/aamcrae/nixie/io"
	"github.com/aamcrae/nixie/logging"
)

var chip = flag.Int("chip", 0, "PWM chip")
var unit = flag.Int("unit", 1, "PWM unit")
var volume = flag.Int("volume", 40, "Volume percent")

func main() {
	flag.Parse()
	log := logging.New("tones", false, false)
	p, err := io.NewHwPWM(*chip, *unit)
	if err != nil {
		logging.Fatal(log, "pwm", "chip", *chip, "unit", *unit, "error", err)
	}
	defer p.Close()
	b := io.NewBuzzer(p, clockwork.NewRealClock())
	b.Volume = func() int { return *volume }
	names := flag.Args()
	if len(names) == 0 {
		names = []string{"beep", "chime1", "chime2", "melody"}
	}
	for _, n := range names {
		t, ok := io.ToneFor(n)
		if !ok {
			log.Info("silent", "tone", n)
			continue
		}
		log.Info("playing", "tone", n, "freq", t.Freq, "length", t.Length)
		if err := b.Play(n); err != nil {
			logging.Fatal(log, "play", "tone", n, "error", err)
		}
	}
}
