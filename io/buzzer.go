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
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Tone is a note played on the buzzer.
type Tone struct {
	Freq   float64 // Hz
	Length time.Duration
}

// Period returns the PWM period that produces the tone.
func (t Tone) Period() time.Duration {
	return time.Duration(float64(time.Second) / t.Freq)
}

// Silence between tones, so a burst of beeps can be heard as separate beeps.
const toneGap = 100 * time.Millisecond

// ToneFor returns the tone for a melody name. "none" and the empty
// name are silent.
func ToneFor(name string) (Tone, bool) {
	switch name {
	case "", "none":
		return Tone{}, false
	case "beep":
		return Tone{880, 250 * time.Millisecond}, true
	case "chime1", "tone1":
		return Tone{660, 1200 * time.Millisecond}, true
	case "chime2", "tone2":
		return Tone{520, 1200 * time.Millisecond}, true
	}
	return Tone{720, 1200 * time.Millisecond}, true
}

// Buzzer plays tones on a piezo buzzer driven by a PWM channel.
type Buzzer struct {
	pwm PWM
	clk clockwork.Clock
	mu  sync.Mutex // One tone at a time
	// Volume returns the volume as a percentage. If nil, full volume is used.
	Volume func() int
}

func NewBuzzer(p PWM, clk clockwork.Clock) *Buzzer {
	return &Buzzer{pwm: p, clk: clk}
}

// volumeDuty returns the duty cycle for a volume. A square wave is loudest
// at 50%.
func volumeDuty(volume int) int {
	if volume <= 0 {
		return 0
	}
	return max(1, min(volume, 100)/2)
}

// Play sounds the named tone and returns when it has finished.
func (b *Buzzer) Play(name string) error {
	t, ok := ToneFor(name)
	if !ok {
		return nil
	}
	vol := 100
	if b.Volume != nil {
		vol = b.Volume()
	}
	duty := volumeDuty(vol)
	if duty == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.pwm.Set(t.Period(), duty); err != nil {
		return err
	}
	b.clk.Sleep(t.Length)
	if err := b.pwm.Set(t.Period(), 0); err != nil {
		return err
	}
	b.clk.Sleep(toneGap)
	return nil
}
