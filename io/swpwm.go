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
	"fmt"
	"time"
)

type pwmMsg struct {
	on, off time.Duration
	stop    chan struct{}
}

// SwPwm toggles an output pin from a goroutine. It is good enough to
// dim the tubes from a pin with no PWM hardware.
type SwPwm struct {
	pin Setter
	c   chan pwmMsg
}

// NewSwPWM creates a new s/w PWM controller, initially off.
func NewSwPWM(pin Setter) *SwPwm {
	p := new(SwPwm)
	p.pin = pin
	p.c = make(chan pwmMsg, 1)
	go p.handler()
	return p
}

// Close stops the PWM and leaves the pin low.
func (p *SwPwm) Close() {
	sc := make(chan struct{})
	p.c <- pwmMsg{stop: sc}
	<-sc
}

// Set sets the PWM parameters. The changes take
// place at the end of the current period.
func (p *SwPwm) Set(period time.Duration, duty int) error {
	if duty < 0 || duty > 100 {
		return fmt.Errorf("%d: invalid duty cycle percentage", duty)
	}
	if period <= 0 {
		return fmt.Errorf("invalid period %v", period)
	}
	on := period * time.Duration(duty) / 100
	p.c <- pwmMsg{on: on, off: period - on}
	return nil
}

// handler runs the PWM, checking for new parameters after each cycle.
func (p *SwPwm) handler() {
	on, off := time.Duration(0), 5*time.Millisecond
	current := 0
	p.pin.Set(0)
	for {
		if on != 0 {
			if current != 1 {
				p.pin.Set(1)
				current = 1
			}
			time.Sleep(on)
		}
		if off != 0 {
			if current != 0 {
				p.pin.Set(0)
				current = 0
			}
			time.Sleep(off)
		}
		select {
		case m := <-p.c:
			if m.stop != nil {
				p.pin.Set(0)
				close(m.stop)
				return
			}
			on, off = m.on, m.off
		default:
		}
	}
}
