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
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// ButtonPoll is how often the button is sampled.
const ButtonPoll = 20 * time.Millisecond

// Button is a push button on an input pin, pulled up so that it reads
// 0 when pressed.
type Button struct {
	Name    string
	pin     Getter
	clk     clockwork.Clock
	log     *slog.Logger
	Presses int
}

func NewButton(name string, pin Getter, clk clockwork.Clock, log *slog.Logger) *Button {
	return &Button{Name: name, pin: pin, clk: clk, log: log.With("button", name)}
}

// Run samples the button until ctx is done, calling pressed once for
// each press. A press must read the same for two samples in a row
// to count, which removes contact bounce.
func (b *Button) Run(ctx context.Context, pressed func()) error {
	ticker := b.clk.NewTicker(ButtonPoll)
	defer ticker.Stop()
	down, last := false, 1
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
		v, err := b.pin.Get()
		if err != nil {
			b.log.Warn("read failed", "error", err)
			continue
		}
		if v == last {
			if !down && v == 0 {
				b.Presses++
				b.log.Debug("pressed")
				pressed()
			}
			down = v == 0
		}
		last = v
	}
}
