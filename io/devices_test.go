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
	goio "io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/aamcrae/nixie/tube"

	"github.com/jonboulle/clockwork"
)

type pwmSet struct {
	period time.Duration
	duty   int
}

type fakePWM struct {
	mu   sync.Mutex
	sets []pwmSet
}

func (p *fakePWM) Set(period time.Duration, duty int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sets = append(p.sets, pwmSet{period, duty})
	return nil
}

func (p *fakePWM) Close() {}

func (p *fakePWM) get() []pwmSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pwmSet(nil), p.sets...)
}

func TestDimmer(t *testing.T) {
	p := new(fakePWM)
	d := NewDimmer(p)
	for _, b := range []int{100, 100, 10, 90} {
		if err := d.Render(tube.Frame{Brightness: b}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}
	want := []pwmSet{{DimmerPeriod, 100}, {DimmerPeriod, 15}, {DimmerPeriod, 91}}
	if got := p.get(); !reflect.DeepEqual(got, want) {
		t.Errorf("PWM set %v, want %v", got, want)
	}
}

func TestToneFor(t *testing.T) {
	tests := map[string]Tone{
		"beep":   {880, 250 * time.Millisecond},
		"chime1": {660, 1200 * time.Millisecond},
		"tone2":  {520, 1200 * time.Millisecond},
		"arpa":   {720, 1200 * time.Millisecond},
	}
	for name, want := range tests {
		if got, ok := ToneFor(name); !ok || got != want {
			t.Errorf("ToneFor(%q) = %v, %v", name, got, ok)
		}
	}
	for _, name := range []string{"", "none"} {
		if _, ok := ToneFor(name); ok {
			t.Errorf("ToneFor(%q) is not silent", name)
		}
	}
}

func TestBuzzer(t *testing.T) {
	fc := clockwork.NewFakeClock()
	p := new(fakePWM)
	b := NewBuzzer(p, fc)
	b.Volume = func() int { return 40 }
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- b.Play("beep")
	}()
	if err := fc.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("tone did not start: %v", err)
	}
	beep, _ := ToneFor("beep")
	if got := p.get(); !reflect.DeepEqual(got, []pwmSet{{beep.Period(), 20}}) {
		t.Errorf("tone start %v", got)
	}
	fc.Advance(beep.Length)
	if err := fc.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("tone did not stop: %v", err)
	}
	if got := p.get(); len(got) != 2 || got[1].duty != 0 {
		t.Errorf("tone stop %v", got)
	}
	fc.Advance(toneGap)
	if err := <-done; err != nil {
		t.Errorf("Play() error = %v", err)
	}

	b.Volume = func() int { return 0 }
	b.Play("chime1")
	b.Volume = nil
	b.Play("none")
	if got := p.get(); len(got) != 2 {
		t.Errorf("silent tones set the PWM: %v", got)
	}
}

type samples struct {
	mu    sync.Mutex
	seq   []int
	reads chan struct{}
}

func (s *samples) Get() (int, error) {
	s.mu.Lock()
	v := s.seq[0]
	if len(s.seq) > 1 {
		s.seq = s.seq[1:]
	}
	s.mu.Unlock()
	s.reads <- struct{}{}
	return v, nil
}

func TestButton(t *testing.T) {
	seq := []int{1, 1, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0}
	pin := &samples{seq: seq, reads: make(chan struct{})}
	fc := clockwork.NewFakeClock()
	b := NewButton("temp", pin, fc, slog.New(slog.NewTextHandler(goio.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	presses := make(chan struct{}, 10)
	done := make(chan error)
	go func() {
		done <- b.Run(ctx, func() { presses <- struct{}{} })
	}()
	if err := fc.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker not started: %v", err)
	}
	for range seq {
		fc.Advance(ButtonPoll)
		<-pin.reads
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if n := len(presses); n != 2 || b.Presses != 2 {
		t.Errorf("%d presses (%d counted), want 2", n, b.Presses)
	}
}
