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
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type frames chan Frame

func (f frames) Render(fr Frame) error {
	f <- fr
	return nil
}

type tones chan string

func (t tones) Play(name string) error {
	t <- name
	return nil
}

type saved struct {
	mu   sync.Mutex
	cfgs []Config
}

func (s *saved) Persist(c Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfgs = append(s.cfgs, c)
	return nil
}

type failing struct{}

func (failing) Render(Frame) error {
	return errors.New("display unplugged")
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClock(t *testing.T, at time.Time, cfg Config) (*Clock, *clockwork.FakeClock, frames) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(at)
	c := NewClock("test", cfg, fc, time.Second, quiet())
	f := make(frames, 16)
	c.AddRenderer(failing{})
	c.AddRenderer(f)
	return c, fc, f
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestClockTick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowSeconds = true
	cfg.Separator = SeparatorStatic
	c, _, f := testClock(t, time.Date(2026, time.October, 19, 12, 34, 56, 0, time.UTC), cfg)
	c.Tick()
	got := <-f
	if got.String() != "12345619102026" {
		t.Errorf("frame %q", got)
	}
	if !got.HourSep || !got.SecondSep {
		t.Errorf("separators %v %v, want both lit", got.HourSep, got.SecondSep)
	}
	if got.Brightness != 90 {
		t.Errorf("brightness %d", got.Brightness)
	}
	if c.Frame() != got {
		t.Errorf("Frame() does not return the last frame")
	}
}

func TestClockLogAttrs(t *testing.T) {
	var b bytes.Buffer
	log := slog.New(slog.NewTextHandler(&b, nil))
	c := NewClock("hall", DefaultConfig(), clockwork.NewFakeClock(), time.Second, log)
	c.AddRenderer(failing{})
	c.Tick()
	if !strings.Contains(b.String(), "display unplugged") {
		t.Fatalf("render failure not logged: %q", b.String())
	}
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		if n := strings.Count(line, "clock=hall"); n != 1 {
			t.Errorf("clock name logged %d times: %q", n, line)
		}
	}
}

func TestClockOverlayRestarts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowSeconds = true
	c, fc, f := testClock(t, time.Date(2026, time.October, 19, 12, 34, 56, 0, time.UTC), cfg)
	c.ShowTemperature(3 * time.Second)
	if fr := c.Tick(); !fr.Overlay || fr.String()[:6] != "   C22" {
		t.Errorf("overlay frame %q", fr)
	}
	<-f
	fc.Advance(2 * time.Second)
	c.ShowTemperature(3 * time.Second)
	fc.Advance(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	if !c.Overlay() {
		t.Fatalf("overlay ended at the first deadline")
	}
	fc.Advance(1500 * time.Millisecond)
	waitFor(t, "overlay to end", func() bool { return !c.Overlay() })
	if fr := c.Tick(); fr.Overlay || fr.String()[:6] != "123501" {
		t.Errorf("frame after overlay %q", fr)
	}
}

func TestClockRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowSeconds = true
	c, fc, f := testClock(t, time.Date(2026, time.October, 19, 12, 34, 56, 0, time.UTC), cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error)
	go func() {
		done <- c.Run(ctx)
	}()
	if got := <-f; got.String()[:6] != "123456" {
		t.Errorf("first frame %q", got)
	}
	if err := fc.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("BlockUntilContext() error = %v", err)
	}
	fc.Advance(time.Second)
	if got := <-f; got.String()[:6] != "123457" {
		t.Errorf("ticked frame %q", got)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestClockManual(t *testing.T) {
	c, fc, _ := testClock(t, time.Date(2026, time.October, 19, 12, 34, 56, 0, time.UTC), DefaultConfig())
	s := new(saved)
	c.SetPersister(s)
	if !c.SetManualTime(12, 0) {
		t.Fatalf("SetManualTime() rejected 12:00")
	}
	if c.SetManualTime(25, 0) {
		t.Errorf("SetManualTime() accepted 25:00")
	}
	fc.Advance(65 * time.Second)
	cfg := c.Config()
	cfg.ShowSeconds = true
	in := Resolve(cfg, fc.Now().UnixMilli())
	if in.Hour != 12 || in.Minute != 1 || in.Second != 5 {
		t.Errorf("displayed %02d:%02d:%02d, want 12:01:05", in.Hour, in.Minute, in.Second)
	}
	if !c.SetManualDate(2030, time.January, 1) {
		t.Errorf("SetManualDate() rejected 2030-01-01")
	}
	c.ClearManual()
	if c.Config().Manual != nil {
		t.Errorf("manual time not cleared")
	}
	if err := c.Update(func(cfg *Config) { cfg.Brightness = 50 }); err != nil {
		t.Errorf("Update() error = %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cfgs) != 4 {
		t.Fatalf("persisted %d times, want 4", len(s.cfgs))
	}
	if s.cfgs[3].Brightness != 50 {
		t.Errorf("last persisted brightness %d", s.cfgs[3].Brightness)
	}
}

func TestClockChime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HourlyChime = true
	c, _, _ := testClock(t, time.Date(2026, time.October, 19, 8, 0, 1, 0, time.UTC), cfg)
	tn := make(tones, 4)
	c.SetSounder(tn)
	c.Tick()
	c.Tick()
	select {
	case got := <-tn:
		if got != "chime1" {
			t.Errorf("tone %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no chime played")
	}
	select {
	case got := <-tn:
		t.Errorf("second tone %q", got)
	case <-time.After(20 * time.Millisecond):
	}
}
