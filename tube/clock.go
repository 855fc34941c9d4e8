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
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultOverlay is how long the temperature is shown when flashed.
const DefaultOverlay = 3 * time.Second

// Renderer drives a display from a frame.
type Renderer interface {
	Render(Frame) error
}

// Sounder plays a named tone.
type Sounder interface {
	Play(tone string) error
}

// Persister saves the configuration after it has been changed.
type Persister interface {
	Persist(Config) error
}

// Clock owns the configuration and ticks the display.
type Clock struct {
	Name      string
	Ticks     int // Number of frames rendered
	clk       clockwork.Clock
	update    time.Duration // Tick interval
	log       *slog.Logger
	renderers []Renderer
	sounder   Sounder
	persister Persister
	mu        sync.Mutex // Guards the fields below
	cfg       Config
	chimes    Chimes
	last      Frame
	overlay   bool
	gen       int // Incremented each time the overlay is restarted
	timer     clockwork.Timer
}

// NewClock creates a clock that ticks every update on clk.
func NewClock(name string, cfg Config, clk clockwork.Clock, update time.Duration, log *slog.Logger) *Clock {
	c := new(Clock)
	c.Name = name
	c.cfg = cfg
	c.clk = clk
	c.update = update
	c.log = log.With("clock", name)
	return c
}

// AddRenderer adds a display to be updated every tick.
func (c *Clock) AddRenderer(r Renderer) {
	c.renderers = append(c.renderers, r)
}

// SetSounder sets the tone player used for chimes and alarms.
func (c *Clock) SetSounder(s Sounder) {
	c.sounder = s
}

// SetPersister sets where configuration changes are saved.
func (c *Clock) SetPersister(p Persister) {
	c.persister = p
}

// Run renders immediately, then ticks on the update boundary until ctx is done.
func (c *Clock) Run(ctx context.Context) error {
	c.Tick()
	// Attempt to start the ticker on the update boundary so that
	// seconds change as close as possible to the real second.
	if d := c.untilBoundary(); d > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-c.clk.After(d):
		}
	}
	ticker := c.clk.NewTicker(c.update)
	defer ticker.Stop()
	c.log.Info("ticker started", "interval", c.update)
	for {
		select {
		case <-ctx.Done():
			c.log.Info("ticker stopped", "ticks", c.Ticks)
			return nil
		case <-ticker.Chan():
			c.Tick()
		}
	}
}

func (c *Clock) untilBoundary() time.Duration {
	n := c.clk.Now()
	tr := n.Truncate(c.update)
	if tr.Equal(n) {
		return 0
	}
	return tr.Add(c.update).Sub(n)
}

// Tick resolves the current time, renders it and sounds any chimes.
func (c *Clock) Tick() Frame {
	now := c.clk.Now().UnixMilli()
	c.mu.Lock()
	cfg := c.cfg
	if c.overlay {
		cfg.ShowTemperature = true
	}
	inst := Resolve(cfg, now)
	f := Format(inst, cfg)
	f.Light(cfg.Separator, cfg.ShowSeconds, now)
	f.Brightness = EffectiveBrightness(cfg, inst)
	tones := c.chimes.Check(cfg, inst)
	c.last = f
	c.Ticks++
	c.mu.Unlock()

	for _, r := range c.renderers {
		if err := r.Render(f); err != nil {
			c.log.Warn("render failed", "error", err)
		}
	}
	if len(tones) > 0 && c.sounder != nil {
		go c.play(tones)
	}
	return f
}

func (c *Clock) play(tones []string) {
	for _, t := range tones {
		if err := c.sounder.Play(t); err != nil {
			c.log.Warn("tone failed", "tone", t, "error", err)
		}
	}
}

// Frame returns the last rendered frame.
func (c *Clock) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Config returns a copy of the current configuration.
func (c *Clock) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Update applies f to the configuration and saves the result.
func (c *Clock) Update(f func(*Config)) error {
	c.mu.Lock()
	f(&c.cfg)
	cfg := c.cfg
	c.mu.Unlock()
	return c.save(cfg)
}

// SetManualTime sets the displayed time, keeping the displayed date.
func (c *Clock) SetManualTime(hh, mm int) bool {
	now := c.clk.Now().UnixMilli()
	return c.change(func(cfg Config) (Config, bool) {
		return SetManualTime(cfg, now, hh, mm)
	})
}

// SetManualDate sets the displayed date, keeping the displayed time.
func (c *Clock) SetManualDate(y int, m time.Month, d int) bool {
	now := c.clk.Now().UnixMilli()
	return c.change(func(cfg Config) (Config, bool) {
		return SetManualDate(cfg, now, y, m, d)
	})
}

// ApplyManual sets the time and date from their text inputs.
func (c *Clock) ApplyManual(timeStr, dateStr string) bool {
	now := c.clk.Now().UnixMilli()
	return c.change(func(cfg Config) (Config, bool) {
		return ApplyManualInput(cfg, now, timeStr, dateStr)
	})
}

// ClearManual returns the clock to real time.
func (c *Clock) ClearManual() {
	c.change(func(cfg Config) (Config, bool) {
		return ClearManual(cfg), true
	})
}

func (c *Clock) change(f func(Config) (Config, bool)) bool {
	c.mu.Lock()
	cfg, ok := f(c.cfg)
	if !ok {
		c.mu.Unlock()
		c.log.Info("ignoring invalid manual time")
		return false
	}
	c.cfg = cfg
	c.mu.Unlock()
	if err := c.save(cfg); err != nil {
		c.log.Warn("save failed", "error", err)
	}
	return true
}

func (c *Clock) save(cfg Config) error {
	if c.persister == nil {
		return nil
	}
	return c.persister.Persist(cfg)
}

// ShowTemperature shows the temperature for d. Calling it again before
// d has passed restarts the period.
func (c *Clock) ShowTemperature(d time.Duration) {
	if d <= 0 {
		d = DefaultOverlay
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay = true
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.clk.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.overlay = false
			c.timer = nil
		}
	})
}

// Overlay returns true while a flashed temperature is shown.
func (c *Clock) Overlay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}
