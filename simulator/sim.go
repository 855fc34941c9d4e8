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

// Simulator clock program. The clock runs on simulated time, which
// can be started anywhere and run faster than real time, so that
// DST changes, night mode and chimes can be watched.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aamcrae/nixie/logging"
	"github.com/aamcrae/nixie/render"
	"github.com/aamcrae/nixie/settings"
	"github.com/aamcrae/nixie/tube"
)

var start = flag.String("start", "", "Simulated start time (RFC3339), default now")
var step = flag.Duration("step", time.Second, "Simulated time per tick")
var steps = flag.Int("steps", 0, "Number of ticks to run, 0 for no limit")
var delay = flag.Duration("delay", 100*time.Millisecond, "Real time between ticks")
var port = flag.Int("port", 0, "Web server port number, 0 to disable")
var settingsFile = flag.String("settings", "", "JSON settings file")
var tz = flag.String("tz", "", "Timezone e.g UTC+10:00, overrides settings")
var verbose = flag.Bool("v", false, "Debug logging")

// Tones are logged rather than played.
type logSounder struct {
	log *slog.Logger
}

func (s logSounder) Play(name string) error {
	s.log.Info("tone", "name", name)
	return nil
}

func main() {
	flag.Parse()
	log := logging.New("simulator", false, *verbose)
	at := time.Now()
	if *start != "" {
		var err error
		if at, err = time.Parse(time.RFC3339, *start); err != nil {
			logging.Fatal(log, "start time", "value", *start, "error", err)
		}
	}
	cfg, err := loadConfig()
	if err != nil {
		logging.Fatal(log, "settings", "error", err)
	}
	fc := clockwork.NewFakeClockAt(at)
	c := tube.NewClock("sim", cfg, fc, *step, log)
	c.SetSounder(logSounder{log})
	c.AddRenderer(render.NewTerminal(os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *port > 0 {
		srv := render.NewServer(c, render.NewImage("simulator"), log)
		c.AddRenderer(srv)
		go func() {
			if err := srv.Run(ctx, *port); err != nil {
				log.Error("server", "error", err)
			}
		}()
	}
	fmt.Printf("Simulating from %s, %s per tick\n", at.Format(time.RFC3339), *step)
	for i := 0; *steps == 0 || i < *steps; i++ {
		c.Tick()
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case <-time.After(*delay):
		}
		fc.Advance(*step)
	}
	fmt.Println()
}

func loadConfig() (tube.Config, error) {
	s := settings.Defaults()
	if *settingsFile != "" {
		b, err := os.ReadFile(*settingsFile)
		if err != nil {
			return tube.Config{}, err
		}
		var ok bool
		if s, ok = settings.Parse(b); !ok {
			return tube.Config{}, fmt.Errorf("%s: invalid settings", *settingsFile)
		}
	}
	cfg := s.Config()
	if *tz != "" {
		cfg.Timezone = tube.ParseTimezone(*tz)
	}
	return cfg, nil
}
