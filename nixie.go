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

// Nixie clock program

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aamcrae/config"
	gpio "github.com/aamcrae/gpio"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/aamcrae/nixie/io"
	"github.com/aamcrae/nixie/logging"
	"github.com/aamcrae/nixie/render"
	"github.com/aamcrae/nixie/settings"
	"github.com/aamcrae/nixie/tube"
)

var configFile = flag.String("config", "nixie.conf", "Configuration file")
var settingsStore = flag.String("settings", "", "Settings store, overriding the configuration file")
var jsonLog = flag.Bool("json", false, "Log as JSON")
var verbose = flag.Bool("v", false, "Debug logging")
var terminal = flag.Bool("terminal", false, "Show the tubes on the terminal")

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the exit status once the clock has stopped and the
// devices are closed.
func run() int {
	log := logging.New("nixie", *jsonLog, *verbose)
	conf, err := config.ParseFile(*configFile)
	if err != nil {
		logging.Fatal(log, "config", "file", *configFile, "error", err)
	}
	cc, err := ReadConfig(conf)
	if err != nil {
		logging.Fatal(log, "config", "file", *configFile, "error", err)
	}
	if *settingsStore != "" {
		cc.Settings = *settingsStore
	}
	st, err := settings.Open(cc.Settings)
	if err != nil {
		logging.Fatal(log, "settings", "store", cc.Settings, "error", err)
	}
	defer st.Close()
	s, err := settings.Load(st)
	if err != nil {
		log.Warn("settings unreadable, using defaults", "error", err)
	}

	clk := clockwork.NewRealClock()
	c := tube.NewClock(cc.Name, s.Config(), clk, cc.Update, log)
	c.SetPersister(settings.NewPersister(st, s))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	cleanup, err := setup(ctx, g, c, cc, clk, log)
	defer cleanup()
	if err != nil {
		log.Error("setup", "error", err)
		stop()
		g.Wait()
		return 1
	}
	g.Go(func() error {
		return c.Run(ctx)
	})
	if err := g.Wait(); err != nil {
		log.Error("clock stopped", "error", err)
		return 1
	}
	return 0
}

// setup attaches the configured outputs to the clock. The returned
// function releases the devices that were opened.
func setup(ctx context.Context, g *errgroup.Group, c *tube.Clock, cc *ClockConfig, clk clockwork.Clock, log *slog.Logger) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if *terminal {
		c.AddRenderer(render.NewTerminal(os.Stdout))
	}
	if cc.Port > 0 {
		srv := render.NewServer(c, render.NewImage(cc.Name), log.With("output", "web"))
		c.AddRenderer(srv)
		g.Go(func() error {
			return srv.Run(ctx, cc.Port)
		})
	}
	if cc.MQTT != nil {
		m := render.NewMQTT(*cc.MQTT, log.With("output", "mqtt"))
		c.AddRenderer(m)
		g.Go(func() error {
			if err := m.Connect(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			<-ctx.Done()
			m.Disconnect()
			return nil
		})
	}
	if cc.Serial != "" {
		sp, err := render.OpenSerial(cc.Serial, cc.Baud)
		if err != nil {
			return cleanup, err
		}
		closers = append(closers, func() { sp.Close() })
		c.AddRenderer(render.OnChange(sp))
	}
	switch {
	case cc.Dimmer != nil:
		p, err := io.NewHwPWM(cc.Dimmer.Chip, cc.Dimmer.Unit)
		if err != nil {
			return cleanup, err
		}
		closers = append(closers, p.Close)
		c.AddRenderer(io.NewDimmer(p))
	case cc.DimmerPin >= 0:
		pin, err := gpio.OutputPin(cc.DimmerPin)
		if err != nil {
			return cleanup, err
		}
		p := io.NewSwPWM(pin)
		closers = append(closers, func() { pin.Close() }, p.Close)
		c.AddRenderer(io.NewDimmer(p))
	}
	if cc.Buzzer != nil {
		p, err := io.NewHwPWM(cc.Buzzer.Chip, cc.Buzzer.Unit)
		if err != nil {
			return cleanup, err
		}
		closers = append(closers, p.Close)
		b := io.NewBuzzer(p, clk)
		b.Volume = func() int {
			return c.Config().Volume
		}
		c.SetSounder(b)
	}
	if cc.Button >= 0 {
		pin, err := gpio.Pin(cc.Button)
		if err != nil {
			return cleanup, err
		}
		closers = append(closers, func() { pin.Close() })
		b := io.NewButton("temperature", pin, clk, log.With("button", cc.Button))
		g.Go(func() error {
			return b.Run(ctx, func() {
				c.ShowTemperature(cc.Overlay)
			})
		})
	}
	return cleanup, nil
}
