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


// Program to watch the temperature button.

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	gpio "github.com/aamcrae/gpio"
	"github.com/jonboulle/clockwork"

	"github.com/aamcrae/nixie/io"
	"github.com/aamcrae/nixie/logging"
)

var pinNum = flag.Int("gpio", 17, "GPIO pin for the button")
var edges = flag.Bool("edges", false, "Print raw edges instead of debounced presses")

func main() {
	flag.Parse()
	log := logging.New("button", false, true)
	p, err := gpio.Pin(*pinNum)
	if err != nil {
		logging.Fatal(log, "pin", "gpio", *pinNum, "error", err)
	}
	defer p.Close()
	if *edges {
		// Get blocks until the next edge.
		if err := p.Edge(gpio.BOTH); err != nil {
			logging.Fatal(log, "edge", "gpio", *pinNum, "error", err)
		}
		for {
			v, err := p.Get()
			if err != nil {
				logging.Fatal(log, "get", "gpio", *pinNum, "error", err)
			}
			log.Info("edge", "gpio", *pinNum, "value", v)
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	b := io.NewButton("button", p, clockwork.NewRealClock(), log)
	b.Run(ctx, func() {
		log.Info("pressed", "count", b.Presses)
	})
}
