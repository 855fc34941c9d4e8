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

// Settings utility. Reads and changes the stored clock settings while
// the clock is stopped.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/aamcrae/nixie/locale"
	"github.com/aamcrae/nixie/render"
	"github.com/aamcrae/nixie/settings"
	"github.com/aamcrae/nixie/tube"
)

// CLI defines the command line.
type CLI struct {
	Store string `short:"s" default:"settings" help:"Settings directory, or sqlite file ending in .db"`

	Show  ShowCmd  `cmd:"" help:"Print the settings and what the tubes would show"`
	Time  TimeCmd  `cmd:"" help:"Set the displayed time (HH:MM)"`
	Date  DateCmd  `cmd:"" help:"Set the displayed date (YYYY-MM-DD)"`
	Clear ClearCmd `cmd:"" help:"Return to real time"`
	Temp  TempCmd  `cmd:"" help:"Set the temperature reading"`
	Set   SetCmd   `cmd:"" help:"Change settings given as key=value"`
	Reset ResetCmd `cmd:"" help:"Erase the stored settings"`
	Langs LangsCmd `cmd:"" help:"List the message languages"`
}

// Env is passed to every command.
type Env struct {
	Out   io.Writer
	Store settings.Store
	S     settings.Settings
	T     *locale.Table
	Now   func() time.Time
}

var errInvalid = errors.New("invalid value")

func (e *Env) say(key string) {
	fmt.Fprintln(e.Out, e.T.T(key))
}

func (e *Env) save() error {
	if err := settings.Save(e.Store, e.S); err != nil {
		return err
	}
	e.say("saved")
	return nil
}

// change applies a manual time change to the stored settings.
func (e *Env) change(f func(tube.Config, int64) (tube.Config, bool)) error {
	cfg, ok := f(e.S.Config(), e.Now().UnixMilli())
	if !ok {
		e.say("invalid")
		return errInvalid
	}
	e.S.Apply(cfg)
	e.say("applied")
	return e.save()
}

type ShowCmd struct{}

func (c *ShowCmd) Run(e *Env) error {
	b, err := json.MarshalIndent(e.S, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "%s\n", b)
	cfg := e.S.Config()
	now := e.Now().UnixMilli()
	f := tube.Format(tube.Resolve(cfg, now), cfg)
	f.Light(cfg.Separator, cfg.ShowSeconds, now)
	fmt.Fprintf(e.Out, "Tubes: %s\n", render.Text(f))
	return nil
}

type TimeCmd struct {
	Value string `arg:"" help:"Time as HH:MM"`
}

func (c *TimeCmd) Run(e *Env) error {
	m, ok := tube.ParseClock(c.Value)
	if !ok {
		e.say("invalid")
		return errInvalid
	}
	return e.change(func(cfg tube.Config, now int64) (tube.Config, bool) {
		return tube.SetManualTime(cfg, now, m/60, m%60)
	})
}

type DateCmd struct {
	Value string `arg:"" help:"Date as YYYY-MM-DD"`
}

func (c *DateCmd) Run(e *Env) error {
	y, m, d, ok := tube.ParseDate(c.Value)
	if !ok {
		e.say("invalid")
		return errInvalid
	}
	return e.change(func(cfg tube.Config, now int64) (tube.Config, bool) {
		return tube.SetManualDate(cfg, now, y, m, d)
	})
}

type ClearCmd struct{}

func (c *ClearCmd) Run(e *Env) error {
	return e.change(func(cfg tube.Config, _ int64) (tube.Config, bool) {
		return tube.ClearManual(cfg), true
	})
}

type TempCmd struct {
	Value int    `arg:"" help:"Temperature in the configured units"`
	Units string `help:"Units, c or f"`
}

func (c *TempCmd) Run(e *Env) error {
	switch c.Units {
	case "":
	case "c", "f":
		e.S.Units = c.Units
	default:
		e.say("invalid")
		return errInvalid
	}
	e.S.TempValue = c.Value
	e.S.ClampTemperature()
	e.say("applied")
	return e.save()
}

type SetCmd struct {
	Pairs []string `arg:"" help:"Settings as key=value, values are JSON or plain text"`
}

func (c *SetCmd) Run(e *Env) error {
	known, err := keys(settings.Defaults())
	if err != nil {
		return err
	}
	b, err := json.Marshal(e.S)
	if err != nil {
		return err
	}
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, p := range c.Pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			e.say("invalid")
			return fmt.Errorf("%s: expected key=value", p)
		}
		if !known[k] {
			e.say("unknownKey")
			return fmt.Errorf("%s: unknown setting", k)
		}
		raw[k] = value(v)
	}
	b, err = json.Marshal(raw)
	if err != nil {
		return err
	}
	// Parse clamps the temperature to the units that were set.
	s, ok := settings.Parse(b)
	if !ok {
		e.say("invalid")
		return errInvalid
	}
	e.S = s
	e.say("applied")
	return e.save()
}

// value returns v as JSON, quoting it if it is not already valid JSON.
func value(v string) json.RawMessage {
	if json.Valid([]byte(v)) {
		return json.RawMessage(v)
	}
	b, _ := json.Marshal(v)
	return b
}

func keys(s settings.Settings) (map[string]bool, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	k := make(map[string]bool, len(m))
	for n := range m {
		k[n] = true
	}
	return k, nil
}

type ResetCmd struct{}

func (c *ResetCmd) Run(e *Env) error {
	if err := settings.FactoryReset(e.Store); err != nil {
		return err
	}
	e.S = settings.Defaults()
	e.say("erased")
	return nil
}

type LangsCmd struct{}

func (c *LangsCmd) Run(e *Env) error {
	for _, l := range locale.Languages() {
		fmt.Fprintln(e.Out, l)
	}
	return nil
}

// open loads the settings and message table for the commands.
func open(store string, out io.Writer) (*Env, error) {
	st, err := settings.Open(store)
	if err != nil {
		return nil, err
	}
	s, err := settings.Load(st)
	if err != nil {
		st.Close()
		return nil, err
	}
	t, err := locale.Load(s.Lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, using %s\n", err, t.Lang)
	}
	return &Env{Out: out, Store: st, S: s, T: t, Now: time.Now}, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("nixiectl"),
		kong.Description("Nixie clock settings utility"),
		kong.UsageOnError(),
	)
	env, err := open(cli.Store, os.Stdout)
	ctx.FatalIfErrorf(err)
	defer env.Store.Close()
	err = ctx.Run(env)
	ctx.FatalIfErrorf(err)
}
