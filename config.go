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

package main

import (
	"fmt"
	"time"

	"github.com/aamcrae/config"
	"github.com/aamcrae/nixie/render"
	"github.com/aamcrae/nixie/tube"
)

// PwmUnit selects a hardware PWM channel.
type PwmUnit struct {
	Chip, Unit int
}

// Configuration of the clock hardware and outputs, read from a configuration file.
// Settings that the user changes (format, timezone, alarm etc.) are kept in
// the settings store instead.
type ClockConfig struct {
	Name      string
	Update    time.Duration
	Overlay   time.Duration
	Settings  string
	Port      int // 0 disables the web server
	MQTT      *render.MQTTConfig
	Serial    string
	Baud      int
	Dimmer    *PwmUnit
	DimmerPin int // GPIO for a software PWM dimmer, or -1
	Buzzer    *PwmUnit
	Button    int // GPIO for the temperature button, or -1
}

type section interface {
	GetArg(string) (string, error)
	Parse(string, string, ...interface{}) (int, error)
}

func optArg(s section, key, def string) string {
	if v, err := s.GetArg(key); err == nil {
		return v
	}
	return def
}

func optDuration(s section, key string, def time.Duration) (time.Duration, error) {
	v, err := s.GetArg(key)
	if err != nil {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}

func optInt(s section, key string, def int) (int, error) {
	if _, err := s.GetArg(key); err != nil {
		return def, nil
	}
	var v int
	n, err := s.Parse(key, "%d", &v)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	if n != 1 {
		return 0, fmt.Errorf("%s: argument count", key)
	}
	return v, nil
}

func optPwm(s section, key string) (*PwmUnit, error) {
	if _, err := s.GetArg(key); err != nil {
		return nil, nil
	}
	var p PwmUnit
	n, err := s.Parse(key, "%d,%d", &p.Chip, &p.Unit)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", key, err)
	}
	if n != 2 {
		return nil, fmt.Errorf("%s: expected chip,unit", key)
	}
	return &p, nil
}

// ReadConfig reads and validates the clock config. A missing section
// disables that output.
// Sample config:
//  [clock]
//  name=hall                  # name used in logs and the web image
//  update=1s                  # tick interval
//  overlay=3s                 # how long the temperature is shown
//  settings=/var/lib/nixie    # settings directory, or a sqlite file ending in .db
//  [web]
//  port=8080
//  [mqtt]
//  broker=tcp://localhost:1883
//  topic=nixie/hall           # frames are published to nixie/hall/frame
//  client=nixie-hall
//  [serial]
//  port=/dev/ttyUSB0          # tube driver board
//  baud=115200
//  [pwm]
//  dimmer=0,0                 # hardware PWM chip,unit for the tube supply
//  buzzer=0,1
//  [gpio]
//  button=17                  # temperature button, active low
//  dimmer=18                  # software PWM dimmer if there is no hardware channel
func ReadConfig(conf *config.Config) (*ClockConfig, error) {
	c := &ClockConfig{
		Name:      "nixie",
		Update:    time.Second,
		Overlay:   tube.DefaultOverlay,
		Settings:  "settings",
		DimmerPin: -1,
		Button:    -1,
	}
	var err error
	if s := conf.GetSection("clock"); s != nil {
		c.Name = optArg(s, "name", c.Name)
		c.Settings = optArg(s, "settings", c.Settings)
		if c.Update, err = optDuration(s, "update", c.Update); err != nil {
			return nil, fmt.Errorf("clock: %v", err)
		}
		if c.Overlay, err = optDuration(s, "overlay", c.Overlay); err != nil {
			return nil, fmt.Errorf("clock: %v", err)
		}
	}
	if s := conf.GetSection("web"); s != nil {
		if c.Port, err = optInt(s, "port", 8080); err != nil {
			return nil, fmt.Errorf("web: %v", err)
		}
		if c.Port <= 0 || c.Port > 65535 {
			return nil, fmt.Errorf("web: invalid port %d", c.Port)
		}
	}
	if s := conf.GetSection("mqtt"); s != nil {
		b, err := s.GetArg("broker")
		if err != nil {
			return nil, fmt.Errorf("mqtt: broker: %v", err)
		}
		c.MQTT = &render.MQTTConfig{
			Broker:   b,
			Topic:    optArg(s, "topic", "nixie/"+c.Name),
			ClientID: optArg(s, "client", "nixie-"+c.Name),
		}
	}
	if s := conf.GetSection("serial"); s != nil {
		if c.Serial, err = s.GetArg("port"); err != nil {
			return nil, fmt.Errorf("serial: port: %v", err)
		}
		if c.Baud, err = optInt(s, "baud", 115200); err != nil {
			return nil, fmt.Errorf("serial: %v", err)
		}
	}
	if s := conf.GetSection("pwm"); s != nil {
		if c.Dimmer, err = optPwm(s, "dimmer"); err != nil {
			return nil, fmt.Errorf("pwm: %v", err)
		}
		if c.Buzzer, err = optPwm(s, "buzzer"); err != nil {
			return nil, fmt.Errorf("pwm: %v", err)
		}
	}
	if s := conf.GetSection("gpio"); s != nil {
		if c.Button, err = optInt(s, "button", -1); err != nil {
			return nil, fmt.Errorf("gpio: %v", err)
		}
		if c.DimmerPin, err = optInt(s, "dimmer", -1); err != nil {
			return nil, fmt.Errorf("gpio: %v", err)
		}
	}
	if c.Dimmer != nil && c.DimmerPin >= 0 {
		return nil, fmt.Errorf("dimmer: both hardware and software PWM configured")
	}
	return c, nil
}
