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

// Package render contains the displays that a tube.Clock drives:
// a terminal, an image served over HTTP, websocket and MQTT frame
// streams, and a serial tube driver.
package render

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aamcrae/nixie/tube"
)

// Message is the JSON form of a frame.
type Message struct {
	Tubes      string  `json:"tubes"`
	Colon      [2]bool `json:"colon"`
	Overlay    bool    `json:"overlay"`
	Brightness int     `json:"brightness"`
}

// NewMessage converts a frame to its JSON form.
func NewMessage(f tube.Frame) Message {
	return Message{
		Tubes:      f.String(),
		Colon:      [2]bool{f.HourSep, f.SecondSep},
		Overlay:    f.Overlay,
		Brightness: f.Brightness,
	}
}

// Frame converts the message back to a frame.
func (m Message) Frame() (tube.Frame, error) {
	var f tube.Frame
	if len(m.Tubes) != int(tube.NumTubes) {
		return f, fmt.Errorf("tubes: got %d, want %d", len(m.Tubes), tube.NumTubes)
	}
	for i := range f.Tubes {
		if c := m.Tubes[i]; c != ' ' {
			f.Tubes[i] = tube.Symbol(c)
		}
	}
	f.HourSep, f.SecondSep = m.Colon[0], m.Colon[1]
	f.Overlay = m.Overlay
	f.Brightness = m.Brightness
	return f, nil
}

// Marshal returns the JSON encoding of a frame.
func Marshal(f tube.Frame) []byte {
	// A Message has no values that fail to encode.
	b, _ := json.Marshal(NewMessage(f))
	return b
}

// OnChange wraps a renderer so that it is only called when the
// frame differs from the previous one.
func OnChange(r tube.Renderer) tube.Renderer {
	return &changed{r: r}
}

type changed struct {
	mu    sync.Mutex
	r     tube.Renderer
	last  tube.Frame
	valid bool
}

func (c *changed) Render(f tube.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.last == f {
		return nil
	}
	if err := c.r.Render(f); err != nil {
		return err
	}
	c.last = f
	c.valid = true
	return nil
}

// Func adapts a function to a tube.Renderer.
type Func func(tube.Frame) error

func (fn Func) Render(f tube.Frame) error {
	return fn(f)
}
