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

package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aamcrae/nixie/tube"
)

var noon = time.Date(2026, time.October, 19, 12, 5, 9, 0, time.UTC)

func frameAt(at time.Time, cfg tube.Config) tube.Frame {
	now := at.UnixMilli()
	inst := tube.Resolve(cfg, now)
	f := tube.Format(inst, cfg)
	f.Light(cfg.Separator, cfg.ShowSeconds, now)
	f.Brightness = tube.EffectiveBrightness(cfg, inst)
	return f
}

func TestMessage(t *testing.T) {
	cfg := tube.DefaultConfig()
	cfg.ShowSeconds = true
	f := frameAt(noon, cfg)
	var m Message
	if err := json.Unmarshal(Marshal(f), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Tubes != "12050919102026" || m.Colon != [2]bool{true, true} || m.Brightness != 90 || m.Overlay {
		t.Errorf("message %+v", m)
	}
	back, err := m.Frame()
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if back != f {
		t.Errorf("Frame() = %v, want %v", back, f)
	}
	if _, err := (Message{Tubes: "12"}).Frame(); err == nil {
		t.Errorf("short tubes accepted")
	}
}

func TestOnChange(t *testing.T) {
	var n int
	r := OnChange(Func(func(tube.Frame) error {
		n++
		return nil
	}))
	f := frameAt(noon, tube.DefaultConfig())
	r.Render(f)
	r.Render(f)
	f.Brightness = 20
	r.Render(f)
	if n != 2 {
		t.Errorf("rendered %d times, want 2", n)
	}

	fail := true
	r = OnChange(Func(func(tube.Frame) error {
		n++
		if fail {
			return errors.New("busy")
		}
		return nil
	}))
	n = 0
	if err := r.Render(f); err == nil {
		t.Errorf("error not returned")
	}
	fail = false
	r.Render(f)
	if n != 2 {
		t.Errorf("failed frame was not retried")
	}
}

type buffer struct {
	bytes.Buffer
	closed bool
}

func (b *buffer) Close() error {
	b.closed = true
	return nil
}

func TestSerial(t *testing.T) {
	cfg := tube.DefaultConfig()
	f := frameAt(noon, cfg)
	if got := string(Encode(f)); got != "1205  19102026|: |090\n" {
		t.Errorf("Encode() = %q", got)
	}
	cfg.ShowTemperature = true
	cfg.Temperature = 7
	cfg.Brightness = 5
	if got := string(Encode(frameAt(noon, cfg))); got != "   C0719102026|  |010\n" {
		t.Errorf("Encode() overlay = %q", got)
	}
	b := new(buffer)
	s := NewSerial("test", b)
	if err := s.Render(f); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := s.Close(); err != nil || !b.closed {
		t.Errorf("Close() = %v, closed %v", err, b.closed)
	}
	if b.String() != "1205  19102026|: |090\n" {
		t.Errorf("wrote %q", b.String())
	}
}

func TestTerminal(t *testing.T) {
	cfg := tube.DefaultConfig()
	cfg.ShowSeconds = true
	cfg.Separator = tube.SeparatorStatic
	var b bytes.Buffer
	tm := NewTerminal(&b)
	if err := tm.Render(frameAt(noon, cfg)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := b.String(); got != "12:05:09  19 10 2026\n" {
		t.Errorf("printed %q", got)
	}
	cfg.ShowSeconds = false
	cfg.ShowDate = false
	if got := Text(frameAt(noon, cfg)); got != "12:05               " {
		t.Errorf("Text() = %q", got)
	}
}

func TestImage(t *testing.T) {
	im := NewImage("test")
	w, h := im.Size()
	var f tube.Frame
	f.Brightness = 100
	f.Tubes[tube.HourTens] = '8'
	img := im.Draw(f)
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Fatalf("image is %v, want %dx%d", b, w, h)
	}
	// Middle of the top segment of the first tube.
	x, y := margin+tubeW/2, margin+12
	r, _, _, _ := img.At(x, y).RGBA()
	if r>>8 < 200 {
		t.Errorf("lit segment red %d", r>>8)
	}
	f.Tubes[tube.HourTens] = tube.Blank
	r, _, _, _ = im.Draw(f).At(x, y).RGBA()
	if r>>8 > 80 {
		t.Errorf("unlit segment red %d", r>>8)
	}
	var png bytes.Buffer
	if err := im.WritePNG(&png, f); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")) {
		t.Errorf("not a PNG")
	}
}
