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
	"fmt"
	"io"

	"github.com/aamcrae/nixie/tube"

	"go.bug.st/serial"
)

// Serial sends frames to a tube driver board, one line per frame:
//
//	1205  19102026|: |090
//
// The tubes (blank as space), then the two separators (':' when lit),
// then the brightness as 3 digits.
type Serial struct {
	Name string
	w    io.WriteCloser
}

// OpenSerial opens the driver on a serial port.
func OpenSerial(port string, baud int) (*Serial, error) {
	p, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", port, err)
	}
	return NewSerial(port, p), nil
}

// NewSerial creates a driver writing to w.
func NewSerial(name string, w io.WriteCloser) *Serial {
	return &Serial{Name: name, w: w}
}

// Encode returns the line sent for a frame.
func Encode(f tube.Frame) []byte {
	b := make([]byte, 0, int(tube.NumTubes)+9)
	b = append(b, f.String()...)
	b = append(b, '|', sep(f.HourSep), sep(f.SecondSep), '|')
	br := min(max(f.Brightness, 0), 999)
	b = append(b, byte('0'+br/100), byte('0'+br/10%10), byte('0'+br%10), '\n')
	return b
}

func sep(lit bool) byte {
	if lit {
		return ':'
	}
	return ' '
}

func (s *Serial) Render(f tube.Frame) error {
	if _, err := s.w.Write(Encode(f)); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	return nil
}

func (s *Serial) Close() error {
	return s.w.Close()
}
