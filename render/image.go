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
	"image"
	"io"

	"github.com/aamcrae/nixie/tube"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Tube geometry in pixels.
const (
	tubeW   = 48
	tubeH   = 88
	tubeGap = 6
	sepW    = 22 // Space for a separator between groups
	groupW  = 36 // Space between the time and the date
	margin  = 16
	caption = 20
)

// Segment end points on a unit cell, as x0, y0, x1, y1.
var segments = [7][4]float64{
	{0, 0, 1, 0},     // a
	{1, 0, 1, 0.5},   // b
	{1, 0.5, 1, 1},   // c
	{0, 1, 1, 1},     // d
	{0, 0.5, 0, 1},   // e
	{0, 0, 0, 0.5},   // f
	{0, 0.5, 1, 0.5}, // g
}

// Lit segments per symbol, bit 0 is segment a.
var glyphs = map[tube.Symbol]uint8{
	'0':         0b0111111,
	'1':         0b0000110,
	'2':         0b1011011,
	'3':         0b1001111,
	'4':         0b1100110,
	'5':         0b1101101,
	'6':         0b1111101,
	'7':         0b0000111,
	'8':         0b1111111,
	'9':         0b1101111,
	tube.GlyphC: 0b0111001,
	tube.GlyphF: 0b1110001,
}

// Image draws frames as a row of tubes.
type Image struct {
	Title string
}

// NewImage creates an image renderer captioned with title.
func NewImage(title string) *Image {
	return &Image{Title: title}
}

// Size returns the dimensions of the drawn image.
func (im *Image) Size() (int, int) {
	w := 2*margin + int(tube.NumTubes)*tubeW + (int(tube.NumTubes)-1)*tubeGap + 2*sepW + groupW
	return w, 2*margin + tubeH + caption
}

// tubeX returns the left edge of the tube at p.
func tubeX(p tube.Position) float64 {
	x := float64(margin + int(p)*(tubeW+tubeGap))
	if p >= tube.MinuteTens {
		x += sepW
	}
	if p >= tube.SecondTens {
		x += sepW
	}
	if p >= tube.DateFirstTens {
		x += groupW
	}
	return x
}

// Draw returns the frame as an image.
func (im *Image) Draw(f tube.Frame) image.Image {
	return im.context(f).Image()
}

// WritePNG encodes the frame as a PNG.
func (im *Image) WritePNG(w io.Writer, f tube.Frame) error {
	return im.context(f).EncodePNG(w)
}

func (im *Image) context(f tube.Frame) *gg.Context {
	w, h := im.Size()
	c := gg.NewContext(w, h)
	c.SetHexColor("#0b0b0b")
	c.Clear()
	alpha := tube.TubeOpacity(f.Brightness)
	for p := tube.Position(0); p < tube.NumTubes; p++ {
		drawTube(c, tubeX(p), margin, f.Tubes[p], alpha)
	}
	drawSeparator(c, tubeX(tube.MinuteTens)-tubeGap/2-sepW/2, f.HourSep, alpha)
	drawSeparator(c, tubeX(tube.SecondTens)-tubeGap/2-sepW/2, f.SecondSep, alpha)
	if im.Title != "" {
		c.SetFontFace(basicfont.Face7x13)
		c.SetRGB(0.6, 0.6, 0.6)
		c.DrawStringAnchored(im.Title, float64(w)/2, float64(h-margin/2-caption/2), 0.5, 0.5)
	}
	return c
}

func drawTube(c *gg.Context, x, y float64, s tube.Symbol, alpha float64) {
	c.SetHexColor("#1c1a18")
	c.DrawRoundedRectangle(x, y, tubeW, tubeH, tubeW/3)
	c.Fill()
	lit := glyphs[s]
	sx, sy := x+10, y+12
	cw, ch := float64(tubeW-20), float64(tubeH-24)
	c.SetLineCapRound()
	for i, seg := range segments {
		if lit&(1<<i) != 0 {
			c.SetLineWidth(5)
			c.SetRGBA(1, 0.4, 0, alpha)
		} else {
			// Unlit cathodes are just visible through the glass.
			c.SetLineWidth(3)
			c.SetRGBA(0.5, 0.45, 0.4, 0.08)
		}
		c.DrawLine(sx+seg[0]*cw, sy+seg[1]*ch, sx+seg[2]*cw, sy+seg[3]*ch)
		c.Stroke()
	}
}

func drawSeparator(c *gg.Context, x float64, lit bool, alpha float64) {
	if lit {
		c.SetRGBA(1, 0.4, 0, alpha)
	} else {
		c.SetRGBA(0.5, 0.45, 0.4, 0.08)
	}
	c.DrawCircle(x, margin+tubeH*0.35, 4)
	c.DrawCircle(x, margin+tubeH*0.65, 4)
	c.Fill()
}
