// Package render draws the levels chart and the next-dose gauge as PNG.
package render

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"peptide-tracker/internal/domain/insights"
)

// palette cycles for series beyond its length.
var palette = []color.NRGBA{
	{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}, // cyan
	{R: 0xa7, G: 0x8b, B: 0xfa, A: 0xff}, // violet
	{R: 0x34, G: 0xd3, B: 0x99, A: 0xff}, // green
	{R: 0xfb, G: 0xbf, B: 0x24, A: 0xff}, // amber
	{R: 0xf8, G: 0x71, B: 0x71, A: 0xff}, // red
	{R: 0x60, G: 0xa5, B: 0xfa, A: 0xff}, // blue
}

var (
	background = color.NRGBA{R: 0x06, G: 0x09, B: 0x11, A: 0xff}
	gridColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x14}
	textColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb0}
	nowColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x60}
	trackColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x1a}
	alertColor = color.NRGBA{R: 0xf8, G: 0x71, B: 0x71, A: 0xff}
)

type Options struct {
	ChartWidth  int
	ChartHeight int
	GaugeSize   int
}

func DefaultOptions() Options {
	return Options{ChartWidth: 800, ChartHeight: 400, GaugeSize: 320}
}

// PNG implements insights.Renderer.
type PNG struct {
	opts Options

	fontOnce sync.Once
	fontErr  error
	ttf      *truetype.Font
}

func NewPNG(opts Options) *PNG {
	d := DefaultOptions()
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = d.ChartWidth
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = d.ChartHeight
	}
	if opts.GaugeSize <= 0 {
		opts.GaugeSize = d.GaugeSize
	}
	return &PNG{opts: opts}
}

func (p *PNG) face(size float64) (font.Face, error) {
	p.fontOnce.Do(func() {
		p.ttf, p.fontErr = truetype.Parse(goregular.TTF)
	})
	if p.fontErr != nil {
		return nil, fmt.Errorf("render: parse font: %w", p.fontErr)
	}
	return truetype.NewFace(p.ttf, &truetype.Options{Size: size}), nil
}

const (
	padLeft   = 56.0
	padRight  = 16.0
	padTop    = 40.0
	padBottom = 36.0
)

func (p *PNG) Chart(w io.Writer, c insights.Chart) error {
	width, height := p.opts.ChartWidth, p.opts.ChartHeight
	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	small, err := p.face(11)
	if err != nil {
		return err
	}
	title, err := p.face(15)
	if err != nil {
		return err
	}

	plotW := float64(width) - padLeft - padRight
	plotH := float64(height) - padTop - padBottom
	span := c.End.Sub(c.Start)
	maxV := c.Max
	if maxV <= 0 || math.IsNaN(maxV) || math.IsInf(maxV, 0) {
		maxV = 1
	}

	x := func(t time.Time) float64 {
		if span <= 0 {
			return padLeft
		}
		return padLeft + plotW*float64(t.Sub(c.Start))/float64(span)
	}
	y := func(v float64) float64 {
		return padTop + plotH*(1-v/maxV)
	}

	dc.SetFontFace(title)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(c.Title, padLeft, padTop/2, 0, 0.5)

	// horizontal grid + y labels
	dc.SetFontFace(small)
	dc.SetLineWidth(1)
	for i := 0; i <= 4; i++ {
		v := maxV * float64(i) / 4
		yy := y(v)
		dc.SetColor(gridColor)
		dc.DrawLine(padLeft, yy, padLeft+plotW, yy)
		dc.Stroke()
		dc.SetColor(textColor)
		dc.DrawStringAnchored(formatLevel(v), padLeft-6, yy, 1, 0.5)
	}

	// x labels at the edges and the middle
	layout := "Jan 2 15:04"
	if span > 72*time.Hour {
		layout = "Jan 2"
	}
	for i, ax := range []float64{0, 0.5, 1} {
		t := c.Start.Add(time.Duration(float64(span) * ax))
		dc.DrawStringAnchored(t.Format(layout), padLeft+plotW*ax, float64(height)-padBottom/2, float64(i)/2, 0.5)
	}

	if !c.Now.Before(c.Start) && !c.Now.After(c.End) {
		nx := x(c.Now)
		dc.SetColor(nowColor)
		dc.SetDash(4, 4)
		dc.DrawLine(nx, padTop, nx, padTop+plotH)
		dc.Stroke()
		dc.SetDash()
	}

	for i, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		col := palette[i%len(palette)]

		// area
		fill := col
		fill.A = 0x30
		dc.MoveTo(x(s.Points[0].At), y(0))
		for _, pt := range s.Points {
			dc.LineTo(x(pt.At), y(pt.Level))
		}
		dc.LineTo(x(s.Points[len(s.Points)-1].At), y(0))
		dc.ClosePath()
		dc.SetColor(fill)
		dc.Fill()

		// line
		dc.SetColor(col)
		dc.SetLineWidth(2)
		for j, pt := range s.Points {
			if j == 0 {
				dc.MoveTo(x(pt.At), y(pt.Level))
				continue
			}
			dc.LineTo(x(pt.At), y(pt.Level))
		}
		dc.Stroke()

		// peak marker
		px, py := x(s.Peak.At), y(s.Peak.Value)
		dc.DrawCircle(px, py, 3.5)
		dc.Fill()

		// legend
		lx := padLeft + plotW - 8
		ly := padTop + 14 + float64(i)*16
		dc.DrawStringAnchored(s.Label, lx, ly, 1, 0.5)
	}

	if len(c.Series) == 0 {
		dc.SetColor(textColor)
		dc.DrawStringAnchored("no doses in this window", padLeft+plotW/2, padTop+plotH/2, 0.5, 0.5)
	}

	return png.Encode(w, dc.Image())
}

func (p *PNG) Gauge(w io.Writer, g insights.Gauge) error {
	size := p.opts.GaugeSize
	dc := gg.NewContext(size, size)
	dc.SetColor(background)
	dc.Clear()

	big, err := p.face(float64(size) / 9)
	if err != nil {
		return err
	}
	small, err := p.face(float64(size) / 22)
	if err != nil {
		return err
	}

	cx, cy := float64(size)/2, float64(size)/2
	r := float64(size)/2 - 24
	stroke := float64(size) / 18

	start := gg.Radians(135)
	sweep := gg.Radians(270)

	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineWidth(stroke)
	dc.SetColor(trackColor)
	dc.DrawArc(cx, cy, r, start, start+sweep)
	dc.Stroke()

	progress := g.Progress
	if math.IsNaN(progress) {
		progress = 0
	}
	progress = math.Max(0, math.Min(1, progress))

	col := palette[0]
	if g.Overdue {
		col = alertColor
		progress = 1
	}
	if progress > 0 {
		dc.SetColor(col)
		dc.DrawArc(cx, cy, r, start, start+sweep*progress)
		dc.Stroke()
	}

	dc.SetColor(textColor)
	dc.SetFontFace(big)
	dc.DrawStringAnchored(g.Caption, cx, cy, 0.5, 0.5)
	dc.SetFontFace(small)
	dc.DrawStringAnchored(g.Title, cx, cy+float64(size)/7, 0.5, 0.5)

	return png.Encode(w, dc.Image())
}

func formatLevel(v float64) string {
	switch {
	case v >= 100:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
