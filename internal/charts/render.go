package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	donutWidth  = 5 * vg.Inch
	donutHeight = 4 * vg.Inch
	barWidth    = 6 * vg.Inch
	barHeight   = 4 * vg.Inch
)

// RenderDonut draws the donut spec to PNG. An empty spec renders a
// placeholder rather than failing, so an out-of-range selection still gets
// an image back.
func RenderDonut(spec DonutSpec, w io.Writer) error {
	p := plot.New()
	p.HideAxes()

	p.Add(&donutPlotter{spec: spec, base: p.Title.TextStyle})

	for _, s := range spec.Slices {
		c, err := parseHexColor(s.Color)
		if err != nil {
			return fmt.Errorf("slice %s: %w", s.Label, err)
		}
		p.Legend.Add(s.Label, swatch{c})
	}
	p.Legend.Left = true

	return writePNG(p, donutWidth, donutHeight, w)
}

// RenderBar draws the bar spec to PNG. As with the donut, an empty spec
// renders empty axes.
func RenderBar(spec BarSpec, w io.Writer) error {
	p := plot.New()
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel

	if len(spec.Bars) == 0 {
		p.Y.Min = 0
		p.Y.Max = 1
		return writePNG(p, barWidth, barHeight, w)
	}

	values := make(plotter.Values, len(spec.Bars))
	labels := make([]string, len(spec.Bars))
	maxVal := 0.0
	for i, b := range spec.Bars {
		values[i] = b.Value
		labels[i] = shortMonth(b.Label)
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	barFill, err := parseHexColor(spec.Color)
	if err != nil {
		return fmt.Errorf("bar color: %w", err)
	}
	bars.Color = barFill
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)

	p.Y.Min = 0
	p.Y.Max = maxVal * 1.2
	if p.Y.Max == 0 {
		p.Y.Max = 1
	}

	if spec.Annotation != "" {
		note, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: -0.4, Y: maxVal * 1.12}},
			Labels: []string{spec.Annotation},
		})
		if err != nil {
			return fmt.Errorf("annotation: %w", err)
		}
		p.Add(note)
	}

	return writePNG(p, barWidth, barHeight, w)
}

func writePNG(p *plot.Plot, w, h vg.Length, out io.Writer) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(out); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// donutPlotter draws the wedges, percent labels and center total directly on
// the canvas. It ignores plot data coordinates entirely; the donut is sized
// from the canvas geometry.
type donutPlotter struct {
	spec DonutSpec
	base draw.TextStyle
}

// holeRatio matches the reference figure (inner radius = 0.4 of outer).
const holeRatio = 0.4

func (d *donutPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	center := vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: (c.Min.Y + c.Max.Y) / 2,
	}
	size := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < size {
		size = h
	}
	outer := size * 0.45
	inner := outer * holeRatio

	centerStyle := d.base
	centerStyle.XAlign = text.XCenter
	centerStyle.YAlign = text.YCenter

	total := 0.0
	for _, s := range d.spec.Slices {
		total += s.Value
	}
	if len(d.spec.Slices) == 0 || total <= 0 {
		c.FillText(centerStyle, center, "No data for this selection")
		return
	}

	labelStyle := plt.X.Tick.Label
	labelStyle.XAlign = text.XCenter
	labelStyle.YAlign = text.YCenter

	// Slices start at 12 o'clock and run clockwise, in series order.
	angle := math.Pi / 2
	for _, s := range d.spec.Slices {
		delta := -2 * math.Pi * (s.Value / total)

		col, err := parseHexColor(s.Color)
		if err != nil {
			col = color.Gray{Y: 128}
		}

		var path vg.Path
		path.Move(pointAt(center, outer, angle))
		path.Arc(center, outer, angle, delta)
		path.Line(pointAt(center, inner, angle+delta))
		path.Arc(center, inner, angle+delta, -delta)
		path.Close()

		c.SetColor(col)
		c.Fill(path)

		// Percent label at the wedge midpoint; slivers stay unlabeled
		// to avoid overlap.
		if s.Value/total >= 0.02 {
			mid := angle + delta/2
			pos := pointAt(center, (outer+inner)/2, mid)
			c.FillText(labelStyle, pos, fmt.Sprintf("%.2f%%", s.Percent))
		}

		angle += delta
	}

	c.FillText(centerStyle, center, d.spec.CenterLabel)
}

func pointAt(center vg.Point, radius vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + radius*vg.Length(math.Cos(angle)),
		Y: center.Y + radius*vg.Length(math.Sin(angle)),
	}
}

// swatch renders a filled legend box for a donut slice.
type swatch struct {
	color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, pts)
}

func parseHexColor(s string) (color.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02X%02X%02X", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

var shortMonths = map[string]string{
	"January": "Jan", "February": "Feb", "March": "Mar", "April": "Apr",
	"May": "May", "June": "Jun", "July": "Jul", "August": "Aug",
	"September": "Sep", "October": "Oct", "November": "Nov", "December": "Dec",
}

func shortMonth(name string) string {
	if s, ok := shortMonths[name]; ok {
		return s
	}
	return name
}
