// Package charts turns aggregate series into chart specs and renders them
// to PNG. The spec builders are pure: the same series and total always
// produce the same spec, and nothing here touches the dataset.
package charts

import (
	"fmt"

	"github.com/ozfires/firedash/internal/aggregate"
)

// Pastel qualitative palette, one colour per month slice.
var pastelColors = []string{
	"#66C5CC", "#F6CF71", "#F89C74", "#DCB0F2", "#87C55F", "#9EB9F3",
	"#FE88B1", "#C9DB74", "#8BE0A4", "#B497E7", "#D3B484", "#B3B3B3",
}

const barColor = "#4682B4"

// Slice is one wedge of the donut, in series order.
type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// DonutSpec describes the monthly fire-area donut: slices in series order,
// percent labels, and a centered total.
type DonutSpec struct {
	Slices      []Slice `json:"slices"`
	CenterLabel string  `json:"center_label"`
	LegendTitle string  `json:"legend_title"`
}

// Bar is one bar of the pixel-count chart, in series order.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarSpec describes the monthly pixel-count bar chart.
type BarSpec struct {
	Bars       []Bar  `json:"bars"`
	XLabel     string `json:"x_label"`
	YLabel     string `json:"y_label"`
	Annotation string `json:"annotation"`
	Color      string `json:"color"`
}

// Donut builds the fire-area donut spec. Slice order follows the series;
// percentages are shares of totalArea and the center label carries the
// total formatted to two decimals.
func Donut(series []aggregate.MonthValue, totalArea float64) DonutSpec {
	spec := DonutSpec{
		CenterLabel: fmt.Sprintf("Total:\n%.2f km²", totalArea),
		LegendTitle: "Month",
	}
	for i, mv := range series {
		pct := 0.0
		if totalArea != 0 {
			pct = mv.Value / totalArea * 100
		}
		spec.Slices = append(spec.Slices, Slice{
			Label:   mv.Month,
			Value:   mv.Value,
			Percent: pct,
			Color:   pastelColors[i%len(pastelColors)],
		})
	}
	return spec
}

// PixelBar builds the pixel-count bar spec. The annotation shows the total
// as an integer; the total is a sum of already-rounded monthly means, so the
// cast drops nothing.
func PixelBar(series []aggregate.MonthValue, totalPixels float64) BarSpec {
	spec := BarSpec{
		XLabel:     "Month",
		YLabel:     "Pixel Count",
		Annotation: fmt.Sprintf("Total number of pixels: %d pixels", int(totalPixels)),
		Color:      barColor,
	}
	for _, mv := range series {
		spec.Bars = append(spec.Bars, Bar{Label: mv.Month, Value: mv.Value})
	}
	return spec
}
