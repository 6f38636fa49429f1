package api

import (
	"fmt"

	"github.com/ozfires/firedash/internal/aggregate"
	"github.com/ozfires/firedash/internal/charts"
	"github.com/ozfires/firedash/internal/config"
	"github.com/ozfires/firedash/internal/models"
)

// View is everything the dashboard partial needs for one selection: the two
// chart titles, the chart specs, and the aggregates behind them.
type View struct {
	Region      string           `json:"region"`
	RegionLabel string           `json:"region_label"`
	Year        int              `json:"year"`
	AreaTitle   string           `json:"area_title"`
	PixelTitle  string           `json:"pixel_title"`
	Donut       charts.DonutSpec `json:"donut"`
	PixelBar    charts.BarSpec   `json:"pixel_bar"`
	Result      aggregate.Result `json:"result"`
	Empty       bool             `json:"empty"`
}

// BuildView computes the aggregates for a selection and derives the titles
// and chart specs. It is pure; handlers call it and decide how to render.
// Both titles update together with the charts, whatever the selection.
func BuildView(records []models.FireRecord, opts *config.Options, sel models.Selection) View {
	res := aggregate.Compute(records, opts, sel)

	return View{
		Region:      sel.Region,
		RegionLabel: opts.RegionLabel(sel.Region),
		Year:        sel.Year,
		AreaTitle:   fmt.Sprintf("%s: Monthly Average Estimated Fire Area in Year %d.", sel.Region, sel.Year),
		PixelTitle:  fmt.Sprintf("%s: Monthly Average Count of Pixels for Presumed Vegetation Fires in Year %d.", sel.Region, sel.Year),
		Donut:       charts.Donut(res.AreaByMonth, res.TotalArea),
		PixelBar:    charts.PixelBar(res.CountByMonth, res.TotalPixels),
		Result:      res,
		Empty:       res.Empty(),
	}
}
