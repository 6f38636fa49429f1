// Package aggregate holds the one piece of real logic in the dashboard:
// filtering the dataset to a region/year selection and reducing it to
// per-month means with display totals.
package aggregate

import (
	"math"

	"github.com/ozfires/firedash/internal/config"
	"github.com/ozfires/firedash/internal/models"
)

// MonthValue is one entry of an ordered monthly series.
type MonthValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Result carries both monthly series and their totals for one selection.
//
// The totals are display quantities, not independent statistics:
// TotalArea is the sum of the monthly area means, and TotalPixels is the
// sum of the monthly count means after each mean has been rounded. The
// round-then-sum order is deliberate; it is what the dashboard has always
// shown, and sum-of-rounded generally differs from rounded-sum.
type Result struct {
	AreaByMonth  []MonthValue `json:"area_by_month"`
	TotalArea    float64      `json:"total_area"`
	CountByMonth []MonthValue `json:"count_by_month"`
	TotalPixels  float64      `json:"total_pixels"`

	// Selection-level means of the supplementary dataset columns,
	// zero when the selection is empty.
	MeanBrightness float64 `json:"mean_brightness"`
	MeanFRP        float64 `json:"mean_frp"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Empty reports whether the selection matched no records.
func (r Result) Empty() bool {
	return len(r.AreaByMonth) == 0
}

// Compute filters records to the selection and reduces them to monthly
// means. Month order follows first appearance in the filtered subset.
// Pixel-count means are rounded half away from zero (math.Round) before the
// total is taken. A selection outside the configured option sets, or one
// matching no records, yields an empty result; that is not an error.
//
// Compute is pure: it never mutates records and does no I/O.
func Compute(records []models.FireRecord, opts *config.Options, sel models.Selection) Result {
	var res Result
	if !opts.ValidRegion(sel.Region) || !opts.ValidYear(sel.Year) {
		return res
	}

	type group struct {
		areaSum  float64
		countSum float64
		n        int
	}
	groups := make(map[string]*group)
	var order []string

	var brightSum, frpSum, confSum float64
	matched := 0

	for _, rec := range records {
		if rec.Region != sel.Region || rec.Year != sel.Year {
			continue
		}
		g, ok := groups[rec.MonthName]
		if !ok {
			g = &group{}
			groups[rec.MonthName] = g
			order = append(order, rec.MonthName)
		}
		g.areaSum += rec.EstimatedFireArea
		g.countSum += rec.PixelCount
		g.n++

		brightSum += rec.MeanBrightness
		frpSum += rec.MeanFRP
		confSum += rec.MeanConfidence
		matched++
	}

	if matched == 0 {
		return res
	}

	res.AreaByMonth = make([]MonthValue, 0, len(order))
	res.CountByMonth = make([]MonthValue, 0, len(order))
	for _, month := range order {
		g := groups[month]
		areaMean := g.areaSum / float64(g.n)
		countMean := math.Round(g.countSum / float64(g.n))

		res.AreaByMonth = append(res.AreaByMonth, MonthValue{Month: month, Value: areaMean})
		res.TotalArea += areaMean
		res.CountByMonth = append(res.CountByMonth, MonthValue{Month: month, Value: countMean})
		res.TotalPixels += countMean
	}

	res.MeanBrightness = brightSum / float64(matched)
	res.MeanFRP = frpSum / float64(matched)
	res.MeanConfidence = confSum / float64(matched)

	return res
}
