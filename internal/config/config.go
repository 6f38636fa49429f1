// Package config holds the fixed option sets for the dashboard: the seven
// Australian regions and the dataset's year range. Both the UI layer and the
// aggregator take these as explicit values rather than reaching for globals,
// so a dataset refresh only ever touches this file.
package config

// Region pairs the short code used for filtering with the label shown in the
// region selector.
type Region struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Options is the immutable configuration shared by the UI and the aggregator.
type Options struct {
	regions []Region
	years   []int
}

const (
	firstYear = 2005
	lastYear  = 2020
)

var defaultRegions = []Region{
	{Code: "NSW", Label: "New South Wales"},
	{Code: "NT", Label: "Northern Territory"},
	{Code: "QLD", Label: "Queensland"},
	{Code: "SA", Label: "South Australia"},
	{Code: "TAS", Label: "Tasmania"},
	{Code: "VIC", Label: "Victoria"},
	{Code: "WA", Label: "Western Australia"},
}

// Default returns the option set matching the reference dataset
// (seven regions, 2005-2020).
func Default() *Options {
	years := make([]int, 0, lastYear-firstYear+1)
	for y := firstYear; y <= lastYear; y++ {
		years = append(years, y)
	}
	return &Options{regions: defaultRegions, years: years}
}

// Regions returns a copy of the region options in display order.
func (o *Options) Regions() []Region {
	out := make([]Region, len(o.regions))
	copy(out, o.regions)
	return out
}

// Years returns a copy of the selectable years in ascending order.
func (o *Options) Years() []int {
	out := make([]int, len(o.years))
	copy(out, o.years)
	return out
}

// DefaultRegion is the initially selected region (first in display order).
func (o *Options) DefaultRegion() string {
	return o.regions[0].Code
}

// DefaultYear is the initially selected year (most recent).
func (o *Options) DefaultYear() int {
	return o.years[len(o.years)-1]
}

// ValidRegion reports whether code is one of the configured region codes.
func (o *Options) ValidRegion(code string) bool {
	for _, r := range o.regions {
		if r.Code == code {
			return true
		}
	}
	return false
}

// ValidYear reports whether year falls inside the configured range.
func (o *Options) ValidYear(year int) bool {
	for _, y := range o.years {
		if y == year {
			return true
		}
	}
	return false
}

// RegionLabel returns the display label for a region code, or the code
// itself when unknown.
func (o *Options) RegionLabel(code string) string {
	for _, r := range o.regions {
		if r.Code == code {
			return r.Label
		}
	}
	return code
}
