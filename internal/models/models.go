package models

import "time"

// FireRecord is one row of the Historical Wildfires dataset: MODIS fire
// detections aggregated per region, day and month label. The dataset is
// pre-cleaned upstream; no validation beyond type coercion happens here.
type FireRecord struct {
	ID                int64
	Region            string  // state/territory code, e.g. "NSW"
	Year              int
	MonthName         string  // "January" .. "December"
	EstimatedFireArea float64 // km²
	PixelCount        float64 // presumed vegetation fire pixels (integer-valued)
	MeanBrightness    float64 // Kelvin
	MeanFRP           float64 // fire radiative power, MW
	MeanConfidence    float64 // detection confidence, percent
}

// Selection is the pair of user inputs that drives every dashboard output.
type Selection struct {
	Region string
	Year   int
}

// DatasetInfo describes the loaded dataset, surfaced in the page footer.
type DatasetInfo struct {
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	LoadedAt    time.Time `json:"loaded_at"`
}
