package api_test

import (
	"testing"

	"github.com/ozfires/firedash/internal/api"
	"github.com/ozfires/firedash/internal/config"
	"github.com/ozfires/firedash/internal/models"
)

func testRecords() []models.FireRecord {
	return []models.FireRecord{
		{Region: "NSW", Year: 2019, MonthName: "January", EstimatedFireArea: 10.0, PixelCount: 100},
		{Region: "NSW", Year: 2019, MonthName: "January", EstimatedFireArea: 20.0, PixelCount: 300},
		{Region: "NSW", Year: 2019, MonthName: "February", EstimatedFireArea: 5.0, PixelCount: 50},
		{Region: "VIC", Year: 2020, MonthName: "March", EstimatedFireArea: 7.5, PixelCount: 60},
	}
}

func TestBuildViewTitles(t *testing.T) {
	t.Parallel()
	v := api.BuildView(testRecords(), config.Default(), models.Selection{Region: "NSW", Year: 2019})

	if want := "NSW: Monthly Average Estimated Fire Area in Year 2019."; v.AreaTitle != want {
		t.Errorf("AreaTitle = %q, want %q", v.AreaTitle, want)
	}
	if want := "NSW: Monthly Average Count of Pixels for Presumed Vegetation Fires in Year 2019."; v.PixelTitle != want {
		t.Errorf("PixelTitle = %q, want %q", v.PixelTitle, want)
	}
	if v.RegionLabel != "New South Wales" {
		t.Errorf("RegionLabel = %q", v.RegionLabel)
	}
}

func TestBuildViewSpecs(t *testing.T) {
	t.Parallel()
	v := api.BuildView(testRecords(), config.Default(), models.Selection{Region: "NSW", Year: 2019})

	if v.Empty {
		t.Fatal("expected non-empty view")
	}
	if len(v.Donut.Slices) != 2 {
		t.Fatalf("expected 2 donut slices, got %d", len(v.Donut.Slices))
	}
	if v.Donut.Slices[0].Label != "January" || v.Donut.Slices[0].Value != 15.0 {
		t.Errorf("first slice = %+v", v.Donut.Slices[0])
	}
	if len(v.PixelBar.Bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(v.PixelBar.Bars))
	}
	if v.PixelBar.Bars[0].Value != 200 {
		t.Errorf("January bar = %+v", v.PixelBar.Bars[0])
	}
	if v.Result.TotalArea != 20.0 || v.Result.TotalPixels != 250 {
		t.Errorf("totals = %v, %v", v.Result.TotalArea, v.Result.TotalPixels)
	}
}

// Titles always reflect the requested selection, even when it matches
// nothing; only the chart content goes empty.
func TestBuildViewEmptySelection(t *testing.T) {
	t.Parallel()
	v := api.BuildView(testRecords(), config.Default(), models.Selection{Region: "QLD", Year: 2019})

	if !v.Empty {
		t.Fatal("expected empty view")
	}
	if want := "QLD: Monthly Average Estimated Fire Area in Year 2019."; v.AreaTitle != want {
		t.Errorf("AreaTitle = %q, want %q", v.AreaTitle, want)
	}
	if len(v.Donut.Slices) != 0 || len(v.PixelBar.Bars) != 0 {
		t.Errorf("expected empty specs, got %+v / %+v", v.Donut, v.PixelBar)
	}
}
