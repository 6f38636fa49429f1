// Package dataset loads the Historical Wildfires CSV into memory. The file
// ships in ISO-8859-1, so every read goes through a charmap decoder before
// the CSV parser sees it.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/ozfires/firedash/internal/models"
)

// Column names as they appear in the cleaned dataset header.
const (
	colRegion     = "Region"
	colYear       = "Year"
	colMonthName  = "Month_name"
	colFireArea   = "Estimated_fire_area"
	colCount      = "Count"
	colBrightness = "Mean_estimated_fire_brightness"
	colFRP        = "Mean_estimated_fire_radiative_power"
	colConfidence = "Mean_confidence"
)

var requiredColumns = []string{colRegion, colYear, colMonthName, colFireArea, colCount}

// Parse reads the dataset from r, decoding ISO-8859-1 and mapping columns by
// header name. A missing required column or a row whose typed columns fail to
// parse is an error: the dataset is assumed pre-cleaned, so either means a
// misconfigured input and the caller should refuse to start.
func Parse(r io.Reader) ([]models.FireRecord, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("dataset missing required column %q", name)
		}
	}

	var records []models.FireRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("dataset contains no rows")
	}
	return records, nil
}

func parseRow(row []string, idx map[string]int) (models.FireRecord, error) {
	var rec models.FireRecord

	field := func(name string) (string, bool) {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	region, _ := field(colRegion)
	if region == "" {
		return rec, fmt.Errorf("empty %s", colRegion)
	}
	rec.Region = region

	yearStr, _ := field(colYear)
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return rec, fmt.Errorf("parse %s %q: %w", colYear, yearStr, err)
	}
	rec.Year = year

	month, _ := field(colMonthName)
	if month == "" {
		return rec, fmt.Errorf("empty %s", colMonthName)
	}
	rec.MonthName = month

	areaStr, _ := field(colFireArea)
	area, err := strconv.ParseFloat(areaStr, 64)
	if err != nil {
		return rec, fmt.Errorf("parse %s %q: %w", colFireArea, areaStr, err)
	}
	rec.EstimatedFireArea = area

	countStr, _ := field(colCount)
	count, err := strconv.ParseFloat(countStr, 64)
	if err != nil {
		return rec, fmt.Errorf("parse %s %q: %w", colCount, countStr, err)
	}
	rec.PixelCount = count

	// Supplementary metric columns are optional; blanks read as zero.
	rec.MeanBrightness = optionalFloat(row, idx, colBrightness)
	rec.MeanFRP = optionalFloat(row, idx, colFRP)
	rec.MeanConfidence = optionalFloat(row, idx, colConfidence)

	return rec, nil
}

func optionalFloat(row []string, idx map[string]int, name string) float64 {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return 0
	}
	return v
}
