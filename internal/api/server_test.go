package api_test

import (
	"database/sql"
	"encoding/json"
	"image/png"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ozfires/firedash/internal/api"
	"github.com/ozfires/firedash/internal/config"
	"github.com/ozfires/firedash/internal/models"
	"github.com/ozfires/firedash/internal/store"

	_ "modernc.org/sqlite"
)

func setupTestServer(t *testing.T, records []models.FireRecord) *api.Server {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	if len(records) > 0 {
		if err := s.ReplaceRecords(records, "test.csv"); err != nil {
			t.Fatal(err)
		}
	}
	return api.NewServer(s, records, config.Default(), "8050")
}

func get(t *testing.T, srv *api.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	w := get(t, srv, "/health")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var health struct {
		Status  string `json:"status"`
		Records int    `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if health.Records != len(testRecords()) {
		t.Errorf("records = %d, want %d", health.Records, len(testRecords()))
	}
}

func TestHealthEndpoint_NoData(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, nil)

	w := get(t, srv, "/health")
	if w.Code != 503 {
		t.Fatalf("expected 503 with no records, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "degraded") {
		t.Error("expected degraded status in body")
	}
}

func TestIndexPage(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	w := get(t, srv, "/")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "<h1>Australian Wildfires Dashboard</h1>") {
		t.Error("expected page heading")
	}
	// Defaults are NSW and 2020, so the initial titles name both.
	if !strings.Contains(body, "NSW: Monthly Average Estimated Fire Area in Year 2020.") {
		t.Error("expected default area chart title")
	}
	if !strings.Contains(body, "NSW: Monthly Average Count of Pixels for Presumed Vegetation Fires in Year 2020.") {
		t.Error("expected default pixel chart title")
	}
	if !strings.Contains(body, "New South Wales") || !strings.Contains(body, "Western Australia") {
		t.Error("expected region radio labels")
	}
	if !strings.Contains(body, `<option value="2005"`) || !strings.Contains(body, `<option value="2020" selected`) {
		t.Error("expected year options with 2020 selected")
	}
}

func TestIndexNotFoundForOtherPaths(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	if w := get(t, srv, "/nonsense"); w.Code != 404 {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDashboardPartial(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	w := get(t, srv, "/partials/dashboard?region=NSW&year=2019")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "NSW: Monthly Average Estimated Fire Area in Year 2019.") {
		t.Error("expected area title for selection")
	}
	if !strings.Contains(body, "NSW: Monthly Average Count of Pixels for Presumed Vegetation Fires in Year 2019.") {
		t.Error("expected pixel title for selection")
	}
	if !strings.Contains(body, "/charts/area.png?region=NSW&amp;year=2019") {
		t.Error("expected area chart image URL carrying the selection")
	}
	if !strings.Contains(body, "20.00 km") {
		t.Error("expected total area stat")
	}
}

func TestDashboardPartial_EmptySelection(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	// No QLD rows exist; the partial still renders with titles and empty
	// charts rather than erroring.
	w := get(t, srv, "/partials/dashboard?region=QLD&year=2019")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "QLD: Monthly Average Estimated Fire Area in Year 2019.") {
		t.Error("expected titles to follow the selection")
	}
	if !strings.Contains(body, "No fire records for this selection.") {
		t.Error("expected empty-selection note")
	}
}

func TestChartEndpoints(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	for _, path := range []string{
		"/charts/area.png?region=NSW&year=2019",
		"/charts/pixels.png?region=NSW&year=2019",
		"/charts/area.png?region=QLD&year=2019",
		"/charts/pixels.png?region=QLD&year=2019",
	} {
		w := get(t, srv, path)
		if w.Code != 200 {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("%s: Content-Type = %q", path, ct)
		}
		if _, err := png.Decode(w.Body); err != nil {
			t.Errorf("%s: decode png: %v", path, err)
		}
	}
}

func TestAPISummary(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	w := get(t, srv, "/api/summary?region=NSW&year=2019")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var v api.View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if v.Region != "NSW" || v.Year != 2019 {
		t.Errorf("selection = %s/%d", v.Region, v.Year)
	}
	if v.Result.TotalArea != 20.0 {
		t.Errorf("TotalArea = %v, want 20.0", v.Result.TotalArea)
	}
	if v.Result.TotalPixels != 250 {
		t.Errorf("TotalPixels = %v, want 250", v.Result.TotalPixels)
	}
	if len(v.Result.AreaByMonth) != 2 {
		t.Errorf("expected 2 months, got %v", v.Result.AreaByMonth)
	}
}

func TestAPISummaryDefaults(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	w := get(t, srv, "/api/summary")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var v api.View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatal(err)
	}
	if v.Region != "NSW" || v.Year != 2020 {
		t.Errorf("defaults = %s/%d, want NSW/2020", v.Region, v.Year)
	}
}

func TestAPIRegionsAndYears(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	w := get(t, srv, "/api/regions")
	var regions []config.Region
	if err := json.Unmarshal(w.Body.Bytes(), &regions); err != nil {
		t.Fatalf("decode regions: %v", err)
	}
	if len(regions) != 7 {
		t.Errorf("expected 7 regions, got %d", len(regions))
	}

	w = get(t, srv, "/api/years")
	var years []int
	if err := json.Unmarshal(w.Body.Bytes(), &years); err != nil {
		t.Fatalf("decode years: %v", err)
	}
	if len(years) != 16 || years[0] != 2005 || years[15] != 2020 {
		t.Errorf("years = %v", years)
	}
}

func TestAPINarrativeUnavailableWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	srv := setupTestServer(t, testRecords())

	// SA/2005 has no cached narrative and no generator, so the endpoint
	// reports unavailable rather than failing loudly.
	w := get(t, srv, "/api/narrative?region=SA&year=2005")
	if w.Code != 503 {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	srv := setupTestServer(t, testRecords())

	w := get(t, srv, "/metrics")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "firedash_") {
		t.Error("expected firedash metrics in exposition")
	}
}
