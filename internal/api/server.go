package api

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ozfires/firedash/internal/charts"
	"github.com/ozfires/firedash/internal/config"
	"github.com/ozfires/firedash/internal/metrics"
	"github.com/ozfires/firedash/internal/models"
	"github.com/ozfires/firedash/internal/narrative"
	"github.com/ozfires/firedash/internal/store"
)

// Server serves the dashboard over an in-memory copy of the dataset. The
// record slice is loaded once at startup and never mutated, so handlers read
// it without locking.
type Server struct {
	store    *store.Store
	records  []models.FireRecord
	opts     *config.Options
	port     string
	tmpl     *template.Template
	narrator *narrative.Generator
	cache    *narrative.Cache
	genMu    sync.Mutex // Prevents concurrent generation for the same selection
}

func NewServer(st *store.Store, records []models.FireRecord, opts *config.Options, port string) *Server {
	// Narrative generation is optional; most deployments have no API key.
	var narrator *narrative.Generator
	if gen, err := narrative.NewGenerator(); err != nil {
		log.Printf("Narrative generation disabled: %v", err)
	} else {
		narrator = gen
	}

	return &Server{
		store:    st,
		records:  records,
		opts:     opts,
		port:     port,
		tmpl:     newTemplates(),
		narrator: narrator,
		cache:    narrative.NewCache("data/narratives"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/partials/dashboard", s.handleDashboardPartial)
	mux.HandleFunc("/charts/area.png", s.handleAreaChart)
	mux.HandleFunc("/charts/pixels.png", s.handlePixelChart)
	mux.HandleFunc("/api/summary", s.handleAPISummary)
	mux.HandleFunc("/api/regions", s.handleAPIRegions)
	mux.HandleFunc("/api/years", s.handleAPIYears)
	mux.HandleFunc("/api/narrative", s.handleAPINarrative)
	mux.Handle("/metrics", promhttp.Handler())
	return withRequestMetrics(mux)
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// selection reads region/year from the query string, falling back to the
// defaults. Values outside the option sets pass through unchanged; the
// aggregator answers those with empty results rather than errors.
func (s *Server) selection(r *http.Request) models.Selection {
	sel := models.Selection{
		Region: s.opts.DefaultRegion(),
		Year:   s.opts.DefaultYear(),
	}
	if region := r.URL.Query().Get("region"); region != "" {
		sel.Region = region
	}
	if year := r.URL.Query().Get("year"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			sel.Year = y
		}
	}
	return sel
}

func (s *Server) view(sel models.Selection) View {
	v := BuildView(s.records, s.opts, sel)
	metrics.AggregationsTotal.WithLabelValues(strconv.FormatBool(v.Empty)).Inc()
	return v
}

// IndexData wraps the initial view with the selector option sets.
type IndexData struct {
	Regions []config.Region
	Years   []int
	View    View
	Info    *models.DatasetInfo
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	info, err := s.store.DatasetInfo()
	if err != nil {
		log.Printf("dataset info: %v", err)
	}

	data := IndexData{
		Regions: s.opts.Regions(),
		Years:   s.opts.Years(),
		View:    s.view(s.selection(r)),
		Info:    info,
	}
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("template error: %v", err)
	}
}

func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	data := s.view(s.selection(r))
	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.Printf("template error: %v", err)
	}
}

func (s *Server) handleAreaChart(w http.ResponseWriter, r *http.Request) {
	v := s.view(s.selection(r))
	s.serveChart(w, "area", func(buf *bytes.Buffer) error {
		return charts.RenderDonut(v.Donut, buf)
	})
}

func (s *Server) handlePixelChart(w http.ResponseWriter, r *http.Request) {
	v := s.view(s.selection(r))
	s.serveChart(w, "pixels", func(buf *bytes.Buffer) error {
		return charts.RenderBar(v.PixelBar, buf)
	})
}

func (s *Server) serveChart(w http.ResponseWriter, name string, render func(*bytes.Buffer) error) {
	start := time.Now()
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		log.Printf("render %s chart: %v", name, err)
		http.Error(w, "chart rendering failed", http.StatusInternalServerError)
		return
	}
	metrics.ChartRenderLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(buf.Bytes())
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	data := s.view(s.selection(r))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleAPIRegions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.opts.Regions())
}

func (s *Server) handleAPIYears(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.opts.Years())
}

type narrativeResponse struct {
	Region    string `json:"region"`
	Year      int    `json:"year"`
	Narrative string `json:"narrative"`
}

// handleAPINarrative serves an optional generated summary of the selection.
// Cached summaries are served directly; a miss generates synchronously under
// the mutex so concurrent requests for one selection make a single API call.
func (s *Server) handleAPINarrative(w http.ResponseWriter, r *http.Request) {
	sel := s.selection(r)

	if text, ok := s.cache.Get(sel.Region, sel.Year); ok {
		s.writeNarrative(w, sel, text)
		return
	}

	if s.narrator == nil {
		http.Error(w, "narrative service unavailable", http.StatusServiceUnavailable)
		return
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()

	// Double-check cache after acquiring the lock.
	if text, ok := s.cache.Get(sel.Region, sel.Year); ok {
		s.writeNarrative(w, sel, text)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res := s.view(sel).Result
	text, err := s.narrator.Generate(ctx, s.opts.RegionLabel(sel.Region), sel.Year, res)
	if err != nil {
		log.Printf("generate narrative: %v", err)
		http.Error(w, "narrative generation failed", http.StatusServiceUnavailable)
		return
	}
	if err := s.cache.Set(sel.Region, sel.Year, text); err != nil {
		log.Printf("cache narrative: %v", err)
	}
	s.writeNarrative(w, sel, text)
}

func (s *Server) writeNarrative(w http.ResponseWriter, sel models.Selection, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(narrativeResponse{
		Region:    sel.Region,
		Year:      sel.Year,
		Narrative: text,
	})
}

type HealthStatus struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{Status: "ok", Records: len(s.records)}
	if len(s.records) == 0 {
		health.Status = "degraded"
		health.Error = "no records loaded"
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(health); err != nil {
		log.Printf("health: write response: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}
