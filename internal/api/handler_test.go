package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-travel-safety/internal/catalog"
	"github.com/mr1hm/go-travel-safety/internal/geo"
	"github.com/mr1hm/go-travel-safety/internal/location"
	"github.com/mr1hm/go-travel-safety/internal/models"
	"github.com/mr1hm/go-travel-safety/internal/ranking"
	"github.com/mr1hm/go-travel-safety/internal/stream"
)

// mockRanking implements RankingService over the embedded catalog.
type mockRanking struct {
	ranker  *ranking.Ranker
	catalog *catalog.Catalog

	mu       sync.Mutex
	current  *models.UserLocation
	reported []models.UserLocation
}

func (m *mockRanking) View(loc *models.UserLocation, source string) ranking.View {
	return m.ranker.Rank(loc, m.catalog.Hazards())
}

func (m *mockRanking) CurrentView(source string) (ranking.View, *models.UserLocation) {
	m.mu.Lock()
	loc := m.current
	m.mu.Unlock()
	return m.View(loc, source), loc
}

func (m *mockRanking) Report(ctx context.Context, loc models.UserLocation) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reported = append(m.reported, loc)
	return nil
}

func (m *mockRanking) LocationState() location.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return location.State{Location: m.current}
}

type testEnv struct {
	router  *gin.Engine
	ranking *mockRanking
	hub     *stream.Hub
}

func setupTestRouter(t *testing.T) testEnv {
	t.Helper()

	cat, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := &mockRanking{ranker: ranking.NewRanker(ranking.DefaultThresholds()), catalog: cat}
	hub := stream.NewHub(4, nil)
	handler := NewHandler(cat, svc, hub, ranking.DefaultThresholds(), catalog.DefaultHighRiskPercent)
	handler.RegisterRoutes(router)

	return testEnv{router: router, ranking: svc, hub: hub}
}

func (e testEnv) do(method, path string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}

func TestListHazards_SeverityFilter(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		query string
		code  int
		count int
	}{
		{"", http.StatusOK, 5},
		{"?severity=all", http.StatusOK, 5},
		{"?severity=medium", http.StatusOK, 2},
		{"?severity=critical", http.StatusOK, 1},
		{"?severity=extreme", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		w := env.do("GET", "/api/hazards"+tt.query, "")
		if w.Code != tt.code {
			t.Errorf("%s: expected status %d, got %d", tt.query, tt.code, w.Code)
			continue
		}
		if tt.code != http.StatusOK {
			continue
		}
		var resp struct {
			Count   int             `json:"count"`
			Hazards []models.Hazard `json:"hazards"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp.Count != tt.count || len(resp.Hazards) != tt.count {
			t.Errorf("%s: expected %d hazards, got %d", tt.query, tt.count, len(resp.Hazards))
		}
	}
}

func TestSeverityCounts(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/hazards/counts", "")
	var counts map[string]int
	json.Unmarshal(w.Body.Bytes(), &counts)

	want := map[string]int{"all": 5, "low": 1, "medium": 2, "high": 1, "critical": 1}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("expected %s=%d, got %d", k, v, counts[k])
		}
	}
}

func TestNearbyHazards_WithCoordinates(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/hazards/nearby?lat=37.7749&lon=-122.4194&accuracy=25", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp viewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if !resp.LocationAvailable {
		t.Error("expected location to be available")
	}
	if resp.Location == nil || resp.Location.AccuracyMeters != 25 {
		t.Errorf("expected echoed location with accuracy 25, got %+v", resp.Location)
	}

	var order []string
	for _, r := range resp.All {
		order = append(order, r.ID)
	}
	if strings.Join(order, ",") != "1,2,5,4,3" {
		t.Errorf("unexpected order %v", order)
	}
	if resp.All[0].DistanceText != "0m away" {
		t.Errorf("expected 0m away, got %s", resp.All[0].DistanceText)
	}
	if resp.All[1].DistanceMeters != 1417 {
		t.Errorf("expected 1417m, got %d", resp.All[1].DistanceMeters)
	}
	if len(resp.HighNear) != 1 || resp.HighNear[0].ID != "1" {
		t.Errorf("expected hazard 1 in high_near, got %+v", resp.HighNear)
	}
	if len(resp.CriticalNear) != 0 {
		t.Errorf("expected no critical_near, got %d", len(resp.CriticalNear))
	}
	if resp.Thresholds.CriticalNearMeters != 1000 || resp.Thresholds.HighNearMeters != 2000 {
		t.Errorf("unexpected thresholds %+v", resp.Thresholds)
	}
}

func TestNearbyHazards_NoLocation(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/hazards/nearby", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var raw map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &raw)

	if string(raw["location_available"]) != "false" {
		t.Errorf("expected location_available false, got %s", raw["location_available"])
	}
	for _, key := range []string{"all", "critical_near", "high_near"} {
		if string(raw[key]) != "[]" {
			t.Errorf("expected %s to be an empty array, got %s", key, raw[key])
		}
	}
}

func TestNearbyHazards_UsesTrackedLocation(t *testing.T) {
	env := setupTestRouter(t)
	env.ranking.current = &models.UserLocation{Coordinate: geo.Point{Latitude: 37.7850, Longitude: -122.5090}}

	w := env.do("GET", "/api/hazards/nearby", "")
	var resp viewResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	if len(resp.CriticalNear) != 1 || resp.CriticalNear[0].ID != "3" {
		t.Errorf("expected rip current in critical_near, got %+v", resp.CriticalNear)
	}
}

func TestNearbyHazards_BadCoordinates(t *testing.T) {
	env := setupTestRouter(t)

	for _, q := range []string{"?lat=37.7", "?lon=-122", "?lat=abc&lon=1", "?lat=91&lon=0", "?lat=0&lon=0&accuracy=-3"} {
		w := env.do("GET", "/api/hazards/nearby"+q, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", q, w.Code)
		}
	}
}

func TestHazardsGeoJSON(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/hazards/geojson?lat=37.7749&lon=-122.4194", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("expected content-type application/geo+json, got %s", ct)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 5 {
		t.Fatalf("expected 5 features, got %d", len(fc.Features))
	}

	first := fc.Features[0]
	if first.Geometry.Coordinates[0] != -122.4194 || first.Geometry.Coordinates[1] != 37.7749 {
		t.Errorf("expected [lon, lat] coordinates, got %v", first.Geometry.Coordinates)
	}
	if _, ok := first.Properties["distance_meters"]; !ok {
		t.Error("expected distance_meters property when location given")
	}

	w = env.do("GET", "/api/hazards/geojson", "")
	json.Unmarshal(w.Body.Bytes(), &fc)
	if _, ok := fc.Features[0].Properties["distance_meters"]; ok {
		t.Error("expected no distance without location")
	}
}

func TestShareHazard(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/hazards/3/share?lat=37.7849&lon=-122.5094", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "Rip Current Warning - CRITICAL RISK") {
		t.Errorf("unexpected share text: %q", body)
	}
	if !strings.Contains(body, "Distance: 0m") {
		t.Errorf("expected distance line, got %q", body)
	}

	if w := env.do("GET", "/api/hazards/3/share", ""); w.Code != http.StatusConflict {
		t.Errorf("expected status 409 without location, got %d", w.Code)
	}
	if w := env.do("GET", "/api/hazards/nope/share?lat=0&lon=0", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestReportLocation(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/location", `{"latitude": 37.77, "longitude": -122.41, "accuracy": 10}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.ranking.reported) != 1 || env.ranking.reported[0].AccuracyMeters != 10 {
		t.Errorf("expected one reported fix, got %+v", env.ranking.reported)
	}

	bad := []string{
		`{"latitude": 37.77}`,
		`{"latitude": 95, "longitude": 0}`,
		`not json`,
	}
	for _, body := range bad {
		if w := env.do("POST", "/api/location", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", body, w.Code)
		}
	}
}

func TestGetLocation(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/location", "")
	var state map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &state)
	if string(state["location"]) != "null" {
		t.Errorf("expected null location, got %s", state["location"])
	}
}

func TestCountries(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/countries", "")
	var list struct {
		Countries []countrySummary `json:"countries"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Countries) != 6 {
		t.Errorf("expected 6 countries, got %d", len(list.Countries))
	}

	w = env.do("GET", "/api/countries/norway", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	var norway models.Country
	json.Unmarshal(w.Body.Bytes(), &norway)
	if norway.Name != "Norway" {
		t.Errorf("expected Norway, got %s", norway.Name)
	}

	if w := env.do("GET", "/api/countries/atlantis", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestCountryPredictions(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/countries/india/predictions", "")
	var resp struct {
		Predictions []models.DiseasePrediction `json:"predictions"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Predictions) == 0 {
		t.Fatal("expected predictions for india")
	}
	for _, p := range resp.Predictions {
		if p.CountryID != "india" {
			t.Errorf("unexpected country %s", p.CountryID)
		}
	}

	if w := env.do("GET", "/api/countries/atlantis/predictions", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHighRiskPredictions(t *testing.T) {
	env := setupTestRouter(t)

	var resp struct {
		Cutoff float64        `json:"cutoff"`
		Alerts []models.Alert `json:"alerts"`
	}

	w := env.do("GET", "/api/predictions/high-risk", "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Cutoff != 70 || len(resp.Alerts) != 2 {
		t.Errorf("expected 2 alerts above 70%%, got %d (cutoff %v)", len(resp.Alerts), resp.Cutoff)
	}

	w = env.do("GET", "/api/predictions/high-risk?dismissed=thailand-dengue,%20india-dengue", "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Alerts) != 0 {
		t.Errorf("expected all alerts dismissed, got %d", len(resp.Alerts))
	}
}

func TestGuides(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/guides", "")
	var resp struct {
		Guides []models.SafetyGuide `json:"guides"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Guides) != 5 {
		t.Errorf("expected 5 guides, got %d", len(resp.Guides))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected [200 200 429], got %v", codes)
	}

	// a different client has its own budget
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected second client to pass, got %d", w.Code)
	}
}

func TestStreamViews(t *testing.T) {
	env := setupTestRouter(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream request failed: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readEvent := func() streamEvent {
		t.Helper()
		var ev streamEvent
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("failed reading stream: %v", err)
			}
			if data, ok := strings.CutPrefix(line, "data:"); ok {
				if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &ev); err != nil {
					t.Fatalf("bad event payload: %v", err)
				}
				return ev
			}
		}
	}

	snapshot := readEvent()
	if snapshot.Source != "snapshot" || snapshot.View.LocationAvailable {
		t.Errorf("expected empty snapshot, got %+v", snapshot)
	}

	loc := models.UserLocation{Coordinate: geo.Point{Latitude: 37.7849, Longitude: -122.5094}}
	env.hub.Publish(stream.Update{
		Location: loc,
		View:     env.ranking.View(&loc, "test"),
		Source:   "report",
	})

	update := readEvent()
	if update.Source != "report" {
		t.Errorf("expected report event, got %s", update.Source)
	}
	if len(update.View.CriticalNear) != 1 {
		t.Errorf("expected 1 critical hazard, got %d", len(update.View.CriticalNear))
	}

	env.hub.Close()
}
