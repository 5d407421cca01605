package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-travel-safety/internal/catalog"
	"github.com/mr1hm/go-travel-safety/internal/geo"
	"github.com/mr1hm/go-travel-safety/internal/location"
	"github.com/mr1hm/go-travel-safety/internal/models"
	"github.com/mr1hm/go-travel-safety/internal/ranking"
	"github.com/mr1hm/go-travel-safety/internal/stream"
)

const sourceAPI = "api"

// RankingService ranks the catalog and tracks the user's location.
type RankingService interface {
	View(loc *models.UserLocation, source string) ranking.View
	CurrentView(source string) (ranking.View, *models.UserLocation)
	Report(ctx context.Context, loc models.UserLocation) error
	LocationState() location.State
}

type Handler struct {
	catalog         *catalog.Catalog
	ranking         RankingService
	hub             *stream.Hub
	thresholds      ranking.Thresholds
	highRiskPercent float64
}

func NewHandler(cat *catalog.Catalog, svc RankingService, hub *stream.Hub, thresholds ranking.Thresholds, highRiskPercent float64) *Handler {
	return &Handler{
		catalog:         cat,
		ranking:         svc,
		hub:             hub,
		thresholds:      thresholds,
		highRiskPercent: highRiskPercent,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/hazards", h.listHazards)
	api.GET("/hazards/counts", h.severityCounts)
	api.GET("/hazards/nearby", h.nearbyHazards)
	api.GET("/hazards/geojson", h.hazardsGeoJSON)
	api.GET("/hazards/:id/share", h.shareHazard)

	api.GET("/location", h.getLocation)
	api.POST("/location", h.reportLocation)
	api.GET("/stream", h.streamViews)

	api.GET("/countries", h.listCountries)
	api.GET("/countries/:id", h.getCountry)
	api.GET("/countries/:id/predictions", h.countryPredictions)
	api.GET("/predictions/high-risk", h.highRiskPredictions)

	api.GET("/guides", h.listGuides)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listHazards(c *gin.Context) {
	var sev *models.Severity
	if s := c.Query("severity"); s != "" && s != "all" {
		parsed, err := models.ParseSeverity(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sev = &parsed
	}

	hazards := h.catalog.FilterBySeverity(sev)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(hazards),
		"hazards": hazards,
	})
}

func (h *Handler) severityCounts(c *gin.Context) {
	counts := h.catalog.SeverityCounts()
	out := make(map[string]int, len(counts)+1)
	total := 0
	for sev, n := range counts {
		out[sev.String()] = n
		total += n
	}
	out["all"] = total
	c.JSON(http.StatusOK, out)
}

func (h *Handler) nearbyHazards(c *gin.Context) {
	v, loc, err := h.viewFor(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newViewResponse(v, loc, h.thresholds))
}

func (h *Handler) hazardsGeoJSON(c *gin.Context) {
	v, loc, err := h.viewFor(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var fc FeatureCollection
	if loc == nil {
		fc = hazardsToGeoJSON(h.catalog.Hazards())
	} else {
		fc = rankedToGeoJSON(v.All)
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) shareHazard(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.catalog.Hazard(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("hazard %q not found", id)})
		return
	}

	v, loc, err := h.viewFor(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if loc == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "location unavailable"})
		return
	}

	for _, r := range v.All {
		if r.ID == id {
			c.String(http.StatusOK, r.ShareText())
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("hazard %q not found", id)})
}

func (h *Handler) getLocation(c *gin.Context) {
	c.JSON(http.StatusOK, h.ranking.LocationState())
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Accuracy  float64  `json:"accuracy"`
}

func (h *Handler) reportLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	loc := models.UserLocation{
		Coordinate:     geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude},
		AccuracyMeters: req.Accuracy,
	}
	if err := h.ranking.Report(c.Request.Context(), loc); err != nil {
		if errors.Is(err, geo.ErrInvalidPoint) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "location update not accepted"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *Handler) listCountries(c *gin.Context) {
	countries := h.catalog.Countries()
	out := make([]countrySummary, 0, len(countries))
	for _, country := range countries {
		out = append(out, newCountrySummary(country))
	}
	c.JSON(http.StatusOK, gin.H{"countries": out})
}

func (h *Handler) getCountry(c *gin.Context) {
	country, ok := h.catalog.Country(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "country not found"})
		return
	}
	c.JSON(http.StatusOK, country)
}

func (h *Handler) countryPredictions(c *gin.Context) {
	preds, err := h.catalog.PredictionsForCountry(c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "country not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load predictions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": preds})
}

func (h *Handler) highRiskPredictions(c *gin.Context) {
	dismissed := make(map[string]bool)
	for _, id := range strings.Split(c.Query("dismissed"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			dismissed[id] = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"cutoff": h.highRiskPercent,
		"alerts": h.catalog.HighRiskAlerts(h.highRiskPercent, dismissed),
	})
}

func (h *Handler) listGuides(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"guides": h.catalog.Guides()})
}

// viewFor ranks against lat/lon query parameters when present, otherwise
// against the tracked location.
func (h *Handler) viewFor(c *gin.Context) (ranking.View, *models.UserLocation, error) {
	lat, lon := c.Query("lat"), c.Query("lon")
	if lat == "" && lon == "" {
		v, loc := h.ranking.CurrentView(sourceAPI)
		return v, loc, nil
	}
	if lat == "" || lon == "" {
		return ranking.View{}, nil, errors.New("lat and lon must be given together")
	}

	loc, err := parseLocation(lat, lon, c.Query("accuracy"))
	if err != nil {
		return ranking.View{}, nil, err
	}
	return h.ranking.View(&loc, sourceAPI), &loc, nil
}

func parseLocation(lat, lon, accuracy string) (models.UserLocation, error) {
	var loc models.UserLocation
	var err error

	if loc.Coordinate.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
		return loc, fmt.Errorf("invalid lat: %q", lat)
	}
	if loc.Coordinate.Longitude, err = strconv.ParseFloat(lon, 64); err != nil {
		return loc, fmt.Errorf("invalid lon: %q", lon)
	}
	if accuracy != "" {
		if loc.AccuracyMeters, err = strconv.ParseFloat(accuracy, 64); err != nil {
			return loc, fmt.Errorf("invalid accuracy: %q", accuracy)
		}
	}
	if err := loc.Validate(); err != nil {
		return loc, err
	}
	return loc, nil
}
