// Package handlers exposes the tracked dataset over HTTP: dashboard data,
// cross-site comparison, exports, backups and on-demand scrapes.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/refurbtrack/price-tracker/internal/backup"
	"github.com/refurbtrack/price-tracker/internal/pipeline"
	"github.com/refurbtrack/price-tracker/internal/store"
	"github.com/refurbtrack/price-tracker/internal/types"
)

// Handlers bundles the dependencies the HTTP layer needs.
type Handlers struct {
	store    *store.Store
	backups  *backup.Manager
	pipeline *pipeline.Pipeline
	logger   zerolog.Logger
}

// New returns the handler set. The pipeline may be nil when the server
// runs read-only; the scrape endpoint then responds 503.
func New(st *store.Store, backups *backup.Manager, p *pipeline.Pipeline, logger zerolog.Logger) *Handlers {
	return &Handlers{
		store:    st,
		backups:  backups,
		pipeline: p,
		logger:   logger.With().Str("component", "handlers").Logger(),
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// HealthCheck godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Time: time.Now().UTC()})
}

// DataResponse wraps the full dataset with top-line counts.
type DataResponse struct {
	Competitors   int           `json:"competitors"`
	TotalProducts int           `json:"total_products"`
	Data          types.Dataset `json:"data"`
}

// GetData godoc
// @Summary Current dataset for all competitors
// @Tags data
// @Produce json
// @Success 200 {object} DataResponse
// @Router /api/data [get]
func (h *Handlers) GetData(c *gin.Context) {
	data := h.store.Load()

	total := 0
	for _, snap := range data {
		total += snap.TotalProducts
	}

	c.JSON(http.StatusOK, DataResponse{
		Competitors:   len(data),
		TotalProducts: total,
		Data:          data,
	})
}

// GetCompetitor godoc
// @Summary Current snapshot for one competitor
// @Tags data
// @Produce json
// @Param competitor path string true "Competitor name"
// @Success 200 {object} types.CompetitorSnapshot
// @Failure 404 {object} map[string]string
// @Router /api/data/{competitor} [get]
func (h *Handlers) GetCompetitor(c *gin.Context) {
	name := c.Param("competitor")
	data := h.store.Load()

	snap, ok := data[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for competitor: " + name})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ScrapeResponse reports the outcome of an on-demand scrape.
type ScrapeResponse struct {
	Result pipeline.CompetitorResult `json:"result"`
}

// TriggerScrape godoc
// @Summary Scrape one competitor now
// @Tags scrape
// @Produce json
// @Param competitor path string true "Competitor name"
// @Success 200 {object} ScrapeResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/scrape/{competitor} [post]
func (h *Handlers) TriggerScrape(c *gin.Context) {
	if h.pipeline == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scraping disabled on this instance"})
		return
	}

	name := c.Param("competitor")
	result, err := h.pipeline.RunOne(c.Request.Context(), name)
	if err != nil {
		h.logger.Error().Err(err).Str("competitor", name).Msg("on-demand scrape failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ScrapeResponse{Result: result})
}
