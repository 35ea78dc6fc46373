package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/refurbtrack/price-tracker/internal/export"
)

// ExportCSV godoc
// @Summary Download the dataset as CSV
// @Tags export
// @Produce text/csv
// @Success 200 {string} string "CSV payload"
// @Router /api/export/csv [get]
func (h *Handlers) ExportCSV(c *gin.Context) {
	data := h.store.Load()

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename("csv")+`"`)
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, data); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Error().Err(err).Msg("csv export failed mid-stream")
	}
}

// ExportXLSX godoc
// @Summary Download the dataset as an Excel workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {string} string "XLSX payload"
// @Router /api/export/xlsx [get]
func (h *Handlers) ExportXLSX(c *gin.Context) {
	data := h.store.Load()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename("xlsx")+`"`)
	c.Status(http.StatusOK)

	if err := export.WriteXLSXTo(c.Writer, data); err != nil {
		h.logger.Error().Err(err).Msg("xlsx export failed mid-stream")
	}
}

func exportFilename(ext string) string {
	return "competitor_prices_" + time.Now().Format("20060102_150405") + "." + ext
}
