package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refurbtrack/price-tracker/internal/backup"
)

// BackupsResponse lists the retained restore points.
type BackupsResponse struct {
	Backups []backup.Info `json:"backups"`
	Total   int           `json:"total"`
}

// ListBackups godoc
// @Summary List retained dataset backups
// @Tags backups
// @Produce json
// @Success 200 {object} BackupsResponse
// @Failure 500 {object} map[string]string
// @Router /api/backups [get]
func (h *Handlers) ListBackups(c *gin.Context) {
	infos, err := h.backups.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, BackupsResponse{Backups: infos, Total: len(infos)})
}

// RestoreBackup godoc
// @Summary Replace the live dataset with a named backup
// @Description Operator escape hatch for when a bad scrape slipped past
// @Description validation. The current dataset is backed up first.
// @Tags backups
// @Produce json
// @Param name path string true "Backup filename"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/backups/{name}/restore [post]
func (h *Handlers) RestoreBackup(c *gin.Context) {
	name := c.Param("name")

	data, err := h.backups.Restore(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Protect the dataset being replaced, same as any other overwrite.
	if _, err := h.backups.Create(h.store.Load()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backup before restore failed: " + err.Error()})
		return
	}

	if err := h.store.Save(data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info().Str("backup", name).Int("competitors", len(data)).Msg("dataset restored from backup")
	c.JSON(http.StatusOK, gin.H{"restored": name, "competitors": len(data)})
}
