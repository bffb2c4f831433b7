package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"visibility-scan-pipeline/database"
	"visibility-scan-pipeline/models"
	"visibility-scan-pipeline/service"
)

// Handlers represents the HTTP handlers
type Handlers struct {
	svc *service.Service
	db  *database.Database
}

// NewHandlers creates new HTTP handlers. db may be nil when persistence is
// disabled.
func NewHandlers(svc *service.Service, db *database.Database) *Handlers {
	return &Handlers{svc: svc, db: db}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "visibility-scan-pipeline",
	})
}

// StartScan accepts a scan request and starts it asynchronously.
func (h *Handlers) StartScan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid scan request",
		})
		return
	}

	scanID, err := h.svc.StartScan(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"scan_id": scanID,
	})
}

// GetScan returns the state of a scan. In-memory state wins; the database
// serves scans from before the last restart.
func (h *Handlers) GetScan(c *gin.Context) {
	scanID := c.Param("id")

	if state, ok := h.svc.GetScan(scanID); ok {
		c.JSON(http.StatusOK, state)
		return
	}

	if h.db != nil {
		if result, err := h.db.GetScanResult(c.Request.Context(), scanID); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"id":     result.ScanID,
				"phase":  models.PhaseComplete,
				"result": result,
			})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error": "Scan not found",
	})
}

// AbortScan cancels an in-flight scan.
func (h *Handlers) AbortScan(c *gin.Context) {
	scanID := c.Param("id")
	if !h.svc.AbortScan(scanID) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Scan not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scan_id": scanID,
		"status":  "aborting",
	})
}

// GetRecentScans returns recent scans for a brand from the database.
func (h *Handlers) GetRecentScans(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Persistence is disabled",
		})
		return
	}

	brand := c.Query("brand")
	if brand == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "brand query parameter is required",
		})
		return
	}

	scans, err := h.db.GetRecentScans(c.Request.Context(), brand, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load recent scans",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
		"scans": scans,
	})
}

// GetStats returns statistics about scans
func (h *Handlers) GetStats(c *gin.Context) {
	out := gin.H{
		"in_memory": h.svc.Stats(),
	}

	if h.db != nil {
		stats, err := h.db.GetScanStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get scan stats",
			})
			return
		}
		out["persisted"] = stats
	}

	c.JSON(http.StatusOK, out)
}
