package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/database/status"
	"github.com/openlibdev/catalog-export/internal/export"
)

// TriggerFunc starts an export job and returns its job id.
type TriggerFunc func(ctx context.Context, exportType string, filter export.FilterSpec, failOnZero bool) (string, error)

// ExportsController handles export job management endpoints.
type ExportsController struct {
	statusRepo *status.Repository
	registry   *export.Registry
	trigger    TriggerFunc
}

// NewExportsController creates a new ExportsController.
func NewExportsController(statusRepo *status.Repository, registry *export.Registry, trigger TriggerFunc) *ExportsController {
	return &ExportsController{
		statusRepo: statusRepo,
		registry:   registry,
		trigger:    trigger,
	}
}

// FilterRequest is the wire form of an export filter.
type FilterRequest struct {
	Type       string     `json:"type"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	RecordFrom int        `json:"record_from,omitempty"`
	RecordTo   int        `json:"record_to,omitempty"`
}

// RunExportRequest is the request body for triggering an export.
type RunExportRequest struct {
	ExportType string        `json:"export_type" binding:"required"`
	Filter     FilterRequest `json:"filter"`
	FailOnZero bool          `json:"fail_on_zero"`
}

// Run handles POST /api/exports
// Triggers an export job and returns its job id without waiting for
// completion.
func (ec *ExportsController) Run(c *gin.Context) {
	var req RunExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "export_type is required")
		return
	}
	if _, err := ec.registry.Get(req.ExportType); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if req.Filter.Type == "" {
		req.Filter.Type = database.FilterFullExport
	}
	if !database.KnownFilter(req.Filter.Type) {
		respondBadRequest(c, "unknown filter type: "+req.Filter.Type)
		return
	}

	filter := export.FilterSpec{
		Type:       req.Filter.Type,
		From:       req.Filter.From,
		To:         req.Filter.To,
		RecordFrom: req.Filter.RecordFrom,
		RecordTo:   req.Filter.RecordTo,
	}
	jobID, err := ec.trigger(c.Request.Context(), req.ExportType, filter, req.FailOnZero)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":      jobID,
		"export_type": req.ExportType,
		"filter":      req.Filter.Type,
	})
}

// Get handles GET /api/exports/:job_id
// Returns the status row of one export job.
func (ec *ExportsController) Get(c *gin.Context) {
	jobID := c.Param("job_id")

	instance, err := ec.statusRepo.Get(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "no export job "+jobID)
			return
		}
		respondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, instance)
}

// List handles GET /api/exports
// Returns recent export jobs, newest first.
func (ec *ExportsController) List(c *gin.Context) {
	limit := queryInt(c, "limit", 20)

	instances, err := ec.statusRepo.List(limit)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exports": instances,
		"count":   len(instances),
	})
}

// Types handles GET /api/exports/types
// Returns the export types that can be triggered.
func (ec *ExportsController) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"export_types": ec.registry.Names(),
		"filter_types": []string{
			database.FilterFullExport,
			database.FilterLastExport,
			database.FilterUpdatedDateRange,
			database.FilterRecordRange,
		},
	})
}
