// Package status persists per-job export status records: lifecycle
// transitions, warning and error counters, and the lookup that
// "last export" filters resolve against.
package status

import (
	"time"

	"gorm.io/gorm"

	"github.com/openlibdev/catalog-export/internal/entities"
)

// Repository stores export instances.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new status repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create records a new job in the waiting state.
func (r *Repository) Create(jobID, exportType, exportFilter string) (*entities.ExportInstance, error) {
	instance := &entities.ExportInstance{
		JobID:        jobID,
		ExportType:   exportType,
		ExportFilter: exportFilter,
		Status:       entities.ExportStatusWaiting,
		Timestamp:    time.Now().UTC(),
	}
	if err := r.db.Create(instance).Error; err != nil {
		return nil, err
	}
	return instance, nil
}

// SetStatus transitions a job's status. Values outside the known set
// are stored as "unknown" rather than rejected.
func (r *Repository) SetStatus(jobID string, status entities.ExportStatus) error {
	if !entities.KnownExportStatus(status) {
		status = entities.ExportStatusUnknown
	}
	return r.db.Model(&entities.ExportInstance{}).
		Where("job_id = ?", jobID).
		Update("status", status).Error
}

// AddWarnings increments a job's persisted warning counter.
func (r *Repository) AddWarnings(jobID string, n int) error {
	if n == 0 {
		return nil
	}
	return r.db.Model(&entities.ExportInstance{}).
		Where("job_id = ?", jobID).
		Update("warnings", gorm.Expr("warnings + ?", n)).Error
}

// AddErrors increments a job's persisted error counter.
func (r *Repository) AddErrors(jobID string, n int) error {
	if n == 0 {
		return nil
	}
	return r.db.Model(&entities.ExportInstance{}).
		Where("job_id = ?", jobID).
		Update("errors", gorm.Expr("errors + ?", n)).Error
}

// Get retrieves a job's status record.
func (r *Repository) Get(jobID string) (*entities.ExportInstance, error) {
	var instance entities.ExportInstance
	err := r.db.Where("job_id = ?", jobID).First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// List returns the most recent export instances, newest first.
func (r *Repository) List(limit int) ([]entities.ExportInstance, error) {
	q := r.db.Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var instances []entities.ExportInstance
	err := q.Find(&instances).Error
	return instances, err
}

// LatestSuccessful returns the newest instance of the given export
// type that completed, including runs that finished with record-level
// errors. Last-export filters resolve from its timestamp.
func (r *Repository) LatestSuccessful(exportType string) (*entities.ExportInstance, error) {
	var instance entities.ExportInstance
	err := r.db.Where("export_type = ? AND status IN ?", exportType,
		[]entities.ExportStatus{entities.ExportStatusSuccess, entities.ExportStatusDoneWithErrors}).
		Order("timestamp DESC").
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}
