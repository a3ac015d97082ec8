package entities

import (
	"time"
)

type ExportStatus string

const (
	ExportStatusWaiting        ExportStatus = "waiting"
	ExportStatusRunning        ExportStatus = "running"
	ExportStatusSuccess        ExportStatus = "success"
	ExportStatusDoneWithErrors ExportStatus = "done_with_errors"
	ExportStatusError          ExportStatus = "error"
	ExportStatusUnknown        ExportStatus = "unknown"
)

// KnownExportStatus reports whether s is one of the defined status
// values. Anything else is coerced to "unknown" when saved.
func KnownExportStatus(s ExportStatus) bool {
	switch s {
	case ExportStatusWaiting, ExportStatusRunning, ExportStatusSuccess,
		ExportStatusDoneWithErrors, ExportStatusError, ExportStatusUnknown:
		return true
	}
	return false
}

// ExportInstance is one export job run. Timestamp marks when the job
// was created; last_export filters resolve against the newest instance
// of the same type with a successful status.
type ExportInstance struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	JobID        string       `gorm:"uniqueIndex;size:36" json:"job_id"`
	ExportType   string       `gorm:"index;size:100" json:"export_type"`
	ExportFilter string       `gorm:"size:100" json:"export_filter"`
	Status       ExportStatus `gorm:"index;size:20" json:"status"`
	Timestamp    time.Time    `gorm:"index" json:"timestamp"`
	Warnings     int          `json:"warnings"`
	Errors       int          `json:"errors"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (ExportInstance) TableName() string {
	return "export_instances"
}
