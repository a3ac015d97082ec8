package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openlibdev/catalog-export/internal/export"
)

// RunExportTask executes one export job on a worker.
type RunExportTask struct {
	JobID      string            `json:"job_id"`
	ExportType string            `json:"export_type"`
	Filter     export.FilterSpec `json:"filter"`
	FailOnZero bool              `json:"fail_on_zero"`
}

// Config returns the queue configuration for export jobs. Exports are
// not retried: a failed run leaves its status row behind and the next
// scheduled or manual run picks up from the last successful one.
func (t RunExportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "run_export",
		MaxAttempts: 1,
		Timeout:     2 * time.Hour,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RunExportProcessor creates a processor function for RunExportTask.
func RunExportProcessor(runner *export.Runner, registry *export.Registry) backlite.QueueProcessor[RunExportTask] {
	return func(ctx context.Context, task RunExportTask) error {
		strategy, err := registry.Get(task.ExportType)
		if err != nil {
			return fmt.Errorf("run export %s: %w", task.JobID, err)
		}

		job := &export.Job{
			ID:         task.JobID,
			Type:       task.ExportType,
			Filter:     task.Filter,
			FailOnZero: task.FailOnZero,
		}
		instance, err := runner.Run(ctx, job, strategy)
		if err != nil {
			return fmt.Errorf("run export %s: %w", task.JobID, err)
		}

		log.Printf("[TASK] Export %s (%s) finished as %s with %d warnings, %d errors",
			task.JobID, task.ExportType, instance.Status, instance.Warnings, instance.Errors)
		return nil
	}
}

// NewRunExportQueue creates a backlite queue for export jobs.
func NewRunExportQueue(runner *export.Runner, registry *export.Registry) backlite.Queue {
	return backlite.NewQueue(RunExportProcessor(runner, registry))
}
