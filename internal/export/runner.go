package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/database/status"
	"github.com/openlibdev/catalog-export/internal/entities"
)

// FilterSpec is the unresolved filter a caller requests. A
// "last_export" spec carries no window of its own; the runner resolves
// it against the newest successful run of the same export type.
type FilterSpec struct {
	Type       string     `json:"type"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	RecordFrom int        `json:"record_from,omitempty"`
	RecordTo   int        `json:"record_to,omitempty"`
}

// Job is one export invocation.
type Job struct {
	ID     string
	Type   string
	Filter FilterSpec

	// FailOnZero makes a job that matches no records at all finish
	// as an error instead of an empty success.
	FailOnZero bool
}

// NewJob creates a job with a fresh id.
func NewJob(exportType string, filter FilterSpec) *Job {
	return &Job{
		ID:     uuid.New().String(),
		Type:   exportType,
		Filter: filter,
	}
}

// Runner drives a job through its lifecycle: create the status row,
// resolve the filter, loop record and deletion chunks through the
// strategy, fold the chunk results, fire the final callback once, and
// persist the final status with its warning and error counts.
type Runner struct {
	status *status.Repository
}

func NewRunner(statusRepo *status.Repository) *Runner {
	return &Runner{status: statusRepo}
}

// Run executes job with strategy s. Record-level failures are counted
// and logged but do not stop the job; only setup failures return an
// error. The returned instance is the job's final status row.
func (r *Runner) Run(ctx context.Context, job *Job, s Strategy) (*entities.ExportInstance, error) {
	if _, err := r.status.Create(job.ID, job.Type, job.Filter.Type); err != nil {
		return nil, fmt.Errorf("create status for job %s: %w", job.ID, err)
	}

	f, err := r.resolveFilter(job)
	if err != nil {
		log.Printf("export %s (%s): %v", job.ID, job.Type, err)
		r.setStatus(job.ID, entities.ExportStatusError)
		inst, _ := r.status.Get(job.ID)
		return inst, err
	}
	r.setStatus(job.ID, entities.ExportStatusRunning)
	log.Printf("export %s (%s) started with filter %s", job.ID, job.Type, job.Filter.Type)

	tally := &jobTally{}
	chunks := r.runRecordChunks(ctx, job, s, f, tally)
	if job.FailOnZero && tally.records == 0 {
		err := &SetupError{Reason: fmt.Sprintf("no records matched filter %s", job.Filter.Type)}
		log.Printf("export %s (%s): %v", job.ID, job.Type, err)
		r.setStatus(job.ID, entities.ExportStatusError)
		inst, _ := r.status.Get(job.ID)
		return inst, err
	}
	chunks = append(chunks, r.runDeletionChunks(ctx, job, s, f, tally)...)

	vals := s.CompileVals(chunks)
	final := entities.ExportStatusSuccess
	if tally.errors > 0 {
		final = entities.ExportStatusDoneWithErrors
	}
	if err := s.FinalCallback(ctx, vals, final); err != nil {
		log.Printf("export %s: final callback: %v", job.ID, err)
		tally.errors++
		final = entities.ExportStatusDoneWithErrors
	}

	if err := r.status.AddWarnings(job.ID, tally.warnings); err != nil {
		log.Printf("export %s: record warnings: %v", job.ID, err)
	}
	if err := r.status.AddErrors(job.ID, tally.errors); err != nil {
		log.Printf("export %s: record errors: %v", job.ID, err)
	}
	r.setStatus(job.ID, final)
	log.Printf("export %s (%s) finished: %s, %d records, %d deletions, %d warnings, %d errors",
		job.ID, job.Type, final, tally.records, tally.deletions, tally.warnings, tally.errors)
	return r.status.Get(job.ID)
}

type jobTally struct {
	records   int
	deletions int
	warnings  int
	errors    int
}

func (r *Runner) runRecordChunks(ctx context.Context, job *Job, s Strategy, f database.ResolvedFilter, tally *jobTally) []Vals {
	var chunks []Vals
	preloads := s.Prefetch()
	for offset := 0; ; offset += s.MaxRecChunk() {
		records, err := s.GetRecords(ctx, f, preloads, offset, s.MaxRecChunk())
		if err != nil {
			log.Printf("export %s: %v", job.ID, &SourceReadError{Stage: "records", Err: err})
			tally.errors++
			break
		}
		if len(records) == 0 {
			break
		}
		tally.records += len(records)

		res, err := s.ExportRecords(ctx, records)
		if err != nil {
			log.Printf("export %s: chunk at offset %d: %v", job.ID, offset, err)
			tally.errors++
		}
		chunks = r.collectChunk(job, chunks, res, tally)
		if len(records) < s.MaxRecChunk() {
			break
		}
	}
	return chunks
}

func (r *Runner) runDeletionChunks(ctx context.Context, job *Job, s Strategy, f database.ResolvedFilter, tally *jobTally) []Vals {
	ids, err := s.GetDeletions(ctx, f)
	if err != nil {
		log.Printf("export %s: %v", job.ID, &SourceReadError{Stage: "deletions", Err: err})
		tally.errors++
		return nil
	}
	var chunks []Vals
	for start := 0; start < len(ids); start += s.MaxDelChunk() {
		end := start + s.MaxDelChunk()
		if end > len(ids) {
			end = len(ids)
		}
		tally.deletions += end - start

		res, err := s.DeleteRecords(ctx, ids[start:end])
		if err != nil {
			log.Printf("export %s: deletion chunk at offset %d: %v", job.ID, start, err)
			tally.errors++
		}
		chunks = r.collectChunk(job, chunks, res, tally)
	}
	return chunks
}

func (r *Runner) collectChunk(job *Job, chunks []Vals, res ChunkResult, tally *jobTally) []Vals {
	for _, recErr := range res.RecordErrors {
		log.Printf("export %s: %v", job.ID, recErr)
	}
	for _, warning := range res.Warnings {
		log.Printf("export %s: warning: %s", job.ID, warning)
	}
	tally.errors += len(res.RecordErrors)
	tally.warnings += len(res.Warnings)
	if res.Vals != nil {
		chunks = append(chunks, res.Vals)
	}
	return chunks
}

// resolveFilter turns the job's filter spec into the concrete filter
// repositories understand. Unresolvable specs are setup errors.
func (r *Runner) resolveFilter(job *Job) (database.ResolvedFilter, error) {
	spec := job.Filter
	switch spec.Type {
	case database.FilterFullExport, "":
		return database.FullExport(), nil
	case database.FilterLastExport:
		last, err := r.status.LatestSuccessful(job.Type)
		if err != nil {
			return database.ResolvedFilter{}, &SetupError{
				Reason: fmt.Sprintf("no successful %s export to resume from", job.Type),
				Err:    err,
			}
		}
		return database.UpdatedSince(last.Timestamp), nil
	case database.FilterUpdatedDateRange:
		if spec.From == nil && spec.To == nil {
			return database.ResolvedFilter{}, &SetupError{Reason: "updated_date_range filter needs at least one bound"}
		}
		return database.ResolvedFilter{Type: database.FilterUpdatedDateRange, From: spec.From, To: spec.To}, nil
	case database.FilterRecordRange:
		if spec.RecordTo < spec.RecordFrom {
			return database.ResolvedFilter{}, &SetupError{
				Reason: fmt.Sprintf("record_range %d-%d is inverted", spec.RecordFrom, spec.RecordTo),
			}
		}
		return database.RecordRange(spec.RecordFrom, spec.RecordTo), nil
	}
	return database.ResolvedFilter{}, &SetupError{Reason: fmt.Sprintf("unknown filter type %q", spec.Type)}
}

func (r *Runner) setStatus(jobID string, st entities.ExportStatus) {
	if err := r.status.SetStatus(jobID, st); err != nil {
		log.Printf("export %s: set status %s: %v", jobID, st, err)
	}
}
