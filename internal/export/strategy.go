// Package export orchestrates batched extract-transform-load jobs:
// fetch records matching a filter, convert them chunk by chunk, write
// the results to a search index sink, reconcile deletions, and record
// job status with warning and error counters. Concrete export types
// plug in through the Strategy interface; Runner owns the lifecycle.
package export

import (
	"context"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/entities"
)

// Sink is the index client surface a strategy writes to. Strategies
// never pass commit=true on individual calls; committing is the
// final callback's job.
type Sink interface {
	Add(ctx context.Context, docs []map[string]any, commit bool) error
	Delete(ctx context.Context, ids []string, commit bool) error
	Commit(ctx context.Context) error
}

// ChunkResult is what one chunk of records or deletions produces.
// RecordErrors are per-record failures that were skipped; they make
// the job finish as done_with_errors but never abort the chunk.
type ChunkResult struct {
	Vals         Vals
	RecordErrors []error
	Warnings     []string
}

// Strategy is one concrete export type: where its records come from,
// how a chunk of them is written to the sink, and how chunk results
// fold together. A Strategy must be safe to use from concurrently
// running chunks, which in practice means read-only after
// construction.
type Strategy interface {
	Name() string

	// MaxRecChunk and MaxDelChunk bound how many records and
	// deletions one chunk carries.
	MaxRecChunk() int
	MaxDelChunk() int

	// Prefetch lists the relation paths a record fetch should load
	// so conversion does not trigger per-record queries. Advisory.
	Prefetch() []string

	GetRecords(ctx context.Context, f database.ResolvedFilter, preloads []string, offset, limit int) ([]any, error)
	GetDeletions(ctx context.Context, f database.ResolvedFilter) ([]string, error)

	ExportRecords(ctx context.Context, records []any) (ChunkResult, error)
	DeleteRecords(ctx context.Context, ids []string) (ChunkResult, error)

	// CompileVals folds chunk results into the job's final vals.
	CompileVals(chunks []Vals) Vals

	// FinalCallback runs exactly once per job after every chunk has
	// completed, in practice to commit batched sink writes.
	FinalCallback(ctx context.Context, vals Vals, st entities.ExportStatus) error
}
