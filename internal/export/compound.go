package export

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/entities"
)

// Child is one named member of a compound export. Its strategy owns
// the sink writes; DeriveRecords maps each parent record to the
// records this child exports, and RecordKey names a derived record so
// duplicates within the child can be dropped. Deduplication is
// per-child only.
type Child struct {
	Name     string
	Strategy Strategy

	// DeriveRecords defaults to passing the parent record through
	// unchanged.
	DeriveRecords func(parent any) []any

	// RecordKey must return a stable identity for a derived record.
	RecordKey func(rec any) string

	// DeriveDeletions maps parent deletion ids to this child's
	// deletion ids. Defaults to passthrough; return nil to opt the
	// child out of deletions.
	DeriveDeletions func(ids []string) []string

	// PrefetchPrefix is prepended to the child strategy's prefetch
	// paths so the parent's single record fetch can satisfy the
	// child's data needs.
	PrefetchPrefix string
}

func (c Child) derive(parent any) []any {
	if c.DeriveRecords == nil {
		return []any{parent}
	}
	return c.DeriveRecords(parent)
}

func (c Child) deriveDeletions(ids []string) []string {
	if c.DeriveDeletions == nil {
		return ids
	}
	return c.DeriveDeletions(ids)
}

// Compound composes one parent record source with named children,
// fanning export, delete, and final-callback calls out to every child
// and keeping each child's results in its own vals namespace. One
// child failing never stops its siblings.
type Compound struct {
	name     string
	parent   Strategy
	children []Child

	prefetchOnce sync.Once
	prefetch     []string
}

func NewCompound(name string, parent Strategy, children []Child) *Compound {
	return &Compound{name: name, parent: parent, children: children}
}

func (c *Compound) Name() string {
	return c.name
}

func (c *Compound) MaxRecChunk() int {
	return c.parent.MaxRecChunk()
}

func (c *Compound) MaxDelChunk() int {
	return c.parent.MaxDelChunk()
}

// Prefetch combines the parent's hints with every child's, each child
// path prefixed with its relation path from the parent record. The
// union is computed once and cached for the job's lifetime.
func (c *Compound) Prefetch() []string {
	c.prefetchOnce.Do(func() {
		seen := map[string]bool{}
		add := func(path string) {
			if path != "" && !seen[path] {
				seen[path] = true
				c.prefetch = append(c.prefetch, path)
			}
		}
		for _, path := range c.parent.Prefetch() {
			add(path)
		}
		for _, child := range c.children {
			for _, path := range child.Strategy.Prefetch() {
				add(child.PrefetchPrefix + path)
			}
		}
	})
	return c.prefetch
}

func (c *Compound) GetRecords(ctx context.Context, f database.ResolvedFilter, preloads []string, offset, limit int) ([]any, error) {
	return c.parent.GetRecords(ctx, f, preloads, offset, limit)
}

func (c *Compound) GetDeletions(ctx context.Context, f database.ResolvedFilter) ([]string, error) {
	return c.parent.GetDeletions(ctx, f)
}

// generateRecordSets computes each child's deduplicated derived
// record set from one parent batch.
func (c *Compound) generateRecordSets(parentBatch []any) map[string][]any {
	sets := make(map[string][]any, len(c.children))
	for _, child := range c.children {
		seen := map[string]bool{}
		var derived []any
		for _, parent := range parentBatch {
			for _, rec := range child.derive(parent) {
				key := child.RecordKey(rec)
				if seen[key] {
					continue
				}
				seen[key] = true
				derived = append(derived, rec)
			}
		}
		sets[child.Name] = derived
	}
	return sets
}

// ExportRecords fans one parent chunk out to every child. Each
// child's partial result lands under its own name; a child's failure
// is recorded as a chunk error and the remaining children still run.
func (c *Compound) ExportRecords(ctx context.Context, records []any) (ChunkResult, error) {
	sets := c.generateRecordSets(records)
	out := ChunkResult{Vals: Vals{}}
	for _, child := range c.children {
		res, err := child.Strategy.ExportRecords(ctx, sets[child.Name])
		c.collectChild(child.Name, &out, res, err)
	}
	return out, nil
}

// DeleteRecords fans parent deletions out to every child that can
// derive deletion ids of its own.
func (c *Compound) DeleteRecords(ctx context.Context, ids []string) (ChunkResult, error) {
	out := ChunkResult{Vals: Vals{}}
	for _, child := range c.children {
		childIDs := child.deriveDeletions(ids)
		if len(childIDs) == 0 {
			continue
		}
		res, err := child.Strategy.DeleteRecords(ctx, childIDs)
		c.collectChild(child.Name, &out, res, err)
	}
	return out, nil
}

func (c *Compound) collectChild(name string, out *ChunkResult, res ChunkResult, err error) {
	if err != nil {
		out.RecordErrors = append(out.RecordErrors, fmt.Errorf("child %s: %w", name, err))
	}
	for _, recErr := range res.RecordErrors {
		out.RecordErrors = append(out.RecordErrors, fmt.Errorf("child %s: %w", name, recErr))
	}
	for _, warning := range res.Warnings {
		out.Warnings = append(out.Warnings, fmt.Sprintf("child %s: %s", name, warning))
	}
	if res.Vals != nil {
		out.Vals[name] = res.Vals
	}
}

// CompileVals merges per child, delegating to each child's own
// CompileVals so one child's merge behavior never touches another's
// accumulated result.
func (c *Compound) CompileVals(chunks []Vals) Vals {
	out := Vals{}
	for _, child := range c.children {
		var childChunks []Vals
		for _, chunk := range chunks {
			if v, ok := asVals(chunk[child.Name]); ok {
				childChunks = append(childChunks, v)
			}
		}
		out[child.Name] = child.Strategy.CompileVals(childChunks)
	}
	return out
}

// FinalCallback fans out to every child with that child's own merged
// vals. All children run even when one fails.
func (c *Compound) FinalCallback(ctx context.Context, vals Vals, st entities.ExportStatus) error {
	var errs []error
	for _, child := range c.children {
		childVals, _ := asVals(vals[child.Name])
		if err := child.Strategy.FinalCallback(ctx, childVals, st); err != nil {
			errs = append(errs, fmt.Errorf("child %s: %w", child.Name, err))
		}
	}
	return errors.Join(errs...)
}
