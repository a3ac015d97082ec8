package export

import (
	"context"
	"fmt"

	"github.com/openlibdev/catalog-export/internal/convert"
	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/database/bibs"
	"github.com/openlibdev/catalog-export/internal/database/items"
	"github.com/openlibdev/catalog-export/internal/entities"
	"github.com/openlibdev/catalog-export/internal/extract"
)

// Export type names, as stored on status rows and used to trigger
// jobs.
const (
	TypeBibsToSolr            = "bibs_to_solr"
	TypeItemsToSolr           = "items_to_solr"
	TypeBibsAndAttachedToSolr = "bibs_and_attached_to_solr"
)

const (
	defaultMaxRecChunk = 500
	defaultMaxDelChunk = 1000
)

// bibPrefetchPaths returns a fresh list of the relations a bib
// conversion touches. Fresh per call so no two jobs share the slice.
func bibPrefetchPaths() []string {
	return []string{
		"RecordMetadata.LeaderFields",
		"RecordMetadata.ControlFields",
		"RecordMetadata.Varfields",
		"Language",
		"Country",
		"Properties",
		"Locations.Location",
		"ItemLinks.ItemRecord.RecordMetadata.Varfields",
		"ItemLinks.ItemRecord.Location",
		"ItemLinks.ItemRecord.ItemStatus",
		"ItemLinks.ItemRecord.Itype",
		"ItemLinks.ItemRecord.Checkouts",
	}
}

func itemPrefetchPaths() []string {
	return []string{
		"RecordMetadata.Varfields",
		"Location",
		"ItemStatus",
		"Itype",
		"Checkouts",
		"BibLinks.BibRecord.RecordMetadata.Varfields",
	}
}

// BibsToSolr exports bib records, with their attached items inlined,
// as Solr documents.
type BibsToSolr struct {
	repo     *bibs.Repository
	sink     Sink
	stage1   *convert.BibToIntermediate
	stage2   *convert.IntermediateToSolr
	maxRec   int
	maxDel   int
	prefetch []string
}

func NewBibsToSolr(repo *bibs.Repository, sink Sink) *BibsToSolr {
	return &BibsToSolr{
		repo:     repo,
		sink:     sink,
		stage1:   convert.NewBibToIntermediate(convert.DefaultBibTable(), convert.DefaultItemTable()),
		stage2:   convert.NewIntermediateToSolr(convert.DefaultSolrTable()),
		maxRec:   defaultMaxRecChunk,
		maxDel:   defaultMaxDelChunk,
		prefetch: bibPrefetchPaths(),
	}
}

func (s *BibsToSolr) Name() string       { return TypeBibsToSolr }
func (s *BibsToSolr) MaxRecChunk() int   { return s.maxRec }
func (s *BibsToSolr) MaxDelChunk() int   { return s.maxDel }
func (s *BibsToSolr) Prefetch() []string { return s.prefetch }

func (s *BibsToSolr) GetRecords(ctx context.Context, f database.ResolvedFilter, preloads []string, offset, limit int) ([]any, error) {
	recs, err := s.repo.GetBibs(f, preloads, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(recs))
	for i := range recs {
		out = append(out, &recs[i])
	}
	return out, nil
}

// GetDeletions reconciles deletions only for date-windowed filters; a
// full or record-range export rebuilds the index rather than pruning
// it.
func (s *BibsToSolr) GetDeletions(ctx context.Context, f database.ResolvedFilter) ([]string, error) {
	if !f.HasDateWindow() {
		return nil, nil
	}
	return s.repo.GetDeletions(f)
}

func (s *BibsToSolr) ExportRecords(ctx context.Context, records []any) (ChunkResult, error) {
	res := ChunkResult{Vals: Vals{}}
	docs := make([]map[string]any, 0, len(records))
	var updated []string
	for _, rec := range records {
		bib, ok := rec.(*entities.BibRecord)
		if !ok {
			res.RecordErrors = append(res.RecordErrors, fmt.Errorf("unexpected bib record type %T", rec))
			continue
		}
		recNum := bib.RecordMetadata.RecNum()
		intermediate, err := s.stage1.Convert(bib)
		if err != nil {
			res.RecordErrors = append(res.RecordErrors, &ConversionError{RecordID: recNum, Err: err})
			continue
		}
		doc, err := s.stage2.Convert(intermediate)
		if err != nil {
			res.RecordErrors = append(res.RecordErrors, &ConversionError{RecordID: recNum, Err: err})
			continue
		}
		docs = append(docs, doc)
		updated = append(updated, recNum)
	}
	if len(docs) > 0 {
		if err := s.sink.Add(ctx, docs, false); err != nil {
			return res, &SinkWriteError{Op: "add", Err: err}
		}
	}
	res.Vals["updated"] = updated
	return res, nil
}

func (s *BibsToSolr) DeleteRecords(ctx context.Context, ids []string) (ChunkResult, error) {
	return deleteFromSink(ctx, s.sink, "bib", ids)
}

func (s *BibsToSolr) CompileVals(chunks []Vals) Vals {
	return MergeAll(chunks)
}

func (s *BibsToSolr) FinalCallback(ctx context.Context, vals Vals, st entities.ExportStatus) error {
	return commitSink(ctx, s.sink)
}

// ItemsToSolr exports item records as documents of their own.
type ItemsToSolr struct {
	repo     *items.Repository
	sink     Sink
	conv     *convert.IntermediateToSolr
	maxRec   int
	maxDel   int
	prefetch []string
}

func NewItemsToSolr(repo *items.Repository, sink Sink) *ItemsToSolr {
	return &ItemsToSolr{
		repo:     repo,
		sink:     sink,
		conv:     convert.NewIntermediateToSolr(convert.DefaultItemSolrTable()),
		maxRec:   defaultMaxRecChunk,
		maxDel:   defaultMaxDelChunk,
		prefetch: itemPrefetchPaths(),
	}
}

func (s *ItemsToSolr) Name() string       { return TypeItemsToSolr }
func (s *ItemsToSolr) MaxRecChunk() int   { return s.maxRec }
func (s *ItemsToSolr) MaxDelChunk() int   { return s.maxDel }
func (s *ItemsToSolr) Prefetch() []string { return s.prefetch }

func (s *ItemsToSolr) GetRecords(ctx context.Context, f database.ResolvedFilter, preloads []string, offset, limit int) ([]any, error) {
	recs, err := s.repo.GetItems(f, preloads, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(recs))
	for i := range recs {
		out = append(out, &recs[i])
	}
	return out, nil
}

func (s *ItemsToSolr) GetDeletions(ctx context.Context, f database.ResolvedFilter) ([]string, error) {
	if !f.HasDateWindow() {
		return nil, nil
	}
	return s.repo.GetDeletions(f)
}

func (s *ItemsToSolr) ExportRecords(ctx context.Context, records []any) (ChunkResult, error) {
	res := ChunkResult{Vals: Vals{}}
	docs := make([]map[string]any, 0, len(records))
	var updated []string
	for _, rec := range records {
		item, ok := rec.(*entities.ItemRecord)
		if !ok {
			res.RecordErrors = append(res.RecordErrors, fmt.Errorf("unexpected item record type %T", rec))
			continue
		}
		recNum := item.RecordMetadata.RecNum()
		doc, err := s.conv.Convert(convert.Intermediate(extract.ExtractItem(item)))
		if err != nil {
			res.RecordErrors = append(res.RecordErrors, &ConversionError{RecordID: recNum, Err: err})
			continue
		}
		docs = append(docs, doc)
		updated = append(updated, recNum)
	}
	if len(docs) > 0 {
		if err := s.sink.Add(ctx, docs, false); err != nil {
			return res, &SinkWriteError{Op: "add", Err: err}
		}
	}
	res.Vals["updated"] = updated
	return res, nil
}

func (s *ItemsToSolr) DeleteRecords(ctx context.Context, ids []string) (ChunkResult, error) {
	return deleteFromSink(ctx, s.sink, "item", ids)
}

func (s *ItemsToSolr) CompileVals(chunks []Vals) Vals {
	return MergeAll(chunks)
}

func (s *ItemsToSolr) FinalCallback(ctx context.Context, vals Vals, st entities.ExportStatus) error {
	return commitSink(ctx, s.sink)
}

// NewBibsAndAttachedToSolr builds the compound export: one bib fetch
// feeds both the bib index and, through the attached-items
// derivation, the item index. Deleted bibs carry no item links
// anymore, so the items child opts out of deletions; the standalone
// item export reconciles those.
func NewBibsAndAttachedToSolr(bibRepo *bibs.Repository, itemRepo *items.Repository, bibSink, itemSink Sink) *Compound {
	parent := NewBibsToSolr(bibRepo, bibSink)
	return NewCompound(TypeBibsAndAttachedToSolr, parent, []Child{
		{
			Name:      "bibs",
			Strategy:  parent,
			RecordKey: bibRecordKey,
		},
		{
			Name:            "items",
			Strategy:        NewItemsToSolr(itemRepo, itemSink),
			DeriveRecords:   deriveAttachedItems,
			RecordKey:       itemRecordKey,
			DeriveDeletions: func([]string) []string { return nil },
			PrefetchPrefix:  "ItemLinks.ItemRecord.",
		},
	})
}

func bibRecordKey(rec any) string {
	bib, ok := rec.(*entities.BibRecord)
	if !ok {
		return fmt.Sprintf("%v", rec)
	}
	return bib.RecordMetadata.RecNum()
}

func itemRecordKey(rec any) string {
	item, ok := rec.(*entities.ItemRecord)
	if !ok {
		return fmt.Sprintf("%v", rec)
	}
	return item.RecordMetadata.RecNum()
}

func deriveAttachedItems(parent any) []any {
	bib, ok := parent.(*entities.BibRecord)
	if !ok {
		return nil
	}
	var out []any
	for i := range bib.ItemLinks {
		if bib.ItemLinks[i].ItemRecord != nil {
			out = append(out, bib.ItemLinks[i].ItemRecord)
		}
	}
	return out
}

func deleteFromSink(ctx context.Context, sink Sink, resourceType string, ids []string) (ChunkResult, error) {
	res := ChunkResult{Vals: Vals{}}
	docIDs := make([]string, len(ids))
	for i, id := range ids {
		docIDs[i] = convert.SinkDocID(resourceType, id)
	}
	if err := sink.Delete(ctx, docIDs, false); err != nil {
		return res, &SinkWriteError{Op: "delete", Err: err}
	}
	res.Vals["deleted"] = append([]string{}, ids...)
	return res, nil
}

func commitSink(ctx context.Context, sink Sink) error {
	if err := sink.Commit(ctx); err != nil {
		return &SinkWriteError{Op: "commit", Err: err}
	}
	return nil
}
