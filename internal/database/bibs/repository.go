// Package bibs provides database operations for reading bib records
// and their deletions for export.
package bibs

import (
	"gorm.io/gorm"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/entities"
)

// Repository reads bib records for export jobs.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bibs repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// filtered builds the base query: live, unsuppressed bib records
// joined to their metadata, narrowed by the resolved filter, ordered
// by record number for stable chunking.
func (r *Repository) filtered(f database.ResolvedFilter) *gorm.DB {
	q := r.db.Model(&entities.BibRecord{}).
		Joins("JOIN record_metadata ON record_metadata.id = bib_records.record_metadata_id").
		Where("record_metadata.deletion_date_gmt IS NULL").
		Where("bib_records.is_suppressed = ?", false)

	switch f.Type {
	case database.FilterUpdatedDateRange:
		if f.From != nil {
			q = q.Where("record_metadata.record_last_updated_gmt >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("record_metadata.record_last_updated_gmt <= ?", *f.To)
		}
	case database.FilterRecordRange:
		q = q.Where("record_metadata.record_num BETWEEN ? AND ?", f.RecordFrom, f.RecordTo)
	}
	return q.Order("record_metadata.record_num ASC")
}

// Count returns how many bib records match the filter.
func (r *Repository) Count(f database.ResolvedFilter) (int64, error) {
	var count int64
	err := r.filtered(f).Count(&count).Error
	return count, err
}

// GetBibs loads one chunk of matching bib records with the given
// association paths preloaded.
func (r *Repository) GetBibs(f database.ResolvedFilter, preloads []string, offset, limit int) ([]entities.BibRecord, error) {
	q := r.filtered(f)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var bibs []entities.BibRecord
	err := q.Find(&bibs).Error
	return bibs, err
}

// GetDeletions returns the record numbers of bibs deleted inside the
// filter's date window (all deletions when the filter has none).
func (r *Repository) GetDeletions(f database.ResolvedFilter) ([]string, error) {
	q := r.db.Model(&entities.RecordMetadata{}).
		Where("record_type_code = ?", entities.RecordTypeBib).
		Where("deletion_date_gmt IS NOT NULL")
	if f.From != nil {
		q = q.Where("deletion_date_gmt >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("deletion_date_gmt <= ?", *f.To)
	}

	var rows []entities.RecordMetadata
	if err := q.Order("record_num ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	recNums := make([]string, 0, len(rows))
	for i := range rows {
		recNums = append(recNums, rows[i].RecNum())
	}
	return recNums, nil
}
