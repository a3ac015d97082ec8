// Package items provides database operations for reading item records
// and their deletions for export.
package items

import (
	"gorm.io/gorm"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/entities"
)

// Repository reads item records for export jobs.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new items repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) filtered(f database.ResolvedFilter) *gorm.DB {
	q := r.db.Model(&entities.ItemRecord{}).
		Joins("JOIN record_metadata ON record_metadata.id = item_records.record_metadata_id").
		Where("record_metadata.deletion_date_gmt IS NULL").
		Where("item_records.is_suppressed = ?", false)

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

// Count returns how many item records match the filter.
func (r *Repository) Count(f database.ResolvedFilter) (int64, error) {
	var count int64
	err := r.filtered(f).Count(&count).Error
	return count, err
}

// GetItems loads one chunk of matching item records with the given
// association paths preloaded.
func (r *Repository) GetItems(f database.ResolvedFilter, preloads []string, offset, limit int) ([]entities.ItemRecord, error) {
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
	var items []entities.ItemRecord
	err := q.Find(&items).Error
	return items, err
}

// GetDeletions returns the record numbers of items deleted inside the
// filter's date window (all deletions when the filter has none).
func (r *Repository) GetDeletions(f database.ResolvedFilter) ([]string, error) {
	q := r.db.Model(&entities.RecordMetadata{}).
		Where("record_type_code = ?", entities.RecordTypeItem).
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
