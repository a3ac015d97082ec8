package database

import "time"

// Export filter types. A filter narrows which records a job exports;
// "last_export" is resolved to a concrete date window (from the
// previous successful run of the same job type) before it reaches a
// repository.
const (
	FilterFullExport       = "full_export"
	FilterLastExport       = "last_export"
	FilterUpdatedDateRange = "updated_date_range"
	FilterRecordRange      = "record_range"
)

// KnownFilter reports whether name is a recognized filter type.
func KnownFilter(name string) bool {
	switch name {
	case FilterFullExport, FilterLastExport, FilterUpdatedDateRange, FilterRecordRange:
		return true
	}
	return false
}

// ResolvedFilter is a filter with any indirection already resolved:
// date windows are concrete times and record ranges concrete numbers.
// Repositories only see these.
type ResolvedFilter struct {
	Type       string
	From       *time.Time
	To         *time.Time
	RecordFrom int
	RecordTo   int
}

// FullExport is the no-op filter.
func FullExport() ResolvedFilter {
	return ResolvedFilter{Type: FilterFullExport}
}

// UpdatedSince filters to records touched at or after t. This is what
// a "last_export" filter resolves to.
func UpdatedSince(t time.Time) ResolvedFilter {
	return ResolvedFilter{Type: FilterUpdatedDateRange, From: &t}
}

// UpdatedBetween filters to records touched inside [from, to].
func UpdatedBetween(from, to time.Time) ResolvedFilter {
	return ResolvedFilter{Type: FilterUpdatedDateRange, From: &from, To: &to}
}

// RecordRange filters to record numbers inside [from, to].
func RecordRange(from, to int) ResolvedFilter {
	return ResolvedFilter{Type: FilterRecordRange, RecordFrom: from, RecordTo: to}
}

// HasDateWindow reports whether the filter carries a date window that
// deletion reconciliation can reuse.
func (f ResolvedFilter) HasDateWindow() bool {
	return f.From != nil || f.To != nil
}
