// Package convert turns extracted records into index-ready documents
// through two converter stages: bib+items into a normalized
// intermediate record, then intermediate into a flat Solr document.
// Each stage is driven by an ordered table mapping an output field
// name to the function that produces it; the tables are configuration
// supplied by the export job, not fixed schema.
package convert

import (
	"fmt"
	"sort"

	"github.com/openlibdev/catalog-export/internal/entities"
	"github.com/openlibdev/catalog-export/internal/extract"
)

// Input is what a first-stage field converter sees: the extracted bib
// plus, for item-table converters, one extracted item.
type Input struct {
	Bib  *extract.BibData
	Item extract.FixedFields
}

// Intermediate is the normalized record produced by stage one. Its
// key set is exactly the converter table's name set plus "items".
type Intermediate map[string]any

// FieldConverter produces one named output value from a stage-one
// input. Converters in the same table must not depend on one another;
// cross-field derivations belong in the next stage.
type FieldConverter func(Input) (any, error)

// SinkFieldConverter produces one named sink field from a completed
// intermediate record.
type SinkFieldConverter func(Intermediate) (any, error)

// Entry pairs an output field name with its converter. Tables are
// ordered so output assembly is deterministic, but entries must stay
// side-effect independent; swapping two entries may not change the
// result.
type Entry struct {
	Name    string
	Convert FieldConverter
}

type SinkEntry struct {
	Name    string
	Convert SinkFieldConverter
}

// Table and SinkTable are converter tables for the two stages.
type (
	Table     []Entry
	SinkTable []SinkEntry
)

func (t Table) convert(in Input) (map[string]any, error) {
	out := make(map[string]any, len(t))
	for _, entry := range t {
		val, err := entry.Convert(in)
		if err != nil {
			return nil, fmt.Errorf("convert field %s: %w", entry.Name, err)
		}
		out[entry.Name] = val
	}
	return out, nil
}

// BibToIntermediate is the stage-one record converter: it extracts a
// loaded bib record and its attached items and assembles the
// intermediate record.
type BibToIntermediate struct {
	bibTable  Table
	itemTable Table
}

func NewBibToIntermediate(bibTable, itemTable Table) *BibToIntermediate {
	return &BibToIntermediate{bibTable: bibTable, itemTable: itemTable}
}

// Convert runs the bib table once against the extracted bib and the
// item table once per attached item, in display order, collecting the
// item results into the "items" list. Any extraction or converter
// failure fails the whole record.
func (c *BibToIntermediate) Convert(bib *entities.BibRecord) (Intermediate, error) {
	extracted, err := extract.ExtractBib(bib)
	if err != nil {
		return nil, err
	}
	fields, err := c.bibTable.convert(Input{Bib: extracted})
	if err != nil {
		return nil, err
	}

	links := make([]entities.BibRecordItemRecordLink, len(bib.ItemLinks))
	copy(links, bib.ItemLinks)
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].ItemsDisplayOrder < links[j].ItemsDisplayOrder
	})
	items := []map[string]any{}
	for _, link := range links {
		if link.ItemRecord == nil {
			continue
		}
		extractedItem := extract.ExtractItem(link.ItemRecord)
		item, err := c.itemTable.convert(Input{Bib: extracted, Item: extractedItem})
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", link.ItemRecord.RecordMetadata.RecNum(), err)
		}
		items = append(items, item)
	}
	fields["items"] = items
	return Intermediate(fields), nil
}

// IntermediateToSolr is the stage-two record converter.
type IntermediateToSolr struct {
	table SinkTable
}

func NewIntermediateToSolr(table SinkTable) *IntermediateToSolr {
	return &IntermediateToSolr{table: table}
}

// Convert assembles the flat Solr document from an intermediate
// record.
func (c *IntermediateToSolr) Convert(rec Intermediate) (map[string]any, error) {
	out := make(map[string]any, len(c.table))
	for _, entry := range c.table {
		val, err := entry.Convert(rec)
		if err != nil {
			return nil, fmt.Errorf("convert field %s: %w", entry.Name, err)
		}
		out[entry.Name] = val
	}
	return out, nil
}
