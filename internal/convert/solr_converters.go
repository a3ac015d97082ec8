package convert

import (
	"strings"

	"github.com/openlibdev/catalog-export/internal/callnumber"
	"github.com/openlibdev/catalog-export/internal/parsers"
)

// maxPrimaryItems is how many items show up in the primary display
// list before the rest spill into the overflow list.
const maxPrimaryItems = 3

// DefaultSolrTable builds the stage-two converter table that flattens
// an intermediate record into a Solr document.
func DefaultSolrTable() SinkTable {
	return SinkTable{
		{Name: "id", Convert: SolrID},
		{Name: "title_display", Convert: TitleDisplay},
		{Name: "person_author_search_fullname_forms", Convert: PersonAuthorSearchFullnameForms},
		{Name: "person_author_search_bestname", Convert: PersonAuthorSearchBestname},
		{Name: "person_author_display", Convert: PersonAuthorDisplay},
		{Name: "person_author_facet", Convert: PersonAuthorFacet},
		{Name: "callnumbers_display", Convert: CallnumbersDisplay},
		{Name: "callnumbers_normalized", Convert: CallnumbersNormalized},
		{Name: "items_display", Convert: ItemsDisplay},
		{Name: "more_items", Convert: MoreItems},
		{Name: "has_more_items", Convert: HasMoreItems},
	}
}

func author(rec Intermediate) *parsers.PersonName {
	p, _ := rec["person_author"].(*parsers.PersonName)
	return p
}

func items(rec Intermediate) []map[string]any {
	its, _ := rec["items"].([]map[string]any)
	return its
}

func itemCallNumberDisplay(item map[string]any) string {
	cn, _ := item["callnumber"].(map[string]any)
	return stringOrEmpty(cn["display"])
}

// SinkDocID builds the stable identifier a record carries in the
// search index. Deletes address documents by this same id.
func SinkDocID(resourceType, nativeID string) string {
	return "catalog." + resourceType + "." + nativeID
}

// SolrID derives the document id from the record number.
func SolrID(rec Intermediate) (any, error) {
	return SinkDocID("bib", stringOrEmpty(rec["record_id"])), nil
}

// TitleDisplay passes the cleaned title through.
func TitleDisplay(rec Intermediate) (any, error) {
	return rec["title"], nil
}

// PersonAuthorSearchFullnameForms produces the straight, inverted,
// and full name forms for searching; empty when the bib has no
// personal author.
func PersonAuthorSearchFullnameForms(rec Intermediate) (any, error) {
	p := author(rec)
	if p == nil {
		return []string{}, nil
	}
	return []string{p.NameStraight(), p.NameInverted(), p.FullName()}, nil
}

// PersonAuthorSearchBestname picks the single best name for
// searching: the surname when there is one, otherwise the forename
// with any titles appended.
func PersonAuthorSearchBestname(rec Intermediate) (any, error) {
	p := author(rec)
	if p == nil {
		return "", nil
	}
	if p.Surname != "" {
		return p.Surname, nil
	}
	return strings.TrimSpace(p.Forename + " " + strings.Join(p.Titles, " ")), nil
}

// PersonAuthorDisplay formats the author's full name for display.
func PersonAuthorDisplay(rec Intermediate) (any, error) {
	p := author(rec)
	if p == nil {
		return "", nil
	}
	return p.FullName(), nil
}

// PersonAuthorFacet formats the author for faceting: inverted name
// with the dates in parentheses.
func PersonAuthorFacet(rec Intermediate) (any, error) {
	p := author(rec)
	if p == nil {
		return "", nil
	}
	name := p.NameInverted()
	if p.FullDates != "" {
		name += " (" + p.FullDates + ")"
	}
	return name, nil
}

// CallnumbersDisplay lists each item's display call number, with an
// empty placeholder for items that have none so positions line up
// with the item list.
func CallnumbersDisplay(rec Intermediate) (any, error) {
	callnumbers := []string{}
	for _, item := range items(rec) {
		callnumbers = append(callnumbers, itemCallNumberDisplay(item))
	}
	return callnumbers, nil
}

// CallnumbersNormalized lists each item's call number as a sortable
// key, with empty placeholders matching CallnumbersDisplay.
func CallnumbersNormalized(rec Intermediate) (any, error) {
	callnumbers := []string{}
	for _, item := range items(rec) {
		callnumbers = append(callnumbers, callnumber.ForSort(itemCallNumberDisplay(item)))
	}
	return callnumbers, nil
}

func itemDisplayEntry(item map[string]any) map[string]any {
	loc, _ := item["location"].(map[string]any)
	return map[string]any{
		"barcode":    item["barcode"],
		"volume":     item["volume"],
		"location":   loc["name"],
		"callnumber": itemCallNumberDisplay(item),
	}
}

// ItemsDisplay shows the first few items, in their original order.
func ItemsDisplay(rec Intermediate) (any, error) {
	entries := []map[string]any{}
	for i, item := range items(rec) {
		if i >= maxPrimaryItems {
			break
		}
		entries = append(entries, itemDisplayEntry(item))
	}
	return entries, nil
}

// MoreItems holds the overflow past the primary display list, in
// original order.
func MoreItems(rec Intermediate) (any, error) {
	entries := []map[string]any{}
	for i, item := range items(rec) {
		if i < maxPrimaryItems {
			continue
		}
		entries = append(entries, itemDisplayEntry(item))
	}
	return entries, nil
}

// HasMoreItems flags documents whose item list spills past the
// primary display list.
func HasMoreItems(rec Intermediate) (any, error) {
	return len(items(rec)) > maxPrimaryItems, nil
}
