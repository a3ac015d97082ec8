package convert

import (
	"strings"

	"github.com/openlibdev/catalog-export/internal/marc"
	"github.com/openlibdev/catalog-export/internal/parsers"
)

// DefaultBibTable builds the stage-one bib converter table. A fresh
// table is returned on every call so jobs never share mutable
// configuration.
func DefaultBibTable() Table {
	return Table{
		{Name: "record_id", Convert: BibRecordID},
		{Name: "title", Convert: BibTitle},
		{Name: "person_author", Convert: BibPersonAuthor},
		{Name: "contributors", Convert: BibContributors},
	}
}

// DefaultItemTable builds the stage-one item converter table.
func DefaultItemTable() Table {
	return Table{
		{Name: "barcode", Convert: ItemBarcode},
		{Name: "volume", Convert: ItemVolume},
		{Name: "location", Convert: ItemLocation},
		{Name: "callnumber", Convert: ItemCallNumber},
	}
}

// BibRecordID passes the record number through from the fixed fields.
func BibRecordID(in Input) (any, error) {
	return in.Bib.Fixed["record_id"], nil
}

// BibTitle assembles a cleaned title from the 245 field.
func BibTitle(in Input) (any, error) {
	f := in.Bib.Fields.First(marc.TagEquals("245"))
	if f == nil {
		return "", nil
	}
	raw := f.SubfieldsWhere(marc.SubTagIn("a", "b")).SubfieldsString(" ")
	return parsers.Clean(raw), nil
}

// BibPersonAuthor parses the personal author from the first 100
// field. A bib with no 100 field has no personal author; that is nil,
// not an error.
func BibPersonAuthor(in Input) (any, error) {
	f := in.Bib.Fields.First(marc.TagEquals("100"))
	if f == nil {
		return nil, nil
	}
	person := parsers.ParsePersonName(f)
	return &person, nil
}

// BibContributors lists added-entry personal names (700 fields) in
// inverted order.
func BibContributors(in Input) (any, error) {
	contributors := []map[string]any{}
	for _, f := range in.Bib.Fields.Where(marc.TagEquals("700")) {
		person := parsers.ParsePersonName(f)
		contributors = append(contributors, map[string]any{"name": person.NameInverted()})
	}
	return contributors, nil
}

// ItemBarcode returns the item's first barcode, or nil when it has
// none.
func ItemBarcode(in Input) (any, error) {
	barcodes, _ := in.Item["barcodes"].([]string)
	if len(barcodes) == 0 {
		return nil, nil
	}
	return barcodes[0], nil
}

// ItemVolume returns the item's first volume designation, or nil.
func ItemVolume(in Input) (any, error) {
	volumes, _ := in.Item["volumes"].([]string)
	if len(volumes) == 0 {
		return nil, nil
	}
	return volumes[0], nil
}

// ItemLocation returns the item's resolved location code and name.
func ItemLocation(in Input) (any, error) {
	return map[string]any{
		"code": in.Item["location_code"],
		"name": in.Item["location_name"],
	}, nil
}

// ItemCallNumber returns the item's resolved call number and scheme;
// both are nil when the item and its bib carry no call number.
func ItemCallNumber(in Input) (any, error) {
	return map[string]any{
		"display": in.Item["callnumber"],
		"type":    in.Item["callnumber_type"],
	}, nil
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
