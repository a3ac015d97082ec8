package convert

import (
	"github.com/openlibdev/catalog-export/internal/callnumber"
)

// DefaultItemSolrTable builds the converter table that flattens an
// extracted item's fixed fields into a Solr document for the item
// index.
func DefaultItemSolrTable() SinkTable {
	return SinkTable{
		{Name: "id", Convert: ItemSolrID},
		{Name: "record_id", Convert: itemKey("record_id")},
		{Name: "barcode", Convert: ItemSolrBarcode},
		{Name: "location_code", Convert: itemKey("location_code")},
		{Name: "location_name", Convert: itemKey("location_name")},
		{Name: "status_code", Convert: itemKey("status_code")},
		{Name: "status_name", Convert: itemKey("status_name")},
		{Name: "itype_name", Convert: itemKey("itype_name")},
		{Name: "callnumber_display", Convert: itemKey("callnumber")},
		{Name: "callnumber_type", Convert: itemKey("callnumber_type")},
		{Name: "callnumber_normalized", Convert: ItemSolrCallnumberNormalized},
		{Name: "volumes", Convert: itemKey("volumes")},
		{Name: "public_notes", Convert: itemKey("public_item_notes")},
		{Name: "due_date", Convert: itemKey("due_date")},
		{Name: "copy_number", Convert: itemKey("copy_number")},
	}
}

func itemKey(key string) SinkFieldConverter {
	return func(rec Intermediate) (any, error) {
		return rec[key], nil
	}
}

// ItemSolrID derives the document id from the item record number.
func ItemSolrID(rec Intermediate) (any, error) {
	return SinkDocID("item", stringOrEmpty(rec["record_id"])), nil
}

// ItemSolrBarcode picks the first barcode bucket entry, nil when the
// item has none.
func ItemSolrBarcode(rec Intermediate) (any, error) {
	barcodes, _ := rec["barcodes"].([]string)
	if len(barcodes) == 0 {
		return nil, nil
	}
	return barcodes[0], nil
}

// ItemSolrCallnumberNormalized turns the display call number into a
// sortable key; items without a call number sort to the front.
func ItemSolrCallnumberNormalized(rec Intermediate) (any, error) {
	return callnumber.ForSort(stringOrEmpty(rec["callnumber"])), nil
}
