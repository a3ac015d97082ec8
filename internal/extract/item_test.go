package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openlibdev/catalog-export/internal/entities"
)

func makeTestItem() *entities.ItemRecord {
	return &entities.ItemRecord{
		LocationCode:   "w4m",
		ItypeCodeNum:   1,
		ItemStatusCode: "-",
		CopyNum:        1,
		Price:          24.95,
		CheckoutTotal:  12,
		RecordMetadata: entities.RecordMetadata{
			RecordTypeCode: entities.RecordTypeItem,
			RecordNum:      2345678,
			Varfields: []entities.Varfield{
				{VarfieldTypeCode: "c", MarcTag: "090", FieldContent: "|aPR4359|b.A1 2019"},
				{VarfieldTypeCode: "b", FieldContent: "1002012345678", OccNum: 0},
				{VarfieldTypeCode: "b", FieldContent: "1002087654321", OccNum: 1},
				{VarfieldTypeCode: "v", FieldContent: "v.2", OccNum: 0},
			},
		},
		Location:   &entities.Location{Code: "w4m", Name: "Willis Library"},
		Itype:      &entities.ItypeProperty{CodeNum: 1, Name: "Circulating"},
		ItemStatus: &entities.ItemStatusProperty{Code: "-", Name: "Available"},
	}
}

func TestExtractItemFixedAttributes(t *testing.T) {
	fields := ExtractItem(makeTestItem())
	assert.Equal(t, "i2345678", fields["record_id"])
	assert.Equal(t, "w4m", fields["location_code"])
	assert.Equal(t, "Willis Library", fields["location_name"])
	assert.Equal(t, "-", fields["status_code"])
	assert.Equal(t, "Available", fields["status_name"])
	assert.Equal(t, 1, fields["itype_code"])
	assert.Equal(t, "Circulating", fields["itype_name"])
	assert.Equal(t, 24.95, fields["price"])
}

func TestExtractItemLocationSentinel(t *testing.T) {
	item := makeTestItem()
	item.Location = nil
	fields := ExtractItem(item)
	assert.Equal(t, "none", fields["location_code"])
	assert.Equal(t, "None", fields["location_name"])
}

func TestExtractItemCallNumberFromItem(t *testing.T) {
	fields := ExtractItem(makeTestItem())
	assert.Equal(t, "PR4359 .A1 2019", fields["callnumber"])
	assert.Equal(t, "lc", fields["callnumber_type"])
}

func TestExtractItemCallNumberBibFallback(t *testing.T) {
	item := makeTestItem()
	item.RecordMetadata.Varfields = nil
	item.BibLinks = []entities.BibRecordItemRecordLink{{
		BibRecord: &entities.BibRecord{
			RecordMetadata: entities.RecordMetadata{
				Varfields: []entities.Varfield{
					{VarfieldTypeCode: "c", MarcTag: "092", FieldContent: "|a821.7|bB996c"},
				},
			},
		},
	}}
	fields := ExtractItem(item)
	assert.Equal(t, "821.7 B996c", fields["callnumber"])
	assert.Equal(t, "dewey", fields["callnumber_type"])
}

func TestExtractItemCallNumberAbsent(t *testing.T) {
	item := makeTestItem()
	item.RecordMetadata.Varfields = nil
	fields := ExtractItem(item)
	assert.Contains(t, fields, "callnumber")
	assert.Nil(t, fields["callnumber"])
	assert.Nil(t, fields["callnumber_type"])
}

func TestExtractItemCheckout(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	item := makeTestItem()
	item.Checkouts = []entities.Checkout{{
		CheckoutGmt:     &out,
		DueGmt:          &due,
		LoanruleCodeNum: 3,
		RenewalCount:    1,
	}}
	fields := ExtractItem(item)
	assert.Equal(t, &due, fields["due_date"])
	assert.Equal(t, &out, fields["checkout_date"])
	assert.Equal(t, 3, fields["loan_rule"])
	assert.Equal(t, 1, fields["renewal_count"])
}

func TestExtractItemNoCheckoutKeepsKeys(t *testing.T) {
	fields := ExtractItem(makeTestItem())
	for _, key := range []string{"due_date", "checkout_date", "overdue_date",
		"recall_date", "loan_rule", "renewal_count", "overdue_count"} {
		assert.Contains(t, fields, key)
		assert.Nil(t, fields[key])
	}
}

func TestExtractItemVarfieldBuckets(t *testing.T) {
	fields := ExtractItem(makeTestItem())
	assert.Equal(t, []string{"1002012345678", "1002087654321"}, fields["barcodes"])
	assert.Equal(t, []string{"v.2"}, fields["volumes"])
	assert.Equal(t, []string{}, fields["messages"])
	assert.Equal(t, []string{}, fields["x_notes"])
	assert.Equal(t, []string{}, fields["n_notes"])
	assert.Equal(t, []string{}, fields["public_item_notes"])
}
