package extract

import (
	"sort"

	"github.com/openlibdev/catalog-export/internal/entities"
)

// Sentinel used when an item's location row is missing from the
// lookup table.
const (
	LocationNoneCode = "none"
	LocationNoneName = "None"
)

// varfieldBuckets maps ILS varfield type codes to the named lists an
// extracted item carries.
var varfieldBuckets = []struct {
	typeCode string
	name     string
}{
	{"b", "barcodes"},
	{"v", "volumes"},
	{"m", "messages"},
	{"x", "x_notes"},
	{"n", "n_notes"},
	{"p", "public_item_notes"},
}

// CallNumber is one call number with its classification scheme.
type CallNumber struct {
	Display string
	Type    string
}

// callNumberTypes maps MARC tags of call-number varfields to scheme
// names.
var callNumberTypes = map[string]string{
	"050": "lc",
	"055": "lc",
	"090": "lc",
	"082": "dewey",
	"092": "dewey",
	"086": "sudoc",
}

// CallNumbers pulls the call numbers out of a record's varfield rows,
// in occurrence order. Subfield delimiters are flattened to spaces.
func CallNumbers(rows []entities.Varfield) []CallNumber {
	var cns []CallNumber
	for _, vf := range rows {
		if vf.VarfieldTypeCode != "c" {
			continue
		}
		cnType, ok := callNumberTypes[vf.MarcTag]
		if !ok {
			cnType = "other"
		}
		display := vf.FieldContent
		if subfields := splitSubfields(vf.FieldContent); subfields != nil {
			parts := make([]string, 0, len(subfields))
			for _, sf := range subfields {
				parts = append(parts, sf.Data)
			}
			display = joinSpace(parts)
		}
		cns = append(cns, CallNumber{Display: display, Type: cnType})
	}
	return cns
}

func joinSpace(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}

// ExtractItem flattens a loaded item record into a fixed-field map:
// call number (falling back to the first linked bib's call number),
// current checkout state, fixed attributes, and varfield content
// grouped into named buckets. A missing location lookup degrades to
// the "none" sentinel rather than an error.
func ExtractItem(item *entities.ItemRecord) FixedFields {
	fields := FixedFields{
		"record_id":         item.RecordMetadata.RecNum(),
		"date_created":      item.RecordMetadata.CreationDateGmt,
		"date_last_updated": item.RecordMetadata.RecordLastUpdatedGmt,
		"copy_number":       item.CopyNum,
		"last_checkin":      item.LastCheckinGmt,

		"gift_stats":               item.ICode1,
		"suppress_code":            item.ICode2,
		"last_checkin_stat_group":  item.CheckinStatisticsGroupCodeNum,
		"last_checkout_stat_group": item.CheckoutStatisticGroupCodeNum,
		"price":                    item.Price,
		"checkout_total":           item.CheckoutTotal,
		"last_ytd_checkout_total":  item.LastYearToDateCheckoutTotal,
		"ytd_checkout_total":       item.YearToDateCheckoutTotal,
		"internal_use_count":       item.InternalUseCount,
		"copy_use_count":           item.CopyUseCount,
		"iuse3_count":              item.Use3Count,
		"imessage_code":            item.ItemMessageCode,
		"opac_message_code":        item.OpacMessageCode,
	}
	extractItemLocation(item, fields)
	extractItemProperties(item, fields)
	extractItemCallNumber(item, fields)
	extractItemCheckout(item, fields)
	extractItemVarfields(item, fields)
	return fields
}

func extractItemLocation(item *entities.ItemRecord, fields FixedFields) {
	if item.Location == nil || item.Location.Code == "" {
		fields["location_code"] = LocationNoneCode
		fields["location_name"] = LocationNoneName
		return
	}
	fields["location_code"] = item.Location.Code
	fields["location_name"] = item.Location.Name
}

func extractItemProperties(item *entities.ItemRecord, fields FixedFields) {
	fields["status_code"] = item.ItemStatusCode
	fields["status_name"] = ""
	if item.ItemStatus != nil {
		fields["status_name"] = item.ItemStatus.Name
	}
	fields["itype_code"] = item.ItypeCodeNum
	fields["itype_name"] = ""
	if item.Itype != nil {
		fields["itype_name"] = item.Itype.Name
	}
}

// extractItemCallNumber resolves the item's call number: an
// item-level call number wins, otherwise the first one on the first
// linked bib, otherwise nil.
func extractItemCallNumber(item *entities.ItemRecord, fields FixedFields) {
	cns := CallNumbers(item.RecordMetadata.Varfields)
	if len(cns) == 0 && len(item.BibLinks) > 0 && item.BibLinks[0].BibRecord != nil {
		cns = CallNumbers(item.BibLinks[0].BibRecord.RecordMetadata.Varfields)
	}
	if len(cns) == 0 {
		fields["callnumber"] = nil
		fields["callnumber_type"] = nil
		return
	}
	fields["callnumber"] = cns[0].Display
	fields["callnumber_type"] = cns[0].Type
}

// extractItemCheckout copies the current checkout row into the map.
// An item with no active checkout still gets every checkout key, with
// nil values.
func extractItemCheckout(item *entities.ItemRecord, fields FixedFields) {
	if len(item.Checkouts) == 0 {
		for _, key := range []string{
			"due_date", "checkout_date", "overdue_date", "recall_date",
			"loan_rule", "renewal_count", "overdue_count",
		} {
			fields[key] = nil
		}
		return
	}
	co := item.Checkouts[0]
	fields["due_date"] = co.DueGmt
	fields["checkout_date"] = co.CheckoutGmt
	fields["overdue_date"] = co.OverdueGmt
	fields["recall_date"] = co.RecallGmt
	fields["loan_rule"] = co.LoanruleCodeNum
	fields["renewal_count"] = co.RenewalCount
	fields["overdue_count"] = co.OverdueCount
}

// extractItemVarfields groups the item's varfield content into named
// buckets, ordered by type code then occurrence. Every bucket is
// present even when empty.
func extractItemVarfields(item *entities.ItemRecord, fields FixedFields) {
	rows := make([]entities.Varfield, len(item.RecordMetadata.Varfields))
	copy(rows, item.RecordMetadata.Varfields)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].VarfieldTypeCode != rows[j].VarfieldTypeCode {
			return rows[i].VarfieldTypeCode < rows[j].VarfieldTypeCode
		}
		return rows[i].OccNum < rows[j].OccNum
	})
	for _, bucket := range varfieldBuckets {
		contents := []string{}
		for _, vf := range rows {
			if vf.VarfieldTypeCode == bucket.typeCode {
				contents = append(contents, vf.FieldContent)
			}
		}
		fields[bucket.name] = contents
	}
}
