// Package extract flattens loaded catalog records into the MARC
// fieldset and fixed-field maps the converter pipeline works on. The
// callers are responsible for preloading associations; nothing here
// touches the database.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openlibdev/catalog-export/internal/entities"
	"github.com/openlibdev/catalog-export/internal/marc"
)

// FixedFields is the flat per-record attribute map handed to field
// converters alongside the MARC fields. Values are whatever type the
// source column has; absent-but-known attributes are present with nil
// values.
type FixedFields map[string]any

// LocationInfo is one resolved location attached to a record.
type LocationInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// BibData is everything extracted from one bib record.
type BibData struct {
	Fixed  FixedFields
	Fields marc.Fieldset
}

// ExtractBib flattens a loaded bib record into MARC fields (leader,
// control fields, variable fields) and a fixed-field map. It returns
// an error when a required lookup (bib property row, language,
// country) is missing; missing locations and a missing leader row
// degrade silently.
func ExtractBib(bib *entities.BibRecord) (*BibData, error) {
	fixed, err := extractBibFixed(bib)
	if err != nil {
		return nil, err
	}
	fields := marc.Fieldset{extractLeader(bib.RecordMetadata.LeaderFields)}
	fields = append(fields, extractControlFields(bib.RecordMetadata.ControlFields)...)
	fields = append(fields, ExtractVarfields(bib.RecordMetadata.Varfields)...)
	return &BibData{Fixed: fixed, Fields: fields}, nil
}

// extractLeader builds the LDR field. Records should all carry a
// leader row, but a missing one just yields blank codes.
func extractLeader(rows []entities.LeaderField) *marc.Field {
	var ldr entities.LeaderField
	if len(rows) > 0 {
		ldr = rows[0]
	}
	data := fmt.Sprintf("#####%s%s%s%s%s22#####%s%s%s4500",
		code(ldr.RecordStatusCode),
		code(ldr.RecordTypeCode),
		code(ldr.BibLevelCode),
		code(ldr.ControlTypeCode),
		code(ldr.CharEncodingSchemeCode),
		code(ldr.EncodingLevelCode),
		code(ldr.DescriptiveCatFormCode),
		code(ldr.MultipartLevelCode))
	return &marc.Field{Tag: "LDR", Data: data}
}

func code(c string) string {
	if c == "" {
		return " "
	}
	return c
}

func extractControlFields(rows []entities.ControlField) marc.Fieldset {
	fields := make(marc.Fieldset, 0, len(rows))
	for _, cf := range rows {
		fields = append(fields, &marc.Field{
			Tag:        fmt.Sprintf("00%d", cf.ControlNum),
			Data:       cf.Content,
			Occurrence: cf.OccNum,
		})
	}
	return fields
}

// ExtractVarfields converts stored varfield rows into MARC fields.
// Fields with tags below 010 are control-like: raw data, no
// indicators, no subfields. Everything else gets its indicators and
// its field content split on "|" into subfields.
func ExtractVarfields(rows []entities.Varfield) marc.Fieldset {
	fields := make(marc.Fieldset, 0, len(rows))
	for _, vf := range rows {
		field := &marc.Field{Tag: vf.MarcTag, Occurrence: vf.OccNum}
		if n, err := strconv.Atoi(vf.MarcTag); err == nil && n < 10 {
			field.Data = vf.FieldContent
		} else {
			field.Indicators = [2]string{vf.MarcInd1, vf.MarcInd2}
			field.Subfields = splitSubfields(vf.FieldContent)
		}
		fields = append(fields, field)
	}
	return fields
}

// splitSubfields splits packed field content (|aStuff|bMore Stuff)
// into subfields. The first character after each "|" is the subfield
// tag.
func splitSubfields(content string) []*marc.Subfield {
	parts := strings.Split(content, "|")
	if len(parts) < 2 {
		return nil
	}
	subfields := make([]*marc.Subfield, 0, len(parts)-1)
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		subfields = append(subfields, &marc.Subfield{Tag: p[0:1], Data: p[1:]})
	}
	return subfields
}

func extractBibFixed(bib *entities.BibRecord) (FixedFields, error) {
	recNum := bib.RecordMetadata.RecNum()
	if len(bib.Properties) == 0 {
		return nil, fmt.Errorf("extract bib %s: no bib record property row", recNum)
	}
	if bib.Language.Code == "" {
		return nil, fmt.Errorf("extract bib %s: language %q not found", recNum, bib.LanguageCode)
	}
	if bib.Country.Code == "" {
		return nil, fmt.Errorf("extract bib %s: country %q not found", recNum, bib.CountryCode)
	}
	prop := bib.Properties[0]

	locations := make([]LocationInfo, 0, len(bib.Locations))
	for _, bl := range bib.Locations {
		if bl.Location.Code == "" {
			continue
		}
		locations = append(locations, LocationInfo{Code: bl.Location.Code, Name: bl.Location.Name})
	}

	return FixedFields{
		"record_id":         recNum,
		"date_cataloged":    bib.CatalogingDateGmt,
		"date_created":      bib.RecordMetadata.CreationDateGmt,
		"date_last_updated": bib.RecordMetadata.RecordLastUpdatedGmt,
		"bib_type_code":     prop.BibLevelCode,
		"bib_type_name":     prop.BibLevelName,
		"mat_type_code":     prop.MaterialCode,
		"mat_type_name":     prop.MaterialName,
		"language_code":     bib.Language.Code,
		"language_name":     bib.Language.Name,
		"suppress_code":     bib.BCode3,
		"country_code":      bib.Country.Code,
		"country_name":      bib.Country.Name,
		"is_suppressed":     bib.IsSuppressed,
		"locations":         locations,
	}, nil
}
