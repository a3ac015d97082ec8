package entities

import (
	"fmt"
	"time"
)

// Record type codes used in RecordMetadata rows.
const (
	RecordTypeBib  = "b"
	RecordTypeItem = "i"
)

// RecordMetadata is the one table that survives record deletion: when a
// bib or item is deleted from the ILS, its data rows go away but the
// metadata row remains with DeletionDateGmt set. Deletion reconciliation
// queries run against this table.
type RecordMetadata struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	RecordTypeCode       string     `gorm:"index;size:1" json:"record_type_code"`
	RecordNum            int        `gorm:"index" json:"record_num"`
	CreationDateGmt      time.Time  `json:"creation_date_gmt"`
	RecordLastUpdatedGmt time.Time  `gorm:"index" json:"record_last_updated_gmt"`
	DeletionDateGmt      *time.Time `gorm:"index" json:"deletion_date_gmt,omitempty"`

	LeaderFields  []LeaderField  `gorm:"foreignKey:RecordMetadataID" json:"leader_fields,omitempty"`
	ControlFields []ControlField `gorm:"foreignKey:RecordMetadataID" json:"control_fields,omitempty"`
	Varfields     []Varfield     `gorm:"foreignKey:RecordMetadataID" json:"varfields,omitempty"`
}

// TableName keeps the table singular; "metadata" does not pluralize.
func (RecordMetadata) TableName() string {
	return "record_metadata"
}

// RecNum returns the ILS-style record number, e.g. "b1234567".
func (rm *RecordMetadata) RecNum() string {
	return fmt.Sprintf("%s%d", rm.RecordTypeCode, rm.RecordNum)
}

// LeaderField holds the positional codes used to build a MARC leader.
type LeaderField struct {
	ID                     uint   `gorm:"primaryKey" json:"id"`
	RecordMetadataID       uint   `gorm:"index" json:"record_metadata_id"`
	RecordStatusCode       string `gorm:"size:1" json:"record_status_code"`
	RecordTypeCode         string `gorm:"size:1" json:"record_type_code"`
	BibLevelCode           string `gorm:"size:1" json:"bib_level_code"`
	ControlTypeCode        string `gorm:"size:1" json:"control_type_code"`
	CharEncodingSchemeCode string `gorm:"size:1" json:"char_encoding_scheme_code"`
	EncodingLevelCode      string `gorm:"size:1" json:"encoding_level_code"`
	DescriptiveCatFormCode string `gorm:"size:1" json:"descriptive_cat_form_code"`
	MultipartLevelCode     string `gorm:"size:1" json:"multipart_level_code"`
}

// ControlField stores MARC 006/007/008 data; the stored ControlNum is
// the final digit of the tag.
type ControlField struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	RecordMetadataID uint   `gorm:"index" json:"record_metadata_id"`
	ControlNum       int    `json:"control_num"`
	Content          string `gorm:"size:40" json:"content"`
	OccNum           int    `json:"occ_num"`
}

// Varfield stores variable-length field content. MARC subfields are
// packed into FieldContent with "|" delimiters (|aTitle|bRemainder).
// VarfieldTypeCode is the ILS-side grouping tag (b = barcode, v =
// volume, c = call number, and so on).
type Varfield struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	RecordMetadataID uint   `gorm:"index" json:"record_metadata_id"`
	VarfieldTypeCode string `gorm:"index;size:1" json:"varfield_type_code"`
	MarcTag          string `gorm:"size:3" json:"marc_tag"`
	MarcInd1         string `gorm:"size:1" json:"marc_ind1"`
	MarcInd2         string `gorm:"size:1" json:"marc_ind2"`
	FieldContent     string `gorm:"type:text" json:"field_content"`
	OccNum           int    `json:"occ_num"`
}

// Location, Language and Country are lookup tables; their display names
// are stored inline rather than in per-language name tables.
type Location struct {
	Code string `gorm:"primaryKey;size:5" json:"code"`
	Name string `gorm:"size:255" json:"name"`
}

type Language struct {
	Code string `gorm:"primaryKey;size:3" json:"code"`
	Name string `gorm:"size:100" json:"name"`
}

type Country struct {
	Code string `gorm:"primaryKey;size:3" json:"code"`
	Name string `gorm:"size:100" json:"name"`
}

// BibRecord is the primary bibliographic record row.
type BibRecord struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	RecordMetadataID   uint       `gorm:"uniqueIndex" json:"record_metadata_id"`
	LanguageCode       string     `gorm:"size:3" json:"language_code"`
	CountryCode        string     `gorm:"size:3" json:"country_code"`
	BCode3             string     `gorm:"size:1" json:"bcode3"`
	IsSuppressed       bool       `gorm:"index" json:"is_suppressed"`
	CatalogingDateGmt  *time.Time `json:"cataloging_date_gmt,omitempty"`

	RecordMetadata RecordMetadata      `gorm:"foreignKey:RecordMetadataID" json:"record_metadata,omitempty"`
	Language       Language            `gorm:"foreignKey:LanguageCode" json:"language,omitempty"`
	Country        Country             `gorm:"foreignKey:CountryCode" json:"country,omitempty"`
	Properties     []BibRecordProperty `gorm:"foreignKey:BibRecordID" json:"properties,omitempty"`
	Locations      []BibRecordLocation `gorm:"foreignKey:BibRecordID" json:"locations,omitempty"`
	ItemLinks      []BibRecordItemRecordLink `gorm:"foreignKey:BibRecordID" json:"item_links,omitempty"`
}

// BibRecordProperty carries per-bib typed attributes (bib level and
// material type, each as code + display name).
type BibRecordProperty struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BibRecordID  uint   `gorm:"index" json:"bib_record_id"`
	BibLevelCode string `gorm:"size:1" json:"bib_level_code"`
	BibLevelName string `gorm:"size:100" json:"bib_level_name"`
	MaterialCode string `gorm:"size:1" json:"material_code"`
	MaterialName string `gorm:"size:100" json:"material_name"`
}

// BibRecordLocation joins bibs to their locations, ordered for display.
type BibRecordLocation struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BibRecordID  uint   `gorm:"index" json:"bib_record_id"`
	LocationCode string `gorm:"size:5" json:"location_code"`
	DisplayOrder int    `json:"display_order"`

	Location Location `gorm:"foreignKey:LocationCode" json:"location,omitempty"`
}

// BibRecordItemRecordLink attaches item records to bib records.
type BibRecordItemRecordLink struct {
	ID                uint `gorm:"primaryKey" json:"id"`
	BibRecordID       uint `gorm:"index" json:"bib_record_id"`
	ItemRecordID      uint `gorm:"index" json:"item_record_id"`
	ItemsDisplayOrder int  `json:"items_display_order"`

	BibRecord  *BibRecord  `gorm:"foreignKey:BibRecordID" json:"bib_record,omitempty"`
	ItemRecord *ItemRecord `gorm:"foreignKey:ItemRecordID" json:"item_record,omitempty"`
}

// ItypeProperty and ItemStatusProperty are item lookup tables.
type ItypeProperty struct {
	CodeNum int    `gorm:"primaryKey" json:"code_num"`
	Name    string `gorm:"size:100" json:"name"`
}

type ItemStatusProperty struct {
	Code string `gorm:"primaryKey;size:1" json:"code"`
	Name string `gorm:"size:100" json:"name"`
}

// ItemRecord is the item (holdings copy) record row.
type ItemRecord struct {
	ID                            uint       `gorm:"primaryKey" json:"id"`
	RecordMetadataID              uint       `gorm:"uniqueIndex" json:"record_metadata_id"`
	LocationCode                  string     `gorm:"size:5" json:"location_code"`
	ItypeCodeNum                  int        `json:"itype_code_num"`
	ItemStatusCode                string     `gorm:"size:1" json:"item_status_code"`
	CopyNum                       int        `json:"copy_num"`
	LastCheckinGmt                *time.Time `json:"last_checkin_gmt,omitempty"`
	ICode1                        int        `json:"icode1"`
	ICode2                        string     `gorm:"size:1" json:"icode2"`
	CheckinStatisticsGroupCodeNum int        `json:"checkin_statistics_group_code_num"`
	CheckoutStatisticGroupCodeNum int        `json:"checkout_statistic_group_code_num"`
	Price                         float64    `json:"price"`
	CheckoutTotal                 int        `json:"checkout_total"`
	LastYearToDateCheckoutTotal   int        `json:"last_year_to_date_checkout_total"`
	YearToDateCheckoutTotal       int        `json:"year_to_date_checkout_total"`
	InternalUseCount              int        `json:"internal_use_count"`
	CopyUseCount                  int        `json:"copy_use_count"`
	Use3Count                     int        `json:"use3_count"`
	ItemMessageCode               string     `gorm:"size:1" json:"item_message_code"`
	OpacMessageCode               string     `gorm:"size:1" json:"opac_message_code"`
	IsSuppressed                  bool       `gorm:"index" json:"is_suppressed"`

	RecordMetadata RecordMetadata      `gorm:"foreignKey:RecordMetadataID" json:"record_metadata,omitempty"`
	Location       *Location           `gorm:"foreignKey:LocationCode" json:"location,omitempty"`
	Itype          *ItypeProperty      `gorm:"foreignKey:ItypeCodeNum" json:"itype,omitempty"`
	ItemStatus     *ItemStatusProperty `gorm:"foreignKey:ItemStatusCode" json:"item_status,omitempty"`
	Checkouts      []Checkout          `gorm:"foreignKey:ItemRecordID" json:"checkouts,omitempty"`
	BibLinks       []BibRecordItemRecordLink `gorm:"foreignKey:ItemRecordID" json:"bib_links,omitempty"`
}

// Checkout is the active circulation row for an item; at most one per
// item in practice.
type Checkout struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ItemRecordID    uint       `gorm:"index" json:"item_record_id"`
	CheckoutGmt     *time.Time `json:"checkout_gmt,omitempty"`
	DueGmt          *time.Time `json:"due_gmt,omitempty"`
	OverdueGmt      *time.Time `json:"overdue_gmt,omitempty"`
	RecallGmt       *time.Time `json:"recall_gmt,omitempty"`
	LoanruleCodeNum int        `json:"loanrule_code_num"`
	RenewalCount    int        `json:"renewal_count"`
	OverdueCount    int        `json:"overdue_count"`
}
