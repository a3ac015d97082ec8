// Command seed_demo creates a demo catalog database with sample
// records built from public domain books.
// Usage: go run cmd/seed_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/entities"
)

const defaultDemoDatabasePath = "./demo/catalog.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Seeding demo catalog at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	seedLookups(db)

	for _, cfg := range demoBibs() {
		if err := seedBib(db, cfg); err != nil {
			log.Printf("Failed to seed bib %d: %v", cfg.RecordNum, err)
			continue
		}
		log.Printf("Seeded: b%d %q (%d items)", cfg.RecordNum, cfg.Title, len(cfg.Items))
	}

	seedDeletedBib(db, 1000999)

	log.Println("Demo catalog seeded successfully!")
}

func seedLookups(db *database.Database) {
	languages := []entities.Language{
		{Code: "eng", Name: "English"},
		{Code: "grc", Name: "Greek, Ancient"},
		{Code: "lat", Name: "Latin"},
	}
	countries := []entities.Country{
		{Code: "xxu", Name: "United States"},
		{Code: "enk", Name: "England"},
		{Code: "gr ", Name: "Greece"},
	}
	locations := []entities.Location{
		{Code: "w4m", Name: "Willis Library"},
		{Code: "sdus", Name: "Sycamore Stacks"},
		{Code: "xdoc", Name: "Government Documents"},
	}
	itypes := []entities.ItypeProperty{
		{CodeNum: 1, Name: "Book"},
		{CodeNum: 7, Name: "Serial"},
	}
	statuses := []entities.ItemStatusProperty{
		{Code: "-", Name: "AVAILABLE"},
		{Code: "w", Name: "WITHDRAWN"},
	}

	for _, l := range languages {
		db.DB.Create(&l)
	}
	for _, c := range countries {
		db.DB.Create(&c)
	}
	for _, l := range locations {
		db.DB.Create(&l)
	}
	for _, it := range itypes {
		db.DB.Create(&it)
	}
	for _, s := range statuses {
		db.DB.Create(&s)
	}
}

// demoItem is one attached item in compact form.
type demoItem struct {
	RecordNum  int
	Barcode    string
	Volume     string
	Location   string
	CheckedOut bool
}

// demoBib is a complete sample record in compact form.
type demoBib struct {
	RecordNum  int
	Title      string // packed 245 content, |a... style
	Author     string // packed 100 content, empty for none
	Imprint    string
	CallNumber string // packed 090/092 content
	CallTag    string
	Language   string
	Country    string
	Locations  []string
	Items      []demoItem
}

func demoBibs() []demoBib {
	return []demoBib{
		{
			RecordNum:  1000001,
			Title:      "|aMeditations /|cMarcus Aurelius ; translated by George Long.",
			Author:     "|aMarcus Aurelius,|cEmperor of Rome,|d121-180.",
			Imprint:    "|aLondon :|bBlackie,|c1910.",
			CallNumber: "|aB580 .L66|b1910",
			CallTag:    "090",
			Language:   "eng",
			Country:    "enk",
			Locations:  []string{"w4m"},
			Items: []demoItem{
				{RecordNum: 4000001, Barcode: "1002078894", Location: "w4m"},
				{RecordNum: 4000002, Barcode: "1002078895", Location: "sdus", CheckedOut: true},
			},
		},
		{
			RecordNum:  1000002,
			Title:      "|aChilde Harold's pilgrimage /|cLord Byron.",
			Author:     "|aByron, George Gordon Byron,|cBaron,|d1788-1824.",
			Imprint:    "|aLondon :|bJohn Murray,|c1812.",
			CallNumber: "|aPR4359 .A1|b1812",
			CallTag:    "090",
			Language:   "eng",
			Country:    "enk",
			Locations:  []string{"w4m", "sdus"},
			Items: []demoItem{
				{RecordNum: 4000003, Barcode: "1002078896", Volume: "v.1", Location: "w4m"},
				{RecordNum: 4000004, Barcode: "1002078897", Volume: "v.2", Location: "w4m"},
				{RecordNum: 4000005, Barcode: "1002078898", Volume: "v.3", Location: "w4m"},
				{RecordNum: 4000006, Barcode: "1002078899", Volume: "v.4", Location: "sdus"},
			},
		},
		{
			RecordNum:  1000003,
			Title:      "|aOn the origin of species by means of natural selection.",
			Author:     "|aDarwin, Charles,|d1809-1882.",
			Imprint:    "|aNew York :|bD. Appleton,|c1860.",
			CallNumber: "|a576.82 D225o",
			CallTag:    "092",
			Language:   "eng",
			Country:    "xxu",
			Locations:  []string{"sdus"},
			Items: []demoItem{
				{RecordNum: 4000007, Barcode: "1002078900", Location: "sdus"},
			},
		},
		{
			// No 100 field; mirrors records cataloged under title only.
			RecordNum: 1000004,
			Title:     "|aAnonymous tracts on the liberty of the press.",
			Imprint:   "|aLondon :|bs.n.,|c1712.",
			Language:  "eng",
			Country:   "enk",
			Locations: []string{"xdoc"},
			Items:     []demoItem{},
		},
	}
}

func seedBib(db *database.Database, cfg demoBib) error {
	now := time.Now().UTC()

	metadata := entities.RecordMetadata{
		RecordTypeCode:       entities.RecordTypeBib,
		RecordNum:            cfg.RecordNum,
		CreationDateGmt:      now.AddDate(0, -6, 0),
		RecordLastUpdatedGmt: now,
	}
	if err := db.DB.Create(&metadata).Error; err != nil {
		return err
	}

	leader := entities.LeaderField{
		RecordMetadataID:       metadata.ID,
		RecordStatusCode:       "c",
		RecordTypeCode:         "a",
		BibLevelCode:           "m",
		CharEncodingSchemeCode: " ",
		DescriptiveCatFormCode: "a",
	}
	if err := db.DB.Create(&leader).Error; err != nil {
		return err
	}
	control := entities.ControlField{
		RecordMetadataID: metadata.ID,
		ControlNum:       8,
		Content:          "120101s1910    enk           000 0 eng d",
	}
	if err := db.DB.Create(&control).Error; err != nil {
		return err
	}

	varfields := []entities.Varfield{
		{RecordMetadataID: metadata.ID, VarfieldTypeCode: "t", MarcTag: "245",
			MarcInd1: "1", MarcInd2: "0", FieldContent: cfg.Title},
	}
	if cfg.Author != "" {
		varfields = append(varfields, entities.Varfield{
			RecordMetadataID: metadata.ID, VarfieldTypeCode: "a", MarcTag: "100",
			MarcInd1: "1", MarcInd2: " ", FieldContent: cfg.Author,
		})
	}
	if cfg.Imprint != "" {
		varfields = append(varfields, entities.Varfield{
			RecordMetadataID: metadata.ID, VarfieldTypeCode: "p", MarcTag: "260",
			FieldContent: cfg.Imprint,
		})
	}
	if cfg.CallNumber != "" {
		varfields = append(varfields, entities.Varfield{
			RecordMetadataID: metadata.ID, VarfieldTypeCode: "c", MarcTag: cfg.CallTag,
			FieldContent: cfg.CallNumber,
		})
	}
	for i := range varfields {
		varfields[i].OccNum = i
		if err := db.DB.Create(&varfields[i]).Error; err != nil {
			return err
		}
	}

	bib := entities.BibRecord{
		RecordMetadataID: metadata.ID,
		LanguageCode:     cfg.Language,
		CountryCode:      cfg.Country,
	}
	if err := db.DB.Create(&bib).Error; err != nil {
		return err
	}
	property := entities.BibRecordProperty{
		BibRecordID:  bib.ID,
		BibLevelCode: "m", BibLevelName: "MONOGRAPH",
		MaterialCode: "a", MaterialName: "Book",
	}
	if err := db.DB.Create(&property).Error; err != nil {
		return err
	}
	for order, code := range cfg.Locations {
		loc := entities.BibRecordLocation{BibRecordID: bib.ID, LocationCode: code, DisplayOrder: order}
		if err := db.DB.Create(&loc).Error; err != nil {
			return err
		}
	}

	for order, item := range cfg.Items {
		if err := seedItem(db, bib.ID, order, item, now); err != nil {
			return err
		}
	}
	return nil
}

func seedItem(db *database.Database, bibID uint, order int, cfg demoItem, now time.Time) error {
	metadata := entities.RecordMetadata{
		RecordTypeCode:       entities.RecordTypeItem,
		RecordNum:            cfg.RecordNum,
		CreationDateGmt:      now.AddDate(0, -6, 0),
		RecordLastUpdatedGmt: now,
	}
	if err := db.DB.Create(&metadata).Error; err != nil {
		return err
	}

	varfields := []entities.Varfield{
		{RecordMetadataID: metadata.ID, VarfieldTypeCode: "b", FieldContent: cfg.Barcode},
	}
	if cfg.Volume != "" {
		varfields = append(varfields, entities.Varfield{
			RecordMetadataID: metadata.ID, VarfieldTypeCode: "v", FieldContent: cfg.Volume,
		})
	}
	for i := range varfields {
		varfields[i].OccNum = i
		if err := db.DB.Create(&varfields[i]).Error; err != nil {
			return err
		}
	}

	item := entities.ItemRecord{
		RecordMetadataID: metadata.ID,
		LocationCode:     cfg.Location,
		ItypeCodeNum:     1,
		ItemStatusCode:   "-",
		CopyNum:          1,
	}
	if err := db.DB.Create(&item).Error; err != nil {
		return err
	}

	if cfg.CheckedOut {
		due := now.AddDate(0, 0, 14)
		checkout := entities.Checkout{
			ItemRecordID: item.ID,
			CheckoutGmt:  &now,
			DueGmt:       &due,
		}
		if err := db.DB.Create(&checkout).Error; err != nil {
			return err
		}
	}

	link := entities.BibRecordItemRecordLink{
		BibRecordID:       bibID,
		ItemRecordID:      item.ID,
		ItemsDisplayOrder: order,
	}
	return db.DB.Create(&link).Error
}

// seedDeletedBib leaves only a metadata row behind, the way the ILS
// records deletions, so deletion reconciliation has something to find.
func seedDeletedBib(db *database.Database, recordNum int) {
	now := time.Now().UTC()
	deleted := now.AddDate(0, 0, -1)
	metadata := entities.RecordMetadata{
		RecordTypeCode:       entities.RecordTypeBib,
		RecordNum:            recordNum,
		CreationDateGmt:      now.AddDate(-1, 0, 0),
		RecordLastUpdatedGmt: deleted,
		DeletionDateGmt:      &deleted,
	}
	if err := db.DB.Create(&metadata).Error; err != nil {
		log.Printf("Failed to seed deleted bib b%d: %v", recordNum, err)
		return
	}
	log.Printf("Seeded deleted record b%d", recordNum)
}
