package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openlibdev/catalog-export/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.RecordMetadata{},
		&entities.LeaderField{},
		&entities.ControlField{},
		&entities.Varfield{},
		&entities.Location{},
		&entities.Language{},
		&entities.Country{},
		&entities.BibRecord{},
		&entities.BibRecordProperty{},
		&entities.BibRecordLocation{},
		&entities.BibRecordItemRecordLink{},
		&entities.ItypeProperty{},
		&entities.ItemStatusProperty{},
		&entities.ItemRecord{},
		&entities.Checkout{},
		&entities.ExportInstance{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
