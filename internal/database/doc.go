// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── filters.go       # Export filter vocabulary and resolved filters
//	├── bibs/            # Bibliographic record queries and deletion lookups
//	├── items/           # Item record queries and deletion lookups
//	└── status/          # Export instance lifecycle tracking
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./catalog-export.db")
//
//	// Create domain-specific repositories
//	bibsRepo := bibs.NewRepository(db.DB)
//	itemsRepo := items.NewRepository(db.DB)
//	statusRepo := status.NewRepository(db.DB)
//
//	// Use repositories
//	records, err := bibsRepo.GetRecords(ctx, database.FullExport(), preloads, 0, 500)
//	deleted, err := bibsRepo.GetDeletions(ctx, database.UpdatedSince(since))
//
// # Filters
//
// Repositories take a ResolvedFilter, never a raw filter request: the
// "last_export" indirection is resolved to a concrete date window by the
// export runner before any query runs. Deletion lookups go against the
// record_metadata table, which keeps a row with DeletionDateGmt set after
// the rest of a record is purged.
//
// # Adding a New Domain
//
// To add a new domain (e.g., orders):
//
//  1. Create a new sub-package: internal/database/orders/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register its entities in database.NewDatabase's AutoMigrate call
package database
