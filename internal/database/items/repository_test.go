package items

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_items_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.RecordMetadata{},
		&entities.ItemRecord{},
		&entities.Checkout{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func seedItem(t *testing.T, db *gorm.DB, recordNum int, updated time.Time, deleted *time.Time) {
	t.Helper()
	metadata := entities.RecordMetadata{
		RecordTypeCode:       entities.RecordTypeItem,
		RecordNum:            recordNum,
		RecordLastUpdatedGmt: updated,
		DeletionDateGmt:      deleted,
	}
	require.NoError(t, db.Create(&metadata).Error)
	if deleted != nil {
		return
	}
	item := entities.ItemRecord{RecordMetadataID: metadata.ID}
	require.NoError(t, db.Create(&item).Error)
}

func TestRepository_GetItems(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	seedItem(t, db, 2000001, now, nil)
	seedItem(t, db, 2000002, now, nil)
	seedItem(t, db, 2000003, now, &now)

	items, err := repo.GetItems(database.FullExport(), nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRepository_GetItemsUpdatedSince(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedItem(t, db, 2000001, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	seedItem(t, db, 2000002, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), nil)

	items, err := repo.GetItems(database.UpdatedSince(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)), nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRepository_GetDeletions(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	seedItem(t, db, 2000001, now, nil)
	seedItem(t, db, 2000002, now, &now)

	deleted, err := repo.GetDeletions(database.FullExport())
	require.NoError(t, err)
	assert.Equal(t, []string{"i2000002"}, deleted)
}
