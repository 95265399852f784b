package services

import (
	"testing"

	"stock-learning-system/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Stock{},
		&models.LearningSession{},
		&models.PredictGame{},
		&models.UserProgress{},
		&models.StockProgress{},
		&models.StockCard{},
		&models.UserAchievement{},
	))
	return db
}

// seedTestCatalog inserts the built-in five-stock catalog.
func seedTestCatalog(t *testing.T, db *gorm.DB) *StockService {
	t.Helper()
	svc := NewStockService(db)
	require.NoError(t, svc.SeedCatalog())
	return svc
}
