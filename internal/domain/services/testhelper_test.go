package services

import (
	"testing"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/infrastructure/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and serializes
	// concurrent transactions.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.WorkOrder{},
		&models.EditRequest{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		EditWindowMinutes: 30,
		JWTSecretKey:      "test-secret",
	}
}

func testFacility() *models.Facility {
	return &models.Facility{
		Type:        "water_station",
		Description: "pump house",
		Governorate: "Aswan",
		District:    "Kom Ombo",
		City:        "Al Raghama",
		Lat:         24.476,
		Lon:         32.943,
	}
}
