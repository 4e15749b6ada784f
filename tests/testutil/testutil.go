// Package testutil provides helpers shared by the integration tests: an
// in-memory database with the reservation schema, principals and an HTTP client.
package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDB opens an in-memory SQLite database with the reservation schema.
// One connection only: every :memory: connection is a separate database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to open SQLite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ReservationAggregateModels()...))
	return db
}

// Principal builds a principal; an empty office means none
func Principal(t *testing.T, id int64, role, office string) *identity.Principal {
	t.Helper()
	var officeID *string
	if office != "" {
		officeID = &office
	}
	p, err := identity.NewPrincipal(id, role, officeID, false)
	require.NoError(t, err)
	return p
}

// SuperAdmin builds a principal carrying the superadmin flag
func SuperAdmin(t *testing.T, id int64) *identity.Principal {
	t.Helper()
	p, err := identity.NewPrincipal(id, "superadmin", nil, true)
	require.NoError(t, err)
	return p
}
