// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/seucuidado/internal/db"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// NewDB opens a migrated in-memory SQLite database. A single connection
// keeps every query on the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbpkg.Migrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateProfessional creates a professional user and its profile.
func CreateProfessional(t *testing.T, db *gorm.DB, name string, price float64, approved bool) *models.Professional {
	t.Helper()

	u := CreateUser(t, db, name, models.RoleProfessional)
	p := &models.Professional{
		UserID:       u.ID,
		Specialty:    "Enfermagem",
		City:         "Curitiba",
		PricePerHour: price,
		RadiusKM:     10,
		Approved:     approved,
	}
	if approved {
		now := time.Now().UTC()
		p.ApprovedAt = &now
		p.Documents = []models.Document{{Name: "coren.pdf", Path: "1/coren.pdf"}}
	}
	require.NoError(t, db.Create(p).Error)
	p.User = u
	return p
}
