// Package testkit has helpers shared by package tests: a migrated
// in-memory database per test and a JSON request driver for handlers.
package testkit

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	// registers the schema
	_ "github.com/shashiranjanraj/bazaar/database/migrations"
)

// DB returns a fresh, fully migrated in-memory sqlite database that lives
// until the test ends. Every call gets its own database.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "testkit: open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// keep one connection open so the shared in-memory database survives
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = migration.New(db).WithOutput(io.Discard).Run(context.Background())
	require.NoError(t, err, "testkit: migrate")

	auth.PasswordCost = bcrypt.MinCost
	return db
}
