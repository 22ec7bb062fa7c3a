package migration_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint
	Name string
}

type gadget struct {
	ID uint
}

type createTable struct{ model any }

func (m createTable) Up(db *gorm.DB) error   { return db.AutoMigrate(m.model) }
func (m createTable) Down(db *gorm.DB) error { return db.Migrator().DropTable(m.model) }

func init() {
	migration.Register("0001_widgets", createTable{&widget{}})
	migration.Register("0002_gadgets", createTable{&gadget{}})
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestRunPendingRollback(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	var out bytes.Buffer
	r := migration.New(db).WithOutput(&out)

	pending, err := r.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_widgets", "0002_gadgets"}, pending)

	require.NoError(t, r.Run(ctx))
	assert.True(t, db.Migrator().HasTable(&widget{}))
	assert.True(t, db.Migrator().HasTable(&gadget{}))
	assert.Contains(t, out.String(), "Migrated:  0002_gadgets")

	pending, err = r.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	out.Reset()
	require.NoError(t, r.Run(ctx))
	assert.Contains(t, out.String(), "Nothing to migrate.")

	out.Reset()
	require.NoError(t, r.Status(ctx))
	assert.Contains(t, out.String(), "0001_widgets")
	assert.Contains(t, out.String(), "Ran")

	require.NoError(t, r.Rollback(ctx))
	assert.False(t, db.Migrator().HasTable(&widget{}))
	assert.False(t, db.Migrator().HasTable(&gadget{}))

	pending, err = r.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	out.Reset()
	require.NoError(t, r.Rollback(ctx))
	assert.Contains(t, out.String(), "Nothing to roll back.")
}
