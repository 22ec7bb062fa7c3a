// Package migrations holds the schema. Importing it registers every
// migration with pkg/migration.
package migrations

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_tables", &tables{
		models: []any{&models.User{}, &models.Vendor{}},
	})
	migration.Register("20260101000001_create_categories_table", &tables{
		models: []any{&models.Category{}},
	})
	migration.Register("20260101000002_create_products_tables", &tables{
		models: []any{&models.PhysicalProduct{}, &models.DigitalProduct{}},
	})
	migration.Register("20260101000003_create_orders_tables", &tables{
		models: []any{&models.Order{}, &models.PhysicalOrderItem{}, &models.DigitalOrderItem{}},
	})
}

// tables creates its models in order and drops them in reverse.
type tables struct {
	models []any
}

func (m *tables) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.models...)
}

func (m *tables) Down(db *gorm.DB) error {
	for i := len(m.models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(m.models[i]); err != nil {
			return err
		}
	}
	return nil
}
