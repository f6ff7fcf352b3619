package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-api/models"
)

// Models lists every table the API owns, join entities included.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Ingredient{},
		&models.Dish{},
		&models.DishIngredient{},
		&models.Table{},
		&models.Order{},
		&models.DishOrder{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB, log logrus.FieldLogger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("AutoMigrate completed.")
	return nil
}
