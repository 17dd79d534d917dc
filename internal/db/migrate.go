package db

import (
	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/openbasket/openbasket-backend/pkg/logger"
)

// Migrate runs database migrations.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Seller{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
