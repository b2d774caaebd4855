package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/subledger-inc/subledger/internal/infrastructure/persistence/models"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

// AutoMigrateModels lists every persistence model the schema owns.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SubscriptionModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the model structs. Meant
// for development; production uses goose scripts.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, modelList ...interface{}) error {
	if len(modelList) == 0 {
		modelList = AutoMigrateModels()
	}

	s.logger.Infow("starting gorm auto migration", "models_count", len(modelList))

	if err := db.AutoMigrate(modelList...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("auto migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
