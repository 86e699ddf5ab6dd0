package database

import (
	"servaan/internal/models"
	"servaan/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := DB.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Customer{},
		&models.MenuCategory{},
		&models.Item{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuditLog{},
		&models.ExportJob{},
	)

	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")

	return nil
}
