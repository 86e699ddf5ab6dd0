package main

import (
	"fmt"

	"servaan/internal/database"
	"servaan/internal/models"
	"servaan/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	// 1. 创建默认租户
	if err := createDefaultTenant(db); err != nil {
		return fmt.Errorf("创建默认租户失败: %v", err)
	}

	// 2. 创建平台超级管理员
	if err := createPlatformAdmin(db); err != nil {
		return fmt.Errorf("创建平台管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// createDefaultTenant 创建默认租户
func createDefaultTenant(db *gorm.DB) error {
	var count int64
	db.Model(&models.Tenant{}).Where("subdomain = ?", "demo").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认租户已存在，跳过创建")
		return nil
	}

	tenant := &models.Tenant{
		Name:         "演示餐厅",
		Subdomain:    "demo",
		Plan:         models.TenantPlanStarter,
		Status:       models.TenantStatusActive,
		MaxUsers:     20,
		MaxItems:     2000,
		MaxCustomers: 5000,
	}

	if err := db.Create(tenant).Error; err != nil {
		return err
	}

	// 默认租户管理员
	admin := &models.User{
		TenantID: tenant.ID,
		Username: "admin",
		Email:    "admin@demo.local",
		Name:     "租户管理员",
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
	}
	if err := admin.SetPassword("Admin@123"); err != nil {
		return err
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认租户创建成功: demo")
	return nil
}

// createPlatformAdmin 创建平台超级管理员
func createPlatformAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).
		Where("tenant_id = 0 AND is_platform_admin = ?", true).
		Count(&count)
	if count > 0 {
		logger.GetLogger().Info("平台管理员已存在，跳过创建")
		return nil
	}

	admin := &models.User{
		TenantID:        0,
		Username:        "platform",
		Email:           "platform@servaan.local",
		Name:            "平台超级管理员",
		Status:          models.UserStatusActive,
		IsPlatformAdmin: true,
		PlatformRole:    models.PlatformRoleSuperAdmin,
	}
	if err := admin.SetPassword("Platform@123"); err != nil {
		return err
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("平台管理员创建成功: platform")
	return nil
}
