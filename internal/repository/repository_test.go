package repository

import (
	"fmt"
	"strings"
	"testing"

	"servaan/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))

	return db
}

// seedTenant 创建一个激活租户
func seedTenant(t *testing.T, db *gorm.DB, subdomain string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{
		Name:         subdomain,
		Subdomain:    subdomain,
		Plan:         models.TenantPlanStarter,
		Status:       models.TenantStatusActive,
		MaxUsers:     20,
		MaxItems:     2000,
		MaxCustomers: 5000,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

// seedItem 创建一个在售商品
func seedItem(t *testing.T, db *gorm.DB, tenantID uint, sku string, price float64, stock int) *models.Item {
	t.Helper()

	item := &models.Item{
		SKU:      sku,
		Name:     "商品" + sku,
		Price:    price,
		Stock:    stock,
		MinStock: 5,
		IsActive: true,
		Version:  1,
	}
	item.TenantID = tenantID
	require.NoError(t, db.Create(item).Error)
	return item
}
