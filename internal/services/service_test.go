package services

import (
	"fmt"
	"strings"
	"testing"

	"servaan/internal/models"
	"servaan/pkg/queue"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)

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

// seedUser 创建一个租户用户
func seedUser(t *testing.T, db *gorm.DB, tenantID uint, username, password, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Role:     role,
		Status:   models.UserStatusActive,
	}
	user.TenantID = tenantID
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(user).Error)
	return user
}

// deadQueue 指向不可达地址的队列，用于验证降级路径
func deadQueue() *queue.RedisQueue {
	return queue.NewRedisQueue(&queue.Config{
		Host:   "127.0.0.1",
		Port:   1,
		Prefix: "servaan_test",
	})
}
