package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
// 租户内用户TenantID必填；平台用户TenantID为0且IsPlatformAdmin为true
type User struct {
	BaseModel
	TenantID        uint       `json:"tenant_id" gorm:"not null;default:0;index;uniqueIndex:idx_tenant_username,priority:1;uniqueIndex:idx_tenant_email,priority:1"`
	Username        string     `json:"username" gorm:"not null;size:50;uniqueIndex:idx_tenant_username,priority:2"`
	Email           string     `json:"email" gorm:"not null;size:100;uniqueIndex:idx_tenant_email,priority:2"`
	PasswordHash    string     `json:"-" gorm:"not null;size:255"`
	Name            string     `json:"name" gorm:"not null;size:100"`
	Phone           *string    `json:"phone" gorm:"size:20"`
	Role            string     `json:"role" gorm:"default:'staff';size:20"` // 租户内角色
	Status          string     `json:"status" gorm:"default:'active';size:20"`
	IsPlatformAdmin bool       `json:"is_platform_admin" gorm:"default:false"`
	PlatformRole    string     `json:"platform_role,omitempty" gorm:"size:20"` // 平台角色，仅平台用户有值
	LastLoginAt     *time.Time `json:"last_login_at"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// 租户内角色常量
const (
	RoleAdmin   = "admin"   // 店长
	RoleManager = "manager" // 值班经理
	RoleStaff   = "staff"   // 员工
)

// 平台角色常量
const (
	PlatformRoleSuperAdmin = "super_admin"
	PlatformRoleAdmin      = "platform_admin"
	PlatformRoleSupport    = "support"
)

// SetPassword 设置密码 - 数据操作方法
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码 - 数据操作方法
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
