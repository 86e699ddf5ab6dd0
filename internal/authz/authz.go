package authz

import (
	"servaan/internal/models"
	"servaan/pkg/errors"
)

// Principal 鉴权主体，由登录中间件从JWT声明构造
type Principal struct {
	UserID          uint
	TenantID        uint   // 所属租户（平台用户为0）
	Role            string // 租户内角色
	IsPlatformAdmin bool
	PlatformRole    string
}

// ========== 操作常量定义 ==========

// 平台级操作
const (
	ActionTenantCreate     = "tenant:create"
	ActionTenantList       = "tenant:list"
	ActionTenantRead       = "tenant:read"
	ActionTenantUpdate     = "tenant:update"
	ActionTenantActivate   = "tenant:activate"
	ActionTenantDeactivate = "tenant:deactivate"
	ActionTenantBulkStatus = "tenant:bulk-status"
	ActionTenantDelete     = "tenant:delete"
	ActionPlatformOverview = "platform:overview"
)

// 租户级操作
const (
	ActionUserCreate     = "user:create"
	ActionUserList       = "user:list"
	ActionUserRead       = "user:read"
	ActionUserUpdate     = "user:update"
	ActionUserDeactivate = "user:deactivate"

	ActionCustomerCreate     = "customer:create"
	ActionCustomerList       = "customer:list"
	ActionCustomerRead       = "customer:read"
	ActionCustomerUpdate     = "customer:update"
	ActionCustomerDeactivate = "customer:deactivate"

	ActionItemCreate      = "item:create"
	ActionItemList        = "item:list"
	ActionItemRead        = "item:read"
	ActionItemUpdate      = "item:update"
	ActionItemUpdatePrice = "item:update-price"
	ActionItemDeactivate  = "item:deactivate"
	ActionItemAdjustStock = "item:adjust-stock"

	ActionMenuCreate = "menu:create"
	ActionMenuList   = "menu:list"
	ActionMenuUpdate = "menu:update"
	ActionMenuDelete = "menu:delete"

	ActionTableCreate = "table:create"
	ActionTableList   = "table:list"
	ActionTableUpdate = "table:update"
	ActionTableDelete = "table:delete"

	ActionOrderCreate = "order:create"
	ActionOrderList   = "order:list"
	ActionOrderRead   = "order:read"
	ActionOrderUpdate = "order:update"
	ActionOrderCancel = "order:cancel"

	ActionReportRead  = "report:read"
	ActionAuditRead   = "audit:read"
	ActionAuditExport = "audit:export"
)

// ========== 权限矩阵 ==========
// 封闭枚举，未列出的组合一律拒绝

// 平台角色权限
var platformPermissions = map[string][]string{
	models.PlatformRoleSuperAdmin: {
		ActionTenantCreate, ActionTenantList, ActionTenantRead, ActionTenantUpdate,
		ActionTenantActivate, ActionTenantDeactivate, ActionTenantBulkStatus, ActionTenantDelete,
		ActionPlatformOverview,
		ActionAuditRead, ActionAuditExport,
	},
	models.PlatformRoleAdmin: {
		ActionTenantCreate, ActionTenantList, ActionTenantRead, ActionTenantUpdate,
		ActionTenantActivate,
		ActionPlatformOverview,
		ActionAuditRead,
	},
	models.PlatformRoleSupport: {
		ActionTenantList, ActionTenantRead,
		ActionAuditRead,
	},
}

// 租户角色权限
var tenantPermissions = map[string][]string{
	models.RoleAdmin: {
		ActionUserCreate, ActionUserList, ActionUserRead, ActionUserUpdate, ActionUserDeactivate,
		ActionCustomerCreate, ActionCustomerList, ActionCustomerRead, ActionCustomerUpdate, ActionCustomerDeactivate,
		ActionItemCreate, ActionItemList, ActionItemRead, ActionItemUpdate, ActionItemUpdatePrice,
		ActionItemDeactivate, ActionItemAdjustStock,
		ActionMenuCreate, ActionMenuList, ActionMenuUpdate, ActionMenuDelete,
		ActionTableCreate, ActionTableList, ActionTableUpdate, ActionTableDelete,
		ActionOrderCreate, ActionOrderList, ActionOrderRead, ActionOrderUpdate, ActionOrderCancel,
		ActionReportRead, ActionAuditRead, ActionAuditExport,
	},
	models.RoleManager: {
		ActionUserList, ActionUserRead,
		ActionCustomerCreate, ActionCustomerList, ActionCustomerRead, ActionCustomerUpdate,
		ActionItemList, ActionItemRead, ActionItemUpdatePrice, ActionItemAdjustStock,
		ActionMenuList, ActionMenuUpdate,
		ActionTableList, ActionTableUpdate,
		ActionOrderCreate, ActionOrderList, ActionOrderRead, ActionOrderUpdate, ActionOrderCancel,
		ActionReportRead, ActionAuditRead,
	},
	models.RoleStaff: {
		ActionCustomerList, ActionCustomerRead,
		ActionItemList, ActionItemRead,
		ActionMenuList,
		ActionTableList, ActionTableUpdate,
		ActionOrderCreate, ActionOrderList, ActionOrderRead, ActionOrderUpdate,
	},
}

// 预计算查找表
var (
	platformLookup = buildLookup(platformPermissions)
	tenantLookup   = buildLookup(tenantPermissions)
)

func buildLookup(perms map[string][]string) map[string]map[string]bool {
	lookup := make(map[string]map[string]bool, len(perms))
	for role, actions := range perms {
		set := make(map[string]bool, len(actions))
		for _, action := range actions {
			set[action] = true
		}
		lookup[role] = set
	}
	return lookup
}

// Authorize 鉴权入口
// tenantID为0表示平台级操作；鉴权失败的请求不会到达数据层
func Authorize(p *Principal, tenantID uint, action string) error {
	if p == nil {
		return errors.ErrUnauthorized
	}

	// 平台用户：平台矩阵按操作单独检查，不受单租户隔离约束
	if p.IsPlatformAdmin {
		if platformLookup[p.PlatformRole][action] {
			return nil
		}
		return errors.ErrForbidden
	}

	// 租户用户不允许平台级操作
	if tenantID == 0 {
		return errors.ErrForbidden
	}

	// 租户用户只能操作自己所属的租户
	if p.TenantID != tenantID {
		return errors.ErrForbidden
	}

	if tenantLookup[p.Role][action] {
		return nil
	}
	return errors.ErrForbidden
}
