package middleware

import (
	"servaan/internal/models"
	"servaan/internal/repository"
	"servaan/pkg/errors"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TenantMiddleware 租户解析中间件
// 每个租户请求先解析出目标租户，后续处理器只拿tenant_id操作数据
type TenantMiddleware struct {
	tenantRepo *repository.TenantRepository
}

func NewTenantMiddleware(db *gorm.DB) *TenantMiddleware {
	return &TenantMiddleware{
		tenantRepo: repository.NewTenantRepository(db),
	}
}

// ResolveTenant 解析租户上下文（需在RequireLogin之后）
// 优先使用X-Tenant-Subdomain请求头，没有则回退到令牌中的所属租户
// 停用的租户一律拒绝，不管操作者是谁
func (m *TenantMiddleware) ResolveTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tenant *models.Tenant
		var err error

		subdomain := c.GetHeader("X-Tenant-Subdomain")
		if subdomain != "" {
			tenant, err = m.tenantRepo.GetBySubdomain(subdomain)
		} else {
			principal := GetPrincipal(c)
			if principal == nil {
				response.Unauthorized(c, "请先登录")
				c.Abort()
				return
			}
			if principal.IsPlatformAdmin {
				// 平台用户访问租户路由必须显式指定租户
				response.BadRequest(c, "缺少租户标识")
				c.Abort()
				return
			}
			tenant, err = m.tenantRepo.GetByID(principal.TenantID)
		}

		if err != nil {
			response.AppError(c, err)
			c.Abort()
			return
		}

		if tenant.Status != models.TenantStatusActive {
			response.AppError(c, errors.ErrTenantInactive)
			c.Abort()
			return
		}

		// 租户用户只能访问自己所属的租户
		if principal := GetPrincipal(c); principal != nil {
			if !principal.IsPlatformAdmin && principal.TenantID != tenant.ID {
				response.AppError(c, errors.ErrForbidden)
				c.Abort()
				return
			}
		}

		c.Set("tenant_id", tenant.ID)
		c.Set("tenant", tenant)
		c.Next()
	}
}

// MustGetTenantID 从上下文获取已解析的租户ID
// 租户上下文未解析时直接panic（由恢复中间件转成500响应）
// 0同时是平台用户的哨兵值，绝不能带着0去查数据分区
func MustGetTenantID(c *gin.Context) uint {
	tenantID := c.GetUint("tenant_id")
	if tenantID == 0 {
		panic("租户上下文未解析")
	}
	return tenantID
}
