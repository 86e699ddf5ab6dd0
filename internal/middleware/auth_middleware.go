package middleware

import (
	"strings"

	"servaan/internal/authz"
	"servaan/internal/models"
	"servaan/internal/services"
	"servaan/pkg/jwt"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware 权限中间件
type AuthMiddleware struct {
	userService *services.UserService
	jwtManager  *jwt.JWTManager
}

func NewAuthMiddleware(db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		userService: services.NewUserService(db),
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// RequireLogin 登录校验
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从Authorization头获取JWT token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 检查Bearer格式
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		// 提取token
		tokenString := authHeader[7:] // 去掉 "Bearer "

		// 验证token
		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		// 获取用户信息（平台用户tenant_id为0）
		user, err := m.userService.GetByID(claims.TenantID, claims.UserID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		// 检查用户状态
		if user.Status != models.UserStatusActive {
			response.Unauthorized(c, "用户已被禁用")
			c.Abort()
			return
		}

		principal := &authz.Principal{
			UserID:          user.ID,
			TenantID:        user.TenantID,
			Role:            user.Role,
			IsPlatformAdmin: user.IsPlatformAdmin,
			PlatformRole:    user.PlatformRole,
		}

		// 将用户信息保存到上下文
		c.Set("user", user)
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("principal", principal)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequirePermission 要求特定操作权限
// 授权失败在这里直接返回，后续处理器和数据层不再执行
func (m *AuthMiddleware) RequirePermission(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 平台路由没有租户上下文，tenant_id为0
		tenantID := c.GetUint("tenant_id")

		if err := authz.Authorize(principal, tenantID, action); err != nil {
			response.AppError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetPrincipal 从上下文获取当前操作者
func GetPrincipal(c *gin.Context) *authz.Principal {
	value, exists := c.Get("principal")
	if !exists {
		return nil
	}
	principal, ok := value.(*authz.Principal)
	if !ok {
		return nil
	}
	return principal
}

// MustGetUserID 从上下文获取当前用户ID
func MustGetUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
