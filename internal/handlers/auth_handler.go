package handlers

import (
	"strings"

	"servaan/internal/services"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
// subdomain为空时按平台用户登录
type LoginRequest struct {
	Subdomain string `json:"subdomain"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.userService.Login(req.Subdomain, req.Username, req.Password)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, result)
}

// RefreshToken 刷新令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		response.Unauthorized(c, "认证头格式错误")
		return
	}

	token, err := h.userService.RefreshToken(authHeader[7:])
	if err != nil {
		response.Unauthorized(c, "Token无效或已过期")
		return
	}

	response.Success(c, gin.H{"token": token})
}

// Me 当前登录用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "请先登录")
		return
	}

	response.Success(c, user)
}
