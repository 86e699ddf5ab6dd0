package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"servaan/internal/authz"
	"servaan/internal/models"
	"servaan/internal/repository"
	"servaan/pkg/config"
	"servaan/pkg/jwt"
	"servaan/pkg/logger"
	"servaan/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WebSocketHandler WebSocket处理器
// 向前台实时推送本租户的订单事件（厨房屏、收银屏）
type WebSocketHandler struct {
	upgrader   websocket.Upgrader
	queue      *queue.RedisQueue
	log        *logrus.Logger
	jwtManager *jwt.JWTManager
	userRepo   *repository.UserRepository
	tenantRepo *repository.TenantRepository
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(db *gorm.DB, q *queue.RedisQueue) *WebSocketHandler {
	// 获取CORS配置
	cfg := config.GetConfig()
	allowedOrigins := cfg.CORS.AllowOrigins

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// 如果允许所有源
				for _, allowed := range allowedOrigins {
					if allowed == "*" {
						return true
					}
				}

				// 如果Origin为空（同源请求），允许
				if origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if matchOrigin(origin, allowed) {
						return true
					}
				}

				logger.GetLogger().Warnf("WebSocket连接被拒绝，非法Origin: %s", origin)
				return false
			},
			ReadBufferSize:  1024 * 4,
			WriteBufferSize: 1024 * 4,
		},
		queue:      q,
		log:        logger.GetLogger(),
		jwtManager: jwt.GetJWTManager(), // 使用全局JWT管理器
		userRepo:   repository.NewUserRepository(db),
		tenantRepo: repository.NewTenantRepository(db),
	}
}

// OrderEvents 处理订单事件的WebSocket连接
func (h *WebSocketHandler) OrderEvents(c *gin.Context) {
	// 从查询参数获取token（WebSocket不支持自定义header）
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少认证令牌"})
		return
	}

	claims, err := h.jwtManager.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的令牌"})
		return
	}

	user, err := h.userRepo.GetByID(claims.TenantID, claims.UserID)
	if err != nil || user.Status != models.UserStatusActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在或已被禁用"})
		return
	}

	tenant, err := h.tenantRepo.GetByID(claims.TenantID)
	if err != nil || tenant.Status != models.TenantStatusActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "租户不存在或已停用"})
		return
	}

	principal := &authz.Principal{
		UserID:          user.ID,
		TenantID:        user.TenantID,
		Role:            user.Role,
		IsPlatformAdmin: user.IsPlatformAdmin,
		PlatformRole:    user.PlatformRole,
	}
	if err := authz.Authorize(principal, tenant.ID, authz.ActionOrderList); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "权限不足"})
		return
	}

	// 升级为WebSocket连接
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.log.WithFields(logrus.Fields{
		"tenant_id": tenant.ID,
		"user_id":   user.ID,
	}).Info("WebSocket connection established")

	h.handleOrderEventConnection(conn, tenant.ID)
}

// handleOrderEventConnection 转发订单事件
func (h *WebSocketHandler) handleOrderEventConnection(conn *websocket.Conn, tenantID uint) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 订阅本租户的订单事件频道
	pubsub := h.queue.SubscribeOrderEvents(ctx, tenantID)
	defer pubsub.Close()

	// 等待订阅成功
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.WithError(err).Error("Failed to subscribe to Redis channel")
		return
	}

	// 启动goroutine处理客户端消息（主要是ping/pong）
	go h.readPump(conn, cancel)

	ch := pubsub.Channel()

	const writeTimeout = 10 * time.Second

	// 心跳，保持连接
	pingTicker := time.NewTicker(60 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.WithError(err).Error("Failed to send ping")
				return
			}

		case msg := <-ch:
			if msg == nil {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))

			var event map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.log.WithError(err).Error("Failed to parse order event")
				continue
			}

			if err := conn.WriteJSON(event); err != nil {
				h.log.WithError(err).Error("Failed to send message to client")
				return
			}
		}
	}
}

// readPump 处理客户端消息
func (h *WebSocketHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := 300 * time.Second
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// 读取消息（主要是处理ping/pong）
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Error("WebSocket unexpected close")
			}
			break
		}
	}
}

// matchOrigin 检查Origin是否匹配允许的模式（支持 *.example.com 通配）
func matchOrigin(origin, allowed string) bool {
	if origin == allowed {
		return true
	}

	if strings.HasPrefix(allowed, "*.") {
		domain := allowed[2:]

		originHost := origin
		if idx := strings.Index(origin, "://"); idx != -1 {
			originHost = origin[idx+3:]
		}
		if idx := strings.Index(originHost, ":"); idx != -1 {
			originHost = originHost[:idx]
		}

		if originHost == domain {
			return true
		}
		if strings.HasSuffix(originHost, "."+domain) {
			return true
		}
	}

	return false
}
