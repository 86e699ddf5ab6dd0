package router

import (
	"servaan/internal/authz"
	"servaan/internal/handlers"
	"servaan/internal/middleware"
	"servaan/internal/services"
	"servaan/pkg/metrics"
	"servaan/pkg/queue"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
// auditService和exportService由main统一启动，这里只挂接口
func SetupRouter(db *gorm.DB, q *queue.RedisQueue, auditService *services.AuditService, exportService *services.ExportService) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(metrics.Middleware())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	registerRoutes(router, db, q, auditService, exportService)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine, db *gorm.DB, q *queue.RedisQueue, auditService *services.AuditService, exportService *services.ExportService) {

	auth := middleware.NewAuthMiddleware(db)
	tenantMW := middleware.NewTenantMiddleware(db)

	userService := services.NewUserService(db)

	// Prometheus指标
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// WebSocket订单事件推送（token走查询参数，自行鉴权）
	wsHandler := handlers.NewWebSocketHandler(db, q)
	router.GET("/ws/orders", wsHandler.OrderEvents)

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck(q))
		api.GET("/ping", ping)

		// JWT认证路由（无需认证）
		authHandler := handlers.NewAuthHandler(userService)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)          // 用户登录
			authGroup.POST("/refresh", authHandler.RefreshToken) // 刷新Token
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// ========== 租户路由 ==========
		// 先登录，再解析租户上下文，每个接口单独声明所需权限
		tenantAPI := api.Group("", auth.RequireLogin(), tenantMW.ResolveTenant())

		userHandler := handlers.NewUserHandler(userService, auditService)
		users := tenantAPI.Group("/users")
		{
			users.POST("", auth.RequirePermission(authz.ActionUserCreate), userHandler.Create)
			users.GET("", auth.RequirePermission(authz.ActionUserList), userHandler.List)
			users.GET("/:id", auth.RequirePermission(authz.ActionUserRead), userHandler.GetByID)
			users.PUT("/:id", auth.RequirePermission(authz.ActionUserUpdate), userHandler.Update)
			users.POST("/:id/activate", auth.RequirePermission(authz.ActionUserUpdate), userHandler.Activate)
			users.POST("/:id/deactivate", auth.RequirePermission(authz.ActionUserDeactivate), userHandler.Deactivate)
			users.POST("/:id/reset-password", auth.RequirePermission(authz.ActionUserUpdate), userHandler.ResetPassword)
		}

		customerHandler := handlers.NewCustomerHandler(services.NewCustomerService(db), auditService)
		customers := tenantAPI.Group("/customers")
		{
			customers.POST("", auth.RequirePermission(authz.ActionCustomerCreate), customerHandler.Create)
			customers.GET("", auth.RequirePermission(authz.ActionCustomerList), customerHandler.List)
			customers.GET("/:id", auth.RequirePermission(authz.ActionCustomerRead), customerHandler.GetByID)
			customers.PUT("/:id", auth.RequirePermission(authz.ActionCustomerUpdate), customerHandler.Update)
			customers.POST("/:id/activate", auth.RequirePermission(authz.ActionCustomerUpdate), customerHandler.Activate)
			customers.POST("/:id/deactivate", auth.RequirePermission(authz.ActionCustomerDeactivate), customerHandler.Deactivate)
		}

		itemHandler := handlers.NewItemHandler(services.NewItemService(db), auditService)
		items := tenantAPI.Group("/items")
		{
			items.POST("", auth.RequirePermission(authz.ActionItemCreate), itemHandler.Create)
			items.GET("", auth.RequirePermission(authz.ActionItemList), itemHandler.List)
			items.GET("/:id", auth.RequirePermission(authz.ActionItemRead), itemHandler.GetByID)
			items.PUT("/:id", auth.RequirePermission(authz.ActionItemUpdate), itemHandler.Update)
			items.PUT("/:id/price", auth.RequirePermission(authz.ActionItemUpdatePrice), itemHandler.UpdatePrice)
			items.POST("/:id/adjust-stock", auth.RequirePermission(authz.ActionItemAdjustStock), itemHandler.AdjustStock)
			items.POST("/:id/activate", auth.RequirePermission(authz.ActionItemUpdate), itemHandler.Activate)
			items.POST("/:id/deactivate", auth.RequirePermission(authz.ActionItemDeactivate), itemHandler.Deactivate)
		}

		menuHandler := handlers.NewMenuCategoryHandler(services.NewMenuService(db), auditService)
		menus := tenantAPI.Group("/menu-categories")
		{
			menus.POST("", auth.RequirePermission(authz.ActionMenuCreate), menuHandler.Create)
			menus.GET("", auth.RequirePermission(authz.ActionMenuList), menuHandler.List)
			menus.PUT("/:id", auth.RequirePermission(authz.ActionMenuUpdate), menuHandler.Update)
			menus.DELETE("/:id", auth.RequirePermission(authz.ActionMenuDelete), menuHandler.Delete)
		}

		tableHandler := handlers.NewTableHandler(services.NewTableService(db), auditService)
		tables := tenantAPI.Group("/tables")
		{
			tables.POST("", auth.RequirePermission(authz.ActionTableCreate), tableHandler.Create)
			tables.GET("", auth.RequirePermission(authz.ActionTableList), tableHandler.List)
			tables.GET("/:id", auth.RequirePermission(authz.ActionTableList), tableHandler.GetByID)
			tables.PUT("/:id", auth.RequirePermission(authz.ActionTableUpdate), tableHandler.Update)
			tables.PUT("/:id/status", auth.RequirePermission(authz.ActionTableUpdate), tableHandler.UpdateStatus)
			tables.DELETE("/:id", auth.RequirePermission(authz.ActionTableDelete), tableHandler.Delete)
		}

		orderHandler := handlers.NewOrderHandler(services.NewOrderService(db, q), auditService)
		orders := tenantAPI.Group("/orders")
		{
			orders.POST("", auth.RequirePermission(authz.ActionOrderCreate), orderHandler.Create)
			orders.GET("", auth.RequirePermission(authz.ActionOrderList), orderHandler.List)
			orders.GET("/:id", auth.RequirePermission(authz.ActionOrderRead), orderHandler.GetByID)
			orders.PUT("/:id/status", auth.RequirePermission(authz.ActionOrderUpdate), orderHandler.UpdateStatus)
			orders.POST("/:id/cancel", auth.RequirePermission(authz.ActionOrderCancel), orderHandler.Cancel)
		}

		reportHandler := handlers.NewReportHandler(services.NewReportService(db))
		tenantAPI.GET("/reports/dashboard", auth.RequirePermission(authz.ActionReportRead), reportHandler.TenantDashboard)

		auditHandler := handlers.NewAuditLogHandler(auditService)
		tenantAPI.GET("/audit-logs", auth.RequirePermission(authz.ActionAuditRead), auditHandler.List)

		exportHandler := handlers.NewExportHandler(exportService, auditService)
		exports := tenantAPI.Group("/audit-logs/exports")
		{
			exports.POST("", auth.RequirePermission(authz.ActionAuditExport), exportHandler.Create)
			exports.GET("", auth.RequirePermission(authz.ActionAuditExport), exportHandler.List)
			exports.GET("/:id", auth.RequirePermission(authz.ActionAuditExport), exportHandler.GetByID)
			exports.GET("/:id/download", auth.RequirePermission(authz.ActionAuditExport), exportHandler.Download)
			exports.POST("/:id/cancel", auth.RequirePermission(authz.ActionAuditExport), exportHandler.Cancel)
		}

		// ========== 平台路由 ==========
		// 没有租户上下文，只有平台角色能通过权限检查
		platform := api.Group("/platform", auth.RequireLogin())

		tenantHandler := handlers.NewTenantHandler(services.NewTenantService(db), auditService)
		tenants := platform.Group("/tenants")
		{
			tenants.POST("", auth.RequirePermission(authz.ActionTenantCreate), tenantHandler.Create)
			tenants.GET("", auth.RequirePermission(authz.ActionTenantList), tenantHandler.List)
			tenants.GET("/stats", auth.RequirePermission(authz.ActionTenantList), tenantHandler.GetStats)
			tenants.GET("/:id", auth.RequirePermission(authz.ActionTenantRead), tenantHandler.GetByID)
			tenants.PUT("/:id", auth.RequirePermission(authz.ActionTenantUpdate), tenantHandler.Update)
			tenants.POST("/:id/activate", auth.RequirePermission(authz.ActionTenantActivate), tenantHandler.Activate)
			tenants.POST("/:id/deactivate", auth.RequirePermission(authz.ActionTenantDeactivate), tenantHandler.Deactivate)
			tenants.POST("/bulk-status", auth.RequirePermission(authz.ActionTenantBulkStatus), tenantHandler.BulkUpdateStatus)
			tenants.DELETE("/:id", auth.RequirePermission(authz.ActionTenantDelete), tenantHandler.Delete)
		}

		platform.GET("/overview", auth.RequirePermission(authz.ActionPlatformOverview), reportHandler.PlatformOverview)
		platform.GET("/audit-logs", auth.RequirePermission(authz.ActionAuditRead), auditHandler.ListPlatform)
	}
}

// 健康检查：带上Redis连通性和审计队列积压
func healthCheck(q *queue.RedisQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisStatus := "up"
		var backlog int64
		if err := q.Ping(); err != nil {
			redisStatus = "down"
		} else if n, err := q.AuditQueueLength(); err == nil {
			backlog = n
		}
		response.Success(c, gin.H{
			"status":        "ok",
			"redis":         redisStatus,
			"audit_backlog": backlog,
		})
	}
}

func ping(c *gin.Context) {
	response.Success(c, gin.H{"message": "pong"})
}
