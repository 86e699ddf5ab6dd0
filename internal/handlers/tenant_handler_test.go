package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"servaan/internal/models"
	"servaan/internal/services"
	"servaan/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 状态没有变化的激活/停用不落审计记录
func TestTenantStatusFlipAuditedOnlyOnChange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	tenant := &models.Tenant{
		Name:      "dima",
		Subdomain: "dima",
		Plan:      models.TenantPlanStarter,
		Status:    models.TenantStatusActive,
		MaxUsers:  20,
	}
	require.NoError(t, db.Create(tenant).Error)

	// 队列不可达，Record同步降级落库，断言时无需等待消费
	audit := services.NewAuditService(db, queue.NewRedisQueue(&queue.Config{
		Host: "127.0.0.1", Port: 1, Prefix: "servaan_test",
	}))
	handler := NewTenantHandler(services.NewTenantService(db), audit)

	router := gin.New()
	router.POST("/platform/tenants/:id/deactivate", handler.Deactivate)

	deactivate := func() {
		w := httptest.NewRecorder()
		url := fmt.Sprintf("/platform/tenants/%d/deactivate", tenant.ID)
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	auditCount := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.AuditLog{}).
			Where("action = ?", "tenant:deactivate").Count(&n).Error)
		return n
	}

	deactivate()
	assert.EqualValues(t, 1, auditCount())

	// 重复停用：状态未变，不再追加审计
	deactivate()
	assert.EqualValues(t, 1, auditCount())
}
