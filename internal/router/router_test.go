package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "servaan/pkg/errors"
	"servaan/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 健康检查在Redis不可达时仍然返回，只是把redis标记为down
func TestHealthCheckReportsRedisDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	q := queue.NewRedisQueue(&queue.Config{
		Host:   "127.0.0.1",
		Port:   1,
		Prefix: "servaan_test",
	})

	r := gin.New()
	r.GET("/health", healthCheck(q))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Code int `json:"code"`
		Data struct {
			Status       string `json:"status"`
			Redis        string `json:"redis"`
			AuditBacklog int64  `json:"audit_backlog"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, apperrors.CodeSuccess, env.Code)
	assert.Equal(t, "ok", env.Data.Status)
	assert.Equal(t, "down", env.Data.Redis)
	assert.Zero(t, env.Data.AuditBacklog)
}
