package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID 解析路径中的资源ID
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// formatID 资源ID转审计字符串
func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
