package shared

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseLimitOffset 读取 limit/offset 查询参数，非法值视为未提供
// 取值范围由 service 层归一化
func ParseLimitOffset(c *gin.Context) (int, int) {
	return queryInt(c, "limit"), queryInt(c, "offset")
}

// ParseUintParam 读取路径中的正整数 ID
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func queryInt(c *gin.Context, key string) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
