package shared

import (
	"strconv"
	"strings"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetUserID 读取鉴权中间件写入的用户ID，缺失时返回 401
func GetUserID(c *gin.Context, respond func(c *gin.Context, code int, msg string, err error)) (uint, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		respond(c, response.CodeUnauthorized, "no autenticado", nil)
		return 0, false
	}

	var id int64
	switch v := value.(type) {
	case uint:
		id = int64(v)
	case int64:
		id = v
	case int:
		id = int64(v)
	default:
		respond(c, response.CodeInternal, "contexto de usuario inválido", nil)
		return 0, false
	}
	if id <= 0 {
		respond(c, response.CodeUnauthorized, "no autenticado", nil)
		return 0, false
	}
	return uint(id), true
}

// ParseIDParam 解析路径中的正整数 ID
func ParseIDParam(c *gin.Context, name string, respond func(c *gin.Context, code int, msg string, err error)) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respond(c, response.CodeBadRequest, "id inválido: "+name, nil)
		return 0, false
	}
	return uint(id), true
}
