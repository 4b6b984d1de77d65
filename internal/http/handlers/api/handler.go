package api

import (
	"github.com/futbolprime-next/internal/http/handlers/shared"
	"github.com/futbolprime-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 模拟商城后端 REST 接口
type Handler struct {
	*provider.BackendContainer
}

// New 创建后端处理器
func New(c *provider.BackendContainer) *Handler {
	return &Handler{BackendContainer: c}
}

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondStatus(c, code, msg, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return shared.GetUserID(c, respondError)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	return shared.ParseIDParam(c, name, respondError)
}
