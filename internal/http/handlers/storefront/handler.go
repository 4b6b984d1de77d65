package storefront

import (
	"errors"
	"io"

	"github.com/futbolprime-next/internal/http/handlers/shared"
	"github.com/futbolprime-next/internal/http/response"
	"github.com/futbolprime-next/internal/provider"
	"github.com/futbolprime-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 面向展示层的店面接口
type Handler struct {
	*provider.Container
}

// New 创建店面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

func getUserID(c *gin.Context) (int64, bool) {
	uid, ok := shared.GetUserID(c, respondError)
	return int64(uid), ok
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, ok := shared.ParseIDParam(c, name, respondError)
	return int64(id), ok
}

// respondEngineError 将引擎错误映射为业务码
func respondEngineError(c *gin.Context, err error) {
	msg := service.UserMessage(err)
	var engineErr *service.Error
	if !errors.As(err, &engineErr) {
		respondError(c, response.CodeInternal, "error interno", err)
		return
	}
	switch engineErr.Kind {
	case service.KindValidationFailed:
		respondError(c, response.CodeBadRequest, msg, nil)
	case service.KindNotAuthenticated:
		respondError(c, response.CodeUnauthorized, msg, nil)
	case service.KindNotFound:
		respondError(c, response.CodeNotFound, msg, nil)
	case service.KindInvalidState:
		respondError(c, response.CodeConflict, msg, nil)
	case service.KindServerRejected:
		code := engineErr.Status
		if code < response.CodeBadRequest {
			code = response.CodeBadRequest
		}
		respondError(c, code, msg, err)
	default:
		respondError(c, response.CodeServiceUnavailable, msg, err)
	}
}

// streamReadable 以 SSE 推送可观察状态，客户端断开时退订
func streamReadable[T any](c *gin.Context, event string, source service.Readable[T]) {
	updates, cancel := source.Subscribe()
	defer cancel()
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case value, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent(event, value)
			return true
		}
	})
}
