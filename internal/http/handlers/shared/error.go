package shared

import (
	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/http/response"
	"github.com/futbolprime-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回业务错误（HTTP 200 + 业务码），并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	logAppError(c, appErr)
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondStatus 返回真实 HTTP 状态码的错误，业务码与之相同。
func RespondStatus(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	logAppError(c, appErr)
	response.Fail(c, appErr)
}

func logAppError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err == nil {
		return
	}
	log := RequestLog(c)
	if appErr.Code >= response.CodeInternal {
		log.Errorw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
		return
	}
	log.Warnw("handler_rejected", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
}
