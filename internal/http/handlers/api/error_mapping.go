package api

import (
	"errors"

	"github.com/futbolprime-next/internal/backend"
	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// respondServiceError 将后端服务错误映射为 HTTP 状态码
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, backend.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
	case errors.Is(err, backend.ErrEmptyOrder):
		respondError(c, response.CodeBadRequest, "el pedido no tiene productos", nil)
	case errors.Is(err, backend.ErrInsufficientStock):
		respondError(c, response.CodeConflict, "stock insuficiente", nil)
	case errors.Is(err, backend.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "producto no encontrado", nil)
	case errors.Is(err, backend.ErrCartNotFound):
		respondError(c, response.CodeNotFound, "carrito no encontrado", nil)
	case errors.Is(err, backend.ErrCartItemNotFound):
		respondError(c, response.CodeNotFound, "ítem no encontrado", nil)
	case errors.Is(err, backend.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "pedido no encontrado", nil)
	case errors.Is(err, backend.ErrInvalidCredentials):
		respondError(c, response.CodeUnauthorized, "credenciales inválidas", nil)
	case errors.Is(err, backend.ErrUserDisabled):
		respondError(c, response.CodeForbidden, "usuario deshabilitado", nil)
	case errors.Is(err, backend.ErrForbidden):
		respondError(c, response.CodeForbidden, "acceso denegado", nil)
	default:
		respondError(c, response.CodeInternal, "error interno", err)
	}
}

// ensureOwner 校验资源属于当前用户
func ensureOwner(c *gin.Context, ownerID uint) bool {
	uid, ok := getUserID(c)
	if !ok {
		return false
	}
	if uid != ownerID {
		respondServiceError(c, backend.ErrForbidden)
		return false
	}
	return true
}
