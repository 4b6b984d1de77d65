package api

import (
	"github.com/futbolprime-next/internal/http/handlers/shared"
	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	result, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		shared.RequestLog(c).Infow("backend_login_rejected", "email", req.Email, "error", err)
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
