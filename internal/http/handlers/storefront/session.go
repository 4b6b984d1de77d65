package storefront

import (
	"github.com/futbolprime-next/internal/http/handlers/shared"
	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse 会话信息
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        int64  `json:"user_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
}

// Login 登录并在成功后加载购物车
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	user, err := h.SessionService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	h.CartStore.Reset()
	if err := h.CartStore.Load(c.Request.Context(), user.ID); err != nil {
		shared.RequestLog(c).Warnw("storefront_cart_load_after_login_failed", "user_id", user.ID, "error", err)
	}
	response.Success(c, SessionResponse{
		Authenticated: true,
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
	})
}

// Logout 登出并清理本地购物车与结算状态
func (h *Handler) Logout(c *gin.Context) {
	if err := h.SessionService.Logout(c.Request.Context()); err != nil {
		respondEngineError(c, err)
		return
	}
	h.CartStore.Reset()
	h.Checkout.Reset()
	response.Success(c, SessionResponse{})
}

// GetSession 当前会话
func (h *Handler) GetSession(c *gin.Context) {
	user, ok := h.SessionStore.Current()
	if !ok {
		response.Success(c, SessionResponse{})
		return
	}
	response.Success(c, SessionResponse{
		Authenticated: true,
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
	})
}
