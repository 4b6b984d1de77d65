package storefront

import (
	"errors"

	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/http/handlers/shared"
	"github.com/futbolprime-next/internal/http/response"
	"github.com/futbolprime-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ValidationView 表单校验结果
type ValidationView struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

func validationView(result domain.ValidationResult) ValidationView {
	return ValidationView{Valid: result.Valid(), Errors: result.Errors}
}

// GetCheckout 当前结算状态与表单
func (h *Handler) GetCheckout(c *gin.Context) {
	response.Success(c, gin.H{
		"state": h.Checkout.State().Get(),
		"form":  h.Checkout.Form().Get(),
	})
}

// UpdateForm 保存表单草稿并返回校验结果
func (h *Handler) UpdateForm(c *gin.Context) {
	var form domain.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	response.Success(c, validationView(h.Checkout.UpdateForm(form)))
}

// ValidateForm 仅校验，不保存
func (h *Handler) ValidateForm(c *gin.Context) {
	var form domain.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	response.Success(c, validationView(h.Checkout.Validate(form)))
}

// Submit 提交订单，请求体为空时使用已保存的表单
func (h *Handler) Submit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	form := h.Checkout.Form().Get()
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&form); err != nil {
			respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
			return
		}
	}
	purchased := cartSKUs(h.CartStore.Snapshot())
	order, err := h.Checkout.Submit(c.Request.Context(), userID, form)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	h.ProductResolver.Invalidate(c.Request.Context(), purchased...)
	state := h.Checkout.State().Get()
	response.Success(c, gin.H{
		"order":        order,
		"clear_failed": state.ClearFailed,
	})
}

// ResetCheckout 回到空闲状态
func (h *Handler) ResetCheckout(c *gin.Context) {
	h.Checkout.Reset()
	response.Success(c, h.Checkout.State().Get())
}

// StreamCheckout 以 SSE 推送结算状态
func (h *Handler) StreamCheckout(c *gin.Context) {
	streamReadable(c, "checkout", h.Checkout.State())
}

func cartSKUs(cart domain.Cart) []string {
	skus := make([]string, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		skus = append(skus, line.Product.SKU)
	}
	return skus
}

func respondCheckoutError(c *gin.Context, err error) {
	var checkoutErr *service.CheckoutError
	if !errors.As(err, &checkoutErr) {
		respondEngineError(c, err)
		return
	}
	code := response.CodeConflict
	switch checkoutErr.Reason {
	case service.ReasonValidationFailed:
		response.ErrorWithData(c, response.CodeBadRequest, checkoutErr.Message, gin.H{
			"reason": checkoutErr.Reason,
			"fields": checkoutErr.Fields,
		})
		return
	case service.ReasonNotAuthenticated:
		code = response.CodeUnauthorized
	case service.ReasonOrderRejected:
		if kind := service.KindOf(checkoutErr.Err); kind == service.KindNetwork {
			code = response.CodeServiceUnavailable
		}
	}
	shared.RequestLog(c).Infow("storefront_checkout_failed", "reason", checkoutErr.Reason, "error", checkoutErr.Err)
	response.ErrorWithData(c, code, checkoutErr.Message, gin.H{"reason": checkoutErr.Reason})
}
