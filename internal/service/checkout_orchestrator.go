package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderBackend 远端订单资源
type OrderBackend interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (domain.Order, error)
}

// CheckoutPhase 结算状态机阶段
type CheckoutPhase string

const (
	PhaseIdle       CheckoutPhase = "idle"
	PhaseValidating CheckoutPhase = "validating"
	PhaseSubmitting CheckoutPhase = "submitting"
	PhaseSucceeded  CheckoutPhase = "succeeded"
	PhaseFailed     CheckoutPhase = "failed"
)

// CheckoutState 单次提交的可观察状态
type CheckoutState struct {
	Phase          CheckoutPhase  `json:"phase"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	Order          *domain.Order  `json:"order,omitempty"`
	Error          *CheckoutError `json:"error,omitempty"`
	ClearFailed    bool           `json:"clear_failed,omitempty"` // 订单成功但远端清空失败
}

// CheckoutOptions 结算编排配置
type CheckoutOptions struct {
	Notifier OrderNotifier // 可为 nil
	Auth     Authenticator // 可为 nil
	Logger   *zap.SugaredLogger
	NewKey   func() string // 幂等键生成，默认 uuid
}

// CheckoutOrchestrator 结算编排：校验、下单、尽力清空购物车
type CheckoutOrchestrator struct {
	cart     *CartStore
	orders   OrderBackend
	notifier OrderNotifier
	auth     Authenticator
	log      *zap.SugaredLogger
	newKey   func() string

	state    *Observable[CheckoutState]
	form     *Observable[domain.CheckoutForm]
	inFlight atomic.Bool
}

// NewCheckoutOrchestrator 创建结算编排
func NewCheckoutOrchestrator(cart *CartStore, orders OrderBackend, opts CheckoutOptions) *CheckoutOrchestrator {
	log := opts.Logger
	if log == nil {
		log = logger.Named("checkout")
	}
	newKey := opts.NewKey
	if newKey == nil {
		newKey = uuid.NewString
	}
	return &CheckoutOrchestrator{
		cart:     cart,
		orders:   orders,
		notifier: opts.Notifier,
		auth:     opts.Auth,
		log:      log,
		newKey:   newKey,
		state:    NewObservable(CheckoutState{Phase: PhaseIdle}),
		form:     NewObservable(domain.CheckoutForm{}),
	}
}

// State 结算状态
func (o *CheckoutOrchestrator) State() Readable[CheckoutState] {
	return o.state
}

// Form 表单草稿
func (o *CheckoutOrchestrator) Form() Readable[domain.CheckoutForm] {
	return o.form
}

// UpdateForm 更新表单草稿，卡号按输入层规则去掉非数字
func (o *CheckoutOrchestrator) UpdateForm(form domain.CheckoutForm) domain.ValidationResult {
	form.CardNumber = SanitizeCardNumber(form.CardNumber)
	o.form.Set(form)
	return ValidateCheckoutForm(form)
}

// Validate 行内校验
func (o *CheckoutOrchestrator) Validate(form domain.CheckoutForm) domain.ValidationResult {
	return ValidateCheckoutForm(form)
}

// Reset 回到 Idle（提交中不生效）
func (o *CheckoutOrchestrator) Reset() {
	if o.inFlight.Load() {
		return
	}
	o.state.Set(CheckoutState{Phase: PhaseIdle})
}

// Submit 提交订单；返回的 error 为 *CheckoutError
func (o *CheckoutOrchestrator) Submit(ctx context.Context, userID int64, form domain.CheckoutForm) (domain.Order, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return domain.Order{}, &CheckoutError{
			Reason:  ReasonInProgress,
			Message: "a checkout is already being submitted",
			Err:     ErrCheckoutInProgress,
		}
	}
	defer o.inFlight.Store(false)

	o.state.Set(CheckoutState{Phase: PhaseValidating})
	if result := ValidateCheckoutForm(form); !result.Valid() {
		return o.failed("", &CheckoutError{
			Reason:  ReasonValidationFailed,
			Fields:  result.Errors,
			Message: "please review the highlighted fields",
			Err:     ErrValidationFailed,
		})
	}
	if userID <= 0 || (o.auth != nil && (!o.auth.IsAuthenticated() || o.auth.CurrentUserID() != userID)) {
		return o.failed("", &CheckoutError{
			Reason:  ReasonNotAuthenticated,
			Message: "sign in to place an order",
			Err:     ErrNotAuthenticated,
		})
	}

	cart := o.cart.Snapshot()
	cartID, resolved := cart.Ref.ID()
	if !resolved || cart.UserID != userID {
		return o.failed("", &CheckoutError{
			Reason:  ReasonCartNotReady,
			Message: "cart is not loaded yet, reload and retry",
			Err:     ErrCartNotResolved,
		})
	}
	if cart.IsEmpty() {
		return o.failed("", &CheckoutError{
			Reason:  ReasonEmptyCart,
			Message: "cart is empty",
			Err:     ErrEmptyCart,
		})
	}
	req, err := buildOrderRequest(userID, cartID, cart, form)
	if err != nil {
		return o.failed("", &CheckoutError{
			Reason:  ReasonCartNotReady,
			Message: "cart has items without a catalog id, reload and retry",
			Err:     err,
		})
	}

	key := o.newKey()
	o.state.Set(CheckoutState{Phase: PhaseSubmitting, IdempotencyKey: key})
	order, err := o.orders.CreateOrder(ctx, req, key)
	if err != nil {
		classified := classify("checkout.create_order", err)
		o.log.Warnw("checkout_order_failed", "user_id", userID, "cart_id", cartID, "idempotency_key", key, "error", err)
		return o.failed(key, &CheckoutError{
			Reason:  ReasonOrderRejected,
			Message: UserMessage(classified),
			Err:     classified,
		})
	}

	// 订单已成立：清空是尽力而为，失败只记录日志
	clearFailed := false
	if err := o.cart.clear(ctx, cart.Ref); err != nil {
		clearFailed = true
		o.log.Warnw("checkout_clear_failed", "order_id", order.ID, "cart_id", cartID, "error", err)
		o.cart.emptyLocal(cart.Ref)
	}
	o.form.Set(domain.CheckoutForm{})
	o.notify(ctx, order, cart)

	o.log.Infow("checkout_succeeded", "order_id", order.ID, "order_no", order.OrderNo, "user_id", userID, "clear_failed", clearFailed)
	o.state.Set(CheckoutState{
		Phase:          PhaseSucceeded,
		IdempotencyKey: key,
		Order:          &order,
		ClearFailed:    clearFailed,
	})
	return order, nil
}

func (o *CheckoutOrchestrator) failed(key string, checkoutErr *CheckoutError) (domain.Order, error) {
	o.state.Set(CheckoutState{Phase: PhaseFailed, IdempotencyKey: key, Error: checkoutErr})
	return domain.Order{}, checkoutErr
}

func (o *CheckoutOrchestrator) notify(ctx context.Context, order domain.Order, cart domain.Cart) {
	if o.notifier == nil {
		return
	}
	total := order.Total
	if total <= 0 {
		total = cart.Total()
	}
	itemCount := order.ItemCount()
	if itemCount == 0 {
		itemCount = cart.ItemCount()
	}
	payload := queue.OrderPlacedPayload{
		OrderID:   order.ID,
		OrderNo:   order.OrderNo,
		UserID:    cart.UserID,
		Total:     total,
		ItemCount: itemCount,
	}
	if err := o.notifier.NotifyOrderPlaced(ctx, payload); err != nil {
		o.log.Warnw("checkout_notify_failed", "order_id", order.ID, "error", err)
	}
}

func buildOrderRequest(userID, cartID int64, cart domain.Cart, form domain.CheckoutForm) (domain.OrderRequest, error) {
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if !line.Product.HasBackendID() {
			return domain.OrderRequest{}, ErrInvalidProductID
		}
		if line.Quantity < 1 {
			return domain.OrderRequest{}, ErrInvalidQuantity
		}
		items = append(items, domain.OrderItem{ProductID: line.Product.ID, Quantity: line.Quantity})
	}
	return domain.OrderRequest{
		UserID:          userID,
		CartID:          cartID,
		Items:           items,
		FullName:        strings.TrimSpace(form.FullName),
		Email:           strings.TrimSpace(form.Email),
		ShippingAddress: strings.TrimSpace(form.ShippingAddress),
		PaymentMethod:   constants.PaymentMethodCard,
		CardLast4:       form.CardLast4(),
	}, nil
}
