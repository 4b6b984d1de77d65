package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/queue"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []queue.OrderPlacedPayload
	err      error
}

func (n *recordingNotifier) NotifyOrderPlaced(_ context.Context, payload queue.OrderPlacedPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, payload)
	return n.err
}

func (n *recordingNotifier) DispatchOrderPlaced(ctx context.Context, payload queue.OrderPlacedPayload) error {
	return n.NotifyOrderPlaced(ctx, payload)
}

func (n *recordingNotifier) sent() []queue.OrderPlacedPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]queue.OrderPlacedPayload(nil), n.payloads...)
}

func loadedEngine(t *testing.T, fb *fakeBackend, opts ...func(*CheckoutOptions)) *testEngine {
	t.Helper()
	engine := newTestEngine(t, fb, opts...)
	require.NoError(t, engine.store.Load(context.Background(), 7))
	return engine
}

func TestSubmitPlacesOrderAndClearsCart(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 2).withLine(2, 1)
	notifier := &recordingNotifier{}
	engine := loadedEngine(t, fb, func(o *CheckoutOptions) {
		o.Notifier = notifier
		o.NewKey = func() string { return "key-1" }
	})
	engine.checkout.UpdateForm(validForm())

	order, err := engine.checkout.Submit(context.Background(), 7, validForm())
	require.NoError(t, err)
	require.Equal(t, int64(501), order.ID)
	require.Equal(t, "ORD-501", order.OrderNo)

	require.Equal(t, 1, fb.count(routeCreateOrder))
	require.Equal(t, 1, fb.count(routeEmptyCart))
	require.Equal(t, []string{"key-1"}, fb.keys())

	req := fb.requests()[0]
	require.Equal(t, int64(7), req.UserID)
	require.Equal(t, int64(11), req.CartID)
	require.Equal(t, []domain.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}, req.Items)
	require.Equal(t, constants.PaymentMethodCard, req.PaymentMethod)
	require.Equal(t, "1111", req.CardLast4)
	require.Equal(t, "Casa 123, Santiago", req.ShippingAddress)

	require.True(t, engine.store.Snapshot().IsEmpty())
	require.True(t, engine.store.CartRef().Resolved())
	require.Equal(t, domain.CheckoutForm{}, engine.checkout.Form().Get())

	state := engine.checkout.State().Get()
	require.Equal(t, PhaseSucceeded, state.Phase)
	require.Equal(t, "key-1", state.IdempotencyKey)
	require.False(t, state.ClearFailed)
	require.NotNil(t, state.Order)

	sent := notifier.sent()
	require.Len(t, sent, 1)
	require.Equal(t, int64(501), sent[0].OrderID)
	require.Equal(t, int64(7), sent[0].UserID)
	require.Equal(t, int64(149970), sent[0].Total)
	require.Equal(t, 3, sent[0].ItemCount)
}

func TestSubmitSucceedsWhenRemoteClearFails(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 2).withLine(2, 1)
	fb.set(func(f *fakeBackend) { f.clearStatus = 500 })
	engine := loadedEngine(t, fb)

	order, err := engine.checkout.Submit(context.Background(), 7, validForm())
	require.NoError(t, err)
	require.Equal(t, int64(501), order.ID)
	require.Equal(t, 1, fb.count(routeCreateOrder))
	require.Equal(t, 1, fb.count(routeEmptyCart))

	require.True(t, engine.store.Snapshot().IsEmpty(), "local cart is emptied even if remote clear failed")
	state := engine.checkout.State().Get()
	require.Equal(t, PhaseSucceeded, state.Phase)
	require.True(t, state.ClearFailed)
	require.NoError(t, engine.store.Errors().Get(), "quiet clear must not surface on the cart error channel")
}

func TestSubmitSucceedsWhenNotifierFails(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 1)
	notifier := &recordingNotifier{err: errors.New("queue down")}
	engine := loadedEngine(t, fb, func(o *CheckoutOptions) { o.Notifier = notifier })

	_, err := engine.checkout.Submit(context.Background(), 7, validForm())
	require.NoError(t, err)
	require.Len(t, notifier.sent(), 1)
	require.Equal(t, PhaseSucceeded, engine.checkout.State().Get().Phase)
}

func TestSubmitInvalidFormMakesNoNetworkCall(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 1)
	engine := loadedEngine(t, fb)
	before := fb.total()

	form := validForm()
	form.Email = "no-es-un-correo"
	_, err := engine.checkout.Submit(context.Background(), 7, form)

	var checkoutErr *CheckoutError
	require.True(t, errors.As(err, &checkoutErr))
	require.Equal(t, ReasonValidationFailed, checkoutErr.Reason)
	require.Contains(t, checkoutErr.Fields, constants.FieldEmail)
	require.Len(t, checkoutErr.Fields, 1)
	require.Equal(t, before, fb.total())
	require.Equal(t, 0, fb.count(routeCreateOrder))
	require.Equal(t, PhaseFailed, engine.checkout.State().Get().Phase)
	require.Len(t, engine.store.Snapshot().Lines, 1)
}

func TestSubmitEmptyCart(t *testing.T) {
	fb := newFakeBackend(7, 11)
	engine := loadedEngine(t, fb)

	_, err := engine.checkout.Submit(context.Background(), 7, validForm())
	require.True(t, IsCheckoutReason(err, ReasonEmptyCart), "got %v", err)
	require.Equal(t, 0, fb.count(routeCreateOrder))
}

func TestSubmitBeforeCartLoaded(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 1)
	engine := newTestEngine(t, fb)

	_, err := engine.checkout.Submit(context.Background(), 7, validForm())
	require.True(t, IsCheckoutReason(err, ReasonCartNotReady), "got %v", err)
	require.ErrorIs(t, err, ErrCartNotResolved)
	require.Equal(t, 0, fb.total())
}

func TestSubmitForAnotherUserIsNotReady(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 1)
	engine := loadedEngine(t, fb)

	_, err := engine.checkout.Submit(context.Background(), 8, validForm())
	require.True(t, IsCheckoutReason(err, ReasonCartNotReady), "got %v", err)
	require.Equal(t, 0, fb.count(routeCreateOrder))
}

func TestSubmitRequiresSession(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 1)
	engine := loadedEngine(t, fb, func(o *CheckoutOptions) {
		o.Auth = staticAuth{userID: 7, ok: false}
	})

	_, err := engine.checkout.Submit(context.Background(), 7, validForm())
	require.True(t, IsCheckoutReason(err, ReasonNotAuthenticated), "got %v", err)

	_, err = engine.checkout.Submit(context.Background(), 0, validForm())
	require.True(t, IsCheckoutReason(err, ReasonNotAuthenticated), "got %v", err)
	require.Equal(t, 0, fb.count(routeCreateOrder))
}

func TestSubmitRejectsLinesWithoutBackendID(t *testing.T) {
	fb := newFakeBackend(7, 11)
	engine := newTestEngine(t, fb)
	// 本地注入一条未解析商品的行
	engine.store.commit(1, domain.Cart{
		Ref:    domain.ResolvedCart(11),
		UserID: 7,
		Lines: []domain.CartLine{
			{Ref: domain.ResolvedLine(5), Product: domain.Product{SKU: "CAM-001", Name: "Camiseta"}, Quantity: 1},
		},
	})

	_, err := engine.checkout.Submit(context.Background(), 7, validForm())
	require.True(t, IsCheckoutReason(err, ReasonCartNotReady), "got %v", err)
	require.ErrorIs(t, err, ErrInvalidProductID)
	require.Equal(t, 0, fb.count(routeCreateOrder))
}

func TestSubmitOrderRejectedKeepsCartAndForm(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 2)
	fb.set(func(f *fakeBackend) {
		f.orderStatus = 409
		f.orderMessage = "stock insuficiente para CAM-001"
	})
	engine := loadedEngine(t, fb)
	form := validForm()
	engine.checkout.UpdateForm(form)

	_, err := engine.checkout.Submit(context.Background(), 7, form)
	var checkoutErr *CheckoutError
	require.True(t, errors.As(err, &checkoutErr))
	require.Equal(t, ReasonOrderRejected, checkoutErr.Reason)
	require.Equal(t, "stock insuficiente para CAM-001", checkoutErr.Message)
	require.ErrorIs(t, err, ErrServerRejected)

	require.Equal(t, 0, fb.count(routeEmptyCart))
	require.Len(t, engine.store.Snapshot().Lines, 1)
	require.Equal(t, form, engine.checkout.Form().Get())

	state := engine.checkout.State().Get()
	require.Equal(t, PhaseFailed, state.Phase)
	require.NotEmpty(t, state.IdempotencyKey)
	require.NotNil(t, state.Error)
}

func TestSubmitUsesFreshKeyPerAttempt(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 1)
	fb.set(func(f *fakeBackend) { f.orderStatus = 500 })
	engine := loadedEngine(t, fb)
	ctx := context.Background()

	_, err := engine.checkout.Submit(ctx, 7, validForm())
	require.Error(t, err)
	fb.set(func(f *fakeBackend) { f.orderStatus = 0 })
	_, err = engine.checkout.Submit(ctx, 7, validForm())
	require.NoError(t, err)

	keys := fb.keys()
	require.Len(t, keys, 2)
	require.NotEmpty(t, keys[0])
	require.NotEqual(t, keys[0], keys[1])
}

func TestConcurrentSubmitIsRejected(t *testing.T) {
	fb := newFakeBackend(7, 11).withLine(1, 1)
	fb.set(func(f *fakeBackend) { f.orderDelay = 300 * time.Millisecond })
	engine := loadedEngine(t, fb)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := engine.checkout.Submit(ctx, 7, validForm())
		done <- err
	}()
	require.Eventually(t, func() bool {
		return engine.checkout.State().Get().Phase == PhaseSubmitting
	}, 2*time.Second, 5*time.Millisecond)

	_, err := engine.checkout.Submit(ctx, 7, validForm())
	require.True(t, IsCheckoutReason(err, ReasonInProgress), "got %v", err)
	require.Equal(t, PhaseSubmitting, engine.checkout.State().Get().Phase, "rejected submit must not change state")

	engine.checkout.Reset()
	require.Equal(t, PhaseSubmitting, engine.checkout.State().Get().Phase, "reset is ignored while submitting")

	require.NoError(t, <-done)
	require.Equal(t, 1, fb.count(routeCreateOrder))

	engine.checkout.Reset()
	require.Equal(t, PhaseIdle, engine.checkout.State().Get().Phase)
}

func TestUpdateFormSanitizesCardNumber(t *testing.T) {
	engine := newTestEngine(t, newFakeBackend(7, 11))
	form := validForm()
	form.CardNumber = "4111 1111-1111 1111"

	result := engine.checkout.UpdateForm(form)
	require.True(t, result.Valid())
	require.Equal(t, "4111111111111111", engine.checkout.Form().Get().CardNumber)
}

func TestQueueNotifierDispatchesInlineWhenQueueDisabled(t *testing.T) {
	inline := &recordingNotifier{}
	client, err := queue.NewClient(nil)
	require.NoError(t, err)
	notifier := NewQueueNotifier(client, inline, nil)

	payload := queue.OrderPlacedPayload{OrderID: 1, OrderNo: "ORD-1", UserID: 7, Total: 100, ItemCount: 1}
	require.NoError(t, notifier.NotifyOrderPlaced(context.Background(), payload))
	require.Equal(t, []queue.OrderPlacedPayload{payload}, inline.sent())
}

func TestLogDispatcherAcceptsPayload(t *testing.T) {
	dispatcher := NewLogDispatcher(nil)
	require.NoError(t, dispatcher.DispatchOrderPlaced(context.Background(), queue.OrderPlacedPayload{OrderID: 1}))
}
