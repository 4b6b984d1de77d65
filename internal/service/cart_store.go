package service

import (
	"context"
	"sync"

	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultBackfillConcurrency = 4

// CartBackend 远端购物车资源
type CartBackend interface {
	GetCart(ctx context.Context, userID int64) (domain.Cart, error)
	AddCartItem(ctx context.Context, userID, productID int64, quantity int) (domain.CartLine, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (domain.CartLine, error)
	RemoveCartProduct(ctx context.Context, cartID, productID int64) error
	EmptyCart(ctx context.Context, cartID int64) error
}

// SKUResolver 按 SKU 补全商品
type SKUResolver interface {
	FetchBySKU(ctx context.Context, sku string) (domain.Product, error)
}

// Authenticator 会话身份
type Authenticator interface {
	IsAuthenticated() bool
	CurrentUserID() int64
}

// CartStoreOptions 购物车存储配置
type CartStoreOptions struct {
	BackfillConcurrency int
	Auth                Authenticator // 可为 nil
	Logger              *zap.SugaredLogger
}

// CartStore 当前用户购物车的唯一写者
type CartStore struct {
	backend  CartBackend
	products SKUResolver
	auth     Authenticator
	log      *zap.SugaredLogger
	limit    int

	cart    *Observable[domain.Cart]
	loading *Observable[bool]
	errs    *Observable[error]

	mu           sync.Mutex
	loadSeq      uint64
	committedSeq uint64
	inFlight     int
}

// NewCartStore 创建购物车存储
func NewCartStore(backend CartBackend, products SKUResolver, opts CartStoreOptions) *CartStore {
	log := opts.Logger
	if log == nil {
		log = logger.Named("cart_store")
	}
	limit := opts.BackfillConcurrency
	if limit <= 0 {
		limit = defaultBackfillConcurrency
	}
	return &CartStore{
		backend:  backend,
		products: products,
		auth:     opts.Auth,
		log:      log,
		limit:    limit,
		cart:     NewObservable(domain.EmptyCart(0, domain.UnresolvedCart())),
		loading:  NewObservable(false),
		errs:     NewObservable[error](nil),
	}
}

// Cart 购物车可观察状态
func (s *CartStore) Cart() Readable[domain.Cart] {
	return s.cart
}

// Loading 是否有加载在进行
func (s *CartStore) Loading() Readable[bool] {
	return s.loading
}

// Errors 错误旁路通道，保存最近一次失败
func (s *CartStore) Errors() Readable[error] {
	return s.errs
}

// Snapshot 当前购物车快照
func (s *CartStore) Snapshot() domain.Cart {
	return s.cart.Get().Clone()
}

// CartRef 当前购物车引用
func (s *CartStore) CartRef() domain.CartRef {
	return s.cart.Get().Ref
}

// Load 从后端加载用户购物车，失败时置为空购物车并通过旁路通道上报
func (s *CartStore) Load(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return s.fail(newError(KindNotAuthenticated, "cart.load", ErrNotAuthenticated))
	}
	seq := s.beginLoad()
	defer s.endLoad()

	cart, err := s.backend.GetCart(ctx, userID)
	if err != nil {
		classified := classify("cart.load", err)
		s.log.Warnw("cart_load_failed", "user_id", userID, "seq", seq, "error", err)
		if s.commit(seq, domain.EmptyCart(userID, domain.UnresolvedCart())) {
			s.errs.Set(classified)
		}
		return classified
	}
	if cart.UserID <= 0 {
		cart.UserID = userID
	}
	s.backfill(ctx, &cart)

	if !s.commit(seq, cart) {
		s.log.Debugw("cart_load_superseded", "user_id", userID, "seq", seq)
	}
	return nil
}

// Add 加购；不做乐观自增，后端确认后重新加载
func (s *CartStore) Add(ctx context.Context, userID, productID int64, quantity int) error {
	const op = "cart.add"
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return s.fail(newError(KindValidationFailed, op, ErrInvalidQuantity))
	}
	if productID <= 0 {
		return s.fail(newError(KindValidationFailed, op, ErrInvalidProductID))
	}
	if !s.authenticated(userID) {
		return s.fail(newError(KindNotAuthenticated, op, ErrNotAuthenticated))
	}

	if _, err := s.backend.AddCartItem(ctx, userID, productID, quantity); err != nil {
		s.log.Warnw("cart_add_failed", "user_id", userID, "product_id", productID, "quantity", quantity, "error", err)
		return s.fail(classify(op, err))
	}
	s.reload(ctx, userID)
	return nil
}

// AddProduct 加购商品，商品必须持有后端 ID
func (s *CartStore) AddProduct(ctx context.Context, userID int64, product domain.Product, quantity int) error {
	if !product.HasBackendID() {
		return s.fail(newError(KindValidationFailed, "cart.add", ErrInvalidProductID))
	}
	return s.Add(ctx, userID, product.ID, quantity)
}

// UpdateQuantity 修改行数量，quantity < 1 直接拒绝；成功后重新加载
func (s *CartStore) UpdateQuantity(ctx context.Context, line domain.LineRef, quantity int) error {
	const op = "cart.update_quantity"
	if quantity < 1 {
		return s.fail(newError(KindValidationFailed, op, ErrInvalidQuantity))
	}
	lineID, ok := line.ID()
	if !ok {
		return s.fail(newError(KindInvalidState, op, ErrLineNotResolved))
	}

	if _, err := s.backend.UpdateCartItem(ctx, lineID, quantity); err != nil {
		s.log.Warnw("cart_update_quantity_failed", "line_id", lineID, "quantity", quantity, "error", err)
		return s.fail(classify(op, err))
	}
	s.reload(ctx, s.currentUserID())
	return nil
}

// Step 按增量调整行数量，结果小于 1 时不做任何操作
func (s *CartStore) Step(ctx context.Context, line domain.LineRef, delta int) error {
	current, ok := s.cart.Get().LineByRef(line)
	if !ok {
		return s.fail(newError(KindInvalidState, "cart.step", ErrLineNotResolved))
	}
	next := current.Quantity + delta
	if next < 1 || delta == 0 {
		s.log.Debugw("cart_step_ignored", "line_id", line.String(), "quantity", current.Quantity, "delta", delta)
		return nil
	}
	return s.UpdateQuantity(ctx, line, next)
}

// Remove 移除商品；购物车未解析时只做一次加载并返回失败，不发送 DELETE
func (s *CartStore) Remove(ctx context.Context, userID int64, cart domain.CartRef, productID int64) error {
	const op = "cart.remove"
	if productID <= 0 {
		return s.fail(newError(KindValidationFailed, op, ErrInvalidProductID))
	}
	cartID, ok := cart.ID()
	if !ok {
		s.log.Infow("cart_remove_unresolved_reload", "user_id", userID, "product_id", productID)
		_ = s.Load(ctx, userID)
		return s.fail(newError(KindInvalidState, op, ErrCartNotResolved))
	}

	if err := s.backend.RemoveCartProduct(ctx, cartID, productID); err != nil {
		s.log.Warnw("cart_remove_failed", "cart_id", cartID, "product_id", productID, "error", err)
		return s.fail(classify(op, err))
	}
	if userID <= 0 {
		userID = s.currentUserID()
	}
	s.reload(ctx, userID)
	return nil
}

// Clear 清空远端与本地购物车；失败时本地状态不变
func (s *CartStore) Clear(ctx context.Context, cart domain.CartRef) error {
	if err := s.clear(ctx, cart); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *CartStore) clear(ctx context.Context, cart domain.CartRef) error {
	const op = "cart.clear"
	cartID, ok := cart.ID()
	if !ok {
		return newError(KindInvalidState, op, ErrCartNotResolved)
	}
	if err := s.backend.EmptyCart(ctx, cartID); err != nil {
		s.log.Warnw("cart_clear_failed", "cart_id", cartID, "error", err)
		return classify(op, err)
	}
	s.emptyLocal(cart)
	return nil
}

// emptyLocal 本地置空并使进行中的加载失效
func (s *CartStore) emptyLocal(cart domain.CartRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committedSeq = s.loadSeq
	current := s.cart.Get()
	s.cart.Set(domain.EmptyCart(current.UserID, cart))
}

// Reset 登出时丢弃本地购物车并使进行中的加载失效
func (s *CartStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committedSeq = s.loadSeq
	s.cart.Set(domain.EmptyCart(0, domain.UnresolvedCart()))
	s.errs.Set(nil)
}

func (s *CartStore) backfill(ctx context.Context, cart *domain.Cart) {
	if s.products == nil {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i := range cart.Lines {
		i := i // per-iteration copy; go.mod targets go1.21 loop semantics
		line := cart.Lines[i]
		if !line.Product.Incomplete() {
			continue
		}
		if line.Product.SKU == "" {
			s.log.Debugw("cart_backfill_skipped_no_sku", "line_id", line.Ref.String())
			continue
		}
		g.Go(func() error {
			product, err := s.products.FetchBySKU(gctx, line.Product.SKU)
			if err != nil {
				s.log.Warnw("cart_backfill_failed", "sku", line.Product.SKU, "error", err)
				return nil
			}
			cart.Lines[i].Product = line.Product.MergeMissing(product)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *CartStore) beginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadSeq++
	s.inFlight++
	s.loading.Set(true)
	return s.loadSeq
}

func (s *CartStore) endLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if s.inFlight <= 0 {
		s.inFlight = 0
		s.loading.Set(false)
	}
}

// commit 仅提交比已提交结果更新的加载
func (s *CartStore) commit(seq uint64, cart domain.Cart) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.committedSeq {
		return false
	}
	s.committedSeq = seq
	s.cart.Set(cart.Clone())
	return true
}

func (s *CartStore) reload(ctx context.Context, userID int64) {
	if userID <= 0 {
		return
	}
	if err := s.Load(ctx, userID); err != nil {
		s.log.Debugw("cart_reconcile_failed", "user_id", userID, "error", err)
	}
}

func (s *CartStore) fail(err error) error {
	s.errs.Set(err)
	return err
}

func (s *CartStore) authenticated(userID int64) bool {
	if userID <= 0 {
		return false
	}
	if s.auth == nil {
		return true
	}
	return s.auth.IsAuthenticated() && s.auth.CurrentUserID() == userID
}

func (s *CartStore) currentUserID() int64 {
	if userID := s.cart.Get().UserID; userID > 0 {
		return userID
	}
	if s.auth != nil && s.auth.IsAuthenticated() {
		return s.auth.CurrentUserID()
	}
	return 0
}
