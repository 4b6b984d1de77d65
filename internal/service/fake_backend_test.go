package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/futbolprime-next/internal/apiclient"
	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/logger"
)

const (
	routeGetCart       = "GET /carts/{id}"
	routeAddItem       = "POST /cart-items"
	routeUpdateItem    = "PUT /cart-items/{id}"
	routeRemoveProduct = "DELETE /carts/{id}/products/{pid}"
	routeEmptyCart     = "DELETE /carts/{id}/empty"
	routeListProducts  = "GET /products"
	routeGetProduct    = "GET /products/{sku}"
	routeCreateOrder   = "POST /orders"
)

type fakeProduct struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Type     string `json:"type"`
	Price    string `json:"price"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Stock    int    `json:"stock"`
	ImageURL string `json:"image_url"`
}

type fakeLine struct {
	ItemID    int64
	ProductID int64
	Quantity  int
	// Snapshot 为空时使用目录中的完整商品
	Snapshot *fakeProduct
}

// fakeBackend 按路由计数的内存后端
type fakeBackend struct {
	mu         sync.Mutex
	calls      map[string]int
	userID     int64
	cartID     int64
	nextItemID int64
	lines      []fakeLine
	products   map[int64]fakeProduct

	cartStatus   int // 非 0 时 GET /carts 返回该状态
	clearStatus  int
	orderStatus  int
	orderMessage string
	orderDelay   time.Duration
	orders       []domain.OrderRequest
	orderKeys    []string
}

func newFakeBackend(userID, cartID int64) *fakeBackend {
	return &fakeBackend{
		calls:      make(map[string]int),
		userID:     userID,
		cartID:     cartID,
		nextItemID: 100,
		products: map[int64]fakeProduct{
			1: {ID: 1, SKU: "CAM-001", Name: "Camiseta Local", Brand: "Adidas", Type: "camiseta", Price: "29990", Size: "M", Color: "Rojo", Stock: 10, ImageURL: "https://img/cam-001.png"},
			2: {ID: 2, SKU: "BOT-010", Name: "Botin Pro", Brand: "Nike", Type: "botin", Price: "89990", Size: "42", Color: "Negro", Stock: 3, ImageURL: "https://img/bot-010.png"},
			3: {ID: 3, SKU: "BAL-100", Name: "Balon", Brand: "Puma", Type: "balon", Price: "19990", Size: "5", Color: "Blanco", Stock: 0, ImageURL: "https://img/bal-100.png"},
		},
	}
}

func (f *fakeBackend) withLine(productID int64, quantity int) *fakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextItemID++
	f.lines = append(f.lines, fakeLine{ItemID: f.nextItemID, ProductID: productID, Quantity: quantity})
	return f
}

func (f *fakeBackend) withSnapshotLine(productID int64, quantity int, snapshot fakeProduct) *fakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextItemID++
	f.lines = append(f.lines, fakeLine{ItemID: f.nextItemID, ProductID: productID, Quantity: quantity, Snapshot: &snapshot})
	return f
}

func (f *fakeBackend) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := 0
	for _, n := range f.calls {
		sum += n
	}
	return sum
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeBackend) hit(route string) {
	f.mu.Lock()
	f.calls[route]++
	f.mu.Unlock()
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/carts/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit(routeGetCart)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.cartStatus != 0 {
			writeFakeEnvelope(w, f.cartStatus, f.cartStatus, "cart unavailable", nil)
			return
		}
		items := make([]map[string]interface{}, 0, len(f.lines))
		for _, line := range f.lines {
			product := f.products[line.ProductID]
			if line.Snapshot != nil {
				product = *line.Snapshot
			}
			items = append(items, map[string]interface{}{
				"id":         line.ItemID,
				"product_id": line.ProductID,
				"quantity":   line.Quantity,
				"product":    product,
			})
		}
		writeFakeEnvelope(w, http.StatusOK, 0, "success", map[string]interface{}{
			"id":      f.cartID,
			"user_id": f.userID,
			"items":   items,
		})
	})
	mux.HandleFunc("POST /api/cart-items", func(w http.ResponseWriter, r *http.Request) {
		f.hit(routeAddItem)
		var req apiclient.AddCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFakeEnvelope(w, http.StatusBadRequest, 400, "bad request", nil)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		product, ok := f.products[req.ProductID]
		if !ok {
			writeFakeEnvelope(w, http.StatusNotFound, 404, "producto no encontrado", nil)
			return
		}
		for i := range f.lines {
			if f.lines[i].ProductID == req.ProductID {
				if f.lines[i].Quantity+req.Quantity > product.Stock {
					writeFakeEnvelope(w, http.StatusConflict, 409, "stock insuficiente", nil)
					return
				}
				f.lines[i].Quantity += req.Quantity
				writeFakeEnvelope(w, http.StatusOK, 0, "success", map[string]interface{}{"id": f.lines[i].ItemID, "product_id": req.ProductID, "quantity": f.lines[i].Quantity})
				return
			}
		}
		if req.Quantity > product.Stock {
			writeFakeEnvelope(w, http.StatusConflict, 409, "stock insuficiente", nil)
			return
		}
		f.nextItemID++
		f.lines = append(f.lines, fakeLine{ItemID: f.nextItemID, ProductID: req.ProductID, Quantity: req.Quantity})
		writeFakeEnvelope(w, http.StatusCreated, 0, "success", map[string]interface{}{"id": f.nextItemID, "product_id": req.ProductID, "quantity": req.Quantity})
	})
	mux.HandleFunc("PUT /api/cart-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit(routeUpdateItem)
		itemID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var req apiclient.UpdateCartItemRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.lines {
			if f.lines[i].ItemID == itemID {
				f.lines[i].Quantity = req.Quantity
				writeFakeEnvelope(w, http.StatusOK, 0, "success", map[string]interface{}{"id": itemID, "product_id": f.lines[i].ProductID, "quantity": req.Quantity})
				return
			}
		}
		writeFakeEnvelope(w, http.StatusNotFound, 404, "item no encontrado", nil)
	})
	mux.HandleFunc("DELETE /api/carts/{id}/products/{pid}", func(w http.ResponseWriter, r *http.Request) {
		f.hit(routeRemoveProduct)
		productID, _ := strconv.ParseInt(r.PathValue("pid"), 10, 64)
		f.mu.Lock()
		defer f.mu.Unlock()
		kept := f.lines[:0]
		for _, line := range f.lines {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		f.lines = kept
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/carts/{id}/empty", func(w http.ResponseWriter, r *http.Request) {
		f.hit(routeEmptyCart)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.clearStatus != 0 {
			writeFakeEnvelope(w, f.clearStatus, f.clearStatus, "clear failed", nil)
			return
		}
		f.lines = nil
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		f.hit(routeListProducts)
		f.mu.Lock()
		defer f.mu.Unlock()
		productType := r.URL.Query().Get("type")
		ids := make([]int64, 0, len(f.products))
		for id := range f.products {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out := make([]fakeProduct, 0, len(ids))
		for _, id := range ids {
			if productType == "" || f.products[id].Type == productType {
				out = append(out, f.products[id])
			}
		}
		writeFakeEnvelope(w, http.StatusOK, 0, "success", out)
	})
	mux.HandleFunc("GET /api/products/{sku}", func(w http.ResponseWriter, r *http.Request) {
		f.hit(routeGetProduct)
		sku := r.PathValue("sku")
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, product := range f.products {
			if product.SKU == sku {
				writeFakeEnvelope(w, http.StatusOK, 0, "success", product)
				return
			}
		}
		writeFakeEnvelope(w, http.StatusNotFound, 404, "producto no encontrado", nil)
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		f.hit(routeCreateOrder)
		var req domain.OrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.orders = append(f.orders, req)
		f.orderKeys = append(f.orderKeys, r.Header.Get("Idempotency-Key"))
		status, message, delay := f.orderStatus, f.orderMessage, f.orderDelay
		f.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		if status != 0 {
			writeFakeEnvelope(w, status, status, message, nil)
			return
		}
		writeFakeEnvelope(w, http.StatusCreated, 0, "success", map[string]interface{}{
			"id":               501,
			"order_no":         "ORD-501",
			"user_id":          req.UserID,
			"status":           "created",
			"total_amount":     "149970",
			"shipping_address": req.ShippingAddress,
			"payment_method":   req.PaymentMethod,
		})
	})
	return mux
}

func writeFakeEnvelope(w http.ResponseWriter, status, code int, msg string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"status_code": code, "msg": msg, "data": data})
}

// testEngine 通过真实 apiclient 连接 fakeBackend 的完整引擎
type testEngine struct {
	backend  *fakeBackend
	client   *apiclient.Client
	resolver *ProductResolver
	store    *CartStore
	checkout *CheckoutOrchestrator
}

func newTestEngine(t *testing.T, fb *fakeBackend, opts ...func(*CheckoutOptions)) *testEngine {
	t.Helper()
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	client := apiclient.New(apiclient.Options{
		BaseURL:        srv.URL,
		APIPrefix:      "/api",
		ConnectTimeout: time.Second,
		ReadTimeout:    2 * time.Second,
		WriteTimeout:   time.Second,
	}, apiclient.WithLogger(logger.Nop()))
	resolver := NewProductResolver(client, nil, time.Minute, logger.Nop())
	store := NewCartStore(client, resolver, CartStoreOptions{BackfillConcurrency: 2, Logger: logger.Nop()})
	checkoutOpts := CheckoutOptions{Logger: logger.Nop()}
	for _, apply := range opts {
		apply(&checkoutOpts)
	}
	return &testEngine{
		backend:  fb,
		client:   client,
		resolver: resolver,
		store:    store,
		checkout: NewCheckoutOrchestrator(store, client, checkoutOpts),
	}
}

func validForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		FullName:        "Nicolas Perez",
		Email:           "test@example.com",
		ShippingAddress: "Casa 123, Santiago",
		CardNumber:      "4111111111111111",
	}
}

// newUnreachableClient 指向已关闭端口的客户端
func newUnreachableClient(t *testing.T) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return apiclient.New(apiclient.Options{
		BaseURL:        url,
		APIPrefix:      "/api",
		ConnectTimeout: 200 * time.Millisecond,
		ReadTimeout:    200 * time.Millisecond,
		WriteTimeout:   200 * time.Millisecond,
	}, apiclient.WithLogger(logger.Nop()))
}

func (f *fakeBackend) requests() []domain.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.OrderRequest(nil), f.orders...)
}

func (f *fakeBackend) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.orderKeys...)
}
