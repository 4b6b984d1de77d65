package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futbolprime-next/internal/domain"
)

func writeEnvelope(w http.ResponseWriter, status int, code int, msg string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status_code": code,
		"msg":         msg,
		"data":        data,
	})
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:          srv.URL + "/",
		APIPrefix:        "api",
		UserAgent:        "test-agent",
		ConnectTimeout:   time.Second,
		ReadTimeout:      time.Second,
		WriteTimeout:     time.Second,
		CurrencyExponent: 0,
	}, opts...)
}

func TestGetCartDecodesEnvelopeAndPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/carts/7", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatalf("request id header missing")
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Fatalf("user agent not applied: %s", r.Header.Get("User-Agent"))
		}
		writeEnvelope(w, http.StatusOK, 0, "success", map[string]interface{}{
			"id":      11,
			"user_id": 7,
			"items": []map[string]interface{}{
				{
					"id":         3,
					"product_id": 1,
					"quantity":   2,
					"product": map[string]interface{}{
						"id": 1, "sku": "CAM-001", "name": "Camiseta", "price": "29990", "stock": 5,
					},
				},
			},
		})
	})
	client := newTestClient(t, mux)

	cart, err := client.GetCart(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetCart error: %v", err)
	}
	if id, ok := cart.Ref.ID(); !ok || id != 11 {
		t.Fatalf("cart ref want 11 got %v", cart.Ref)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("want 1 line got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	if id, _ := line.Ref.ID(); id != 3 || line.Quantity != 2 || line.Product.Price != 29990 {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestRejectionCarriesMessageAndStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart-items", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, http.StatusConflict, "stock insuficiente", nil)
	})
	client := newTestClient(t, mux)

	_, err := client.AddCartItem(context.Background(), 1, 2, 10)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("want ErrRejected got %v", err)
	}
	if StatusOf(err) != http.StatusConflict {
		t.Fatalf("want 409 got %d", StatusOf(err))
	}
	if MessageOf(err) != "stock insuficiente" {
		t.Fatalf("unexpected message: %q", MessageOf(err))
	}
}

func TestBusinessCodeOnSuccessStatusIsRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/NOPE", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, 404, "not found", nil)
	})
	client := newTestClient(t, mux)

	_, err := client.GetProductBySKU(context.Background(), "NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, 401, "credenciales invalidas", nil)
	})
	client := newTestClient(t, mux)

	_, err := client.Login(context.Background(), "a@b.cl", "secret1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized got %v", err)
	}
}

func TestTransportFailureIsRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := New(Options{BaseURL: base, APIPrefix: "/api", ConnectTimeout: 200 * time.Millisecond})
	_, err := client.ListProducts(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed got %v", err)
	}
}

func TestInvalidBodyIsResponseInvalid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	})
	client := newTestClient(t, mux)

	_, err := client.ListProducts(context.Background())
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("want ErrResponseInvalid got %v", err)
	}
}

func TestCreateOrderSendsIdempotencyKeyAndToken(t *testing.T) {
	var gotBody domain.OrderRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Idempotency-Key") != "key-1" {
			t.Fatalf("idempotency key missing")
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("authorization header missing: %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body failed: %v", err)
		}
		writeEnvelope(w, http.StatusCreated, 0, "success", map[string]interface{}{
			"id": 99, "order_no": "ORD-1", "user_id": 7, "status": "created", "total_amount": "59980",
		})
	})
	client := newTestClient(t, mux, WithTokenSource(TokenFunc(func() string { return "tok" })))

	order, err := client.CreateOrder(context.Background(), domain.OrderRequest{
		UserID: 7,
		CartID: 11,
		Items:  []domain.OrderItem{{ProductID: 1, Quantity: 2}},
	}, "key-1")
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.ID != 99 || order.Total != 59980 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if gotBody.CartID != 11 || len(gotBody.Items) != 1 {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestEmptyCartAcceptsNoContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/carts/11/empty", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)

	if err := client.EmptyCart(context.Background(), 11); err != nil {
		t.Fatalf("EmptyCart error: %v", err)
	}
}

func TestBreakerOpensAfterConsecutiveServerErrors(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusInternalServerError, 500, "boom", nil)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(Options{
		BaseURL:   srv.URL,
		APIPrefix: "/api",
		Breaker:   BreakerOptions{Enabled: true, MaxFailures: 2, OpenTimeout: time.Minute},
	})
	for i := 0; i < 2; i++ {
		if _, err := client.ListProducts(context.Background()); !errors.Is(err, ErrRejected) {
			t.Fatalf("call %d want ErrRejected got %v", i, err)
		}
	}
	if _, err := client.ListProducts(context.Background()); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("want ErrCircuitOpen got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("open breaker must not reach backend, calls=%d", got)
	}
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/X", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, 404, "not found", nil)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(Options{
		BaseURL:   srv.URL,
		APIPrefix: "/api",
		Breaker:   BreakerOptions{Enabled: true, MaxFailures: 1, OpenTimeout: time.Minute},
	})
	for i := 0; i < 3; i++ {
		if _, err := client.GetProductBySKU(context.Background(), "X"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("call %d want ErrNotFound got %v", i, err)
		}
	}
}

func TestNormalizePrefix(t *testing.T) {
	cases := map[string]string{"": "", "/": "", "api": "/api", "/api/": "/api", " /v2 ": "/v2"}
	for in, want := range cases {
		if got := normalizePrefix(in); got != want {
			t.Fatalf("normalizePrefix(%q) want %q got %q", in, want, got)
		}
	}
}
