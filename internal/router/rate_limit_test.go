package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "uint8", input: uint8(12), want: 12, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}

func TestRateLimitMiddlewareBlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rule := RateLimitRule{
		Prefix:        "fp:rate:login",
		WindowSeconds: 60,
		MaxRequests:   2,
		Message:       "espera %d segundos",
	}
	r := gin.New()
	r.POST("/login", RateLimitMiddleware(client, rule, KeyByIPAndJSONField("email")), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	send := func(email string) string {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`"}`))
		req.RemoteAddr = "9.9.9.9:1000"
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	for i := 0; i < 2; i++ {
		if body := send("a@b.cl"); !strings.Contains(body, `"status_code":0`) {
			t.Fatalf("request %d should pass, got %s", i, body)
		}
	}
	body := send("a@b.cl")
	if !strings.Contains(body, `"status_code":429`) || !strings.Contains(body, "espera 60 segundos") {
		t.Fatalf("third request should be limited, got %s", body)
	}
	if body := send("otro@b.cl"); !strings.Contains(body, `"status_code":0`) {
		t.Fatalf("other email should use its own bucket, got %s", body)
	}
	if !mr.Exists("fp:rate:login:a@b.cl|9.9.9.9") {
		t.Fatalf("rate limit key should be stored in redis")
	}

	mr.FastForward(61 * time.Second)
	if body := send("a@b.cl"); !strings.Contains(body, `"status_code":0`) {
		t.Fatalf("window should reset after expiry, got %s", body)
	}
}

func TestRateLimitMessage(t *testing.T) {
	if got := rateLimitMessage("", 5); got != "demasiadas solicitudes, intenta en 5 segundos" {
		t.Fatalf("default message got %s", got)
	}
	if got := rateLimitMessage("bloqueado", 5); got != "bloqueado" {
		t.Fatalf("static message got %s", got)
	}
}
