package router

import (
	"fmt"
	"strings"

	"github.com/futbolprime-next/internal/config"
	storefronthandlers "github.com/futbolprime-next/internal/http/handlers/storefront"
	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化店面网关路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()
	handler := storefronthandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fp"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Gateway.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Gateway.LoginRateLimit.MaxAttempts,
		Message:       "demasiados intentos de inicio de sesión, intenta en %d segundos",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.Gateway.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/session", handler.GetSession)
		apiV1.POST("/session/login", RateLimitMiddleware(c.Cache.Client(), loginRule, KeyByIPAndJSONField("email")), handler.Login)
		apiV1.POST("/session/logout", handler.Logout)
		apiV1.GET("/products", handler.ListProducts)
		apiV1.GET("/products/:sku", handler.GetProduct)

		// 需要登录的接口
		authorized := apiV1.Group("")
		authorized.Use(SessionAuthMiddleware(c.SessionStore))
		{
			authorized.GET("/cart", handler.GetCart)
			authorized.POST("/cart/load", handler.LoadCart)
			authorized.GET("/cart/stream", handler.StreamCart)
			authorized.POST("/cart/items", handler.AddItem)
			authorized.PUT("/cart/items/:lineId", handler.UpdateItem)
			authorized.POST("/cart/items/:lineId/step", handler.StepItem)
			authorized.DELETE("/cart/products/:productId", handler.RemoveItem)
			authorized.DELETE("/cart", handler.ClearCart)

			authorized.GET("/checkout", handler.GetCheckout)
			authorized.PUT("/checkout/form", handler.UpdateForm)
			authorized.POST("/checkout/validate", handler.ValidateForm)
			authorized.POST("/checkout", handler.Submit)
			authorized.POST("/checkout/reset", handler.ResetCheckout)
			authorized.GET("/checkout/stream", handler.StreamCheckout)

			authorized.GET("/orders", handler.ListOrders)
			authorized.GET("/orders/:id", handler.GetOrder)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
