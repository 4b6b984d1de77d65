package router

import (
	apihandlers "github.com/futbolprime-next/internal/http/handlers/api"
	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupBackendRouter 初始化模拟商城后端路由
func SetupBackendRouter(c *provider.BackendContainer) *gin.Engine {
	r := gin.New()
	handler := apihandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z().Named("mock_backend")))

	api := r.Group("/api")
	{
		api.GET("/products", handler.ListProducts)
		api.GET("/products/:sku", handler.GetProduct)
		api.POST("/users/login", handler.Login)

		authorized := api.Group("")
		authorized.Use(UserJWTAuthMiddleware(c.AuthService, c.UserRepo))
		{
			authorized.GET("/carts/:id", handler.GetCart)
			authorized.DELETE("/carts/:id/products/:productId", handler.RemoveCartProduct)
			authorized.DELETE("/carts/:id/empty", handler.EmptyCart)
			authorized.POST("/cart-items", handler.AddCartItem)
			authorized.PUT("/cart-items/:id", handler.UpdateCartItem)

			authorized.POST("/orders", handler.CreateOrder)
			authorized.GET("/orders/user/:userId", handler.ListUserOrders)
			authorized.GET("/orders/:id", handler.GetOrder)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
