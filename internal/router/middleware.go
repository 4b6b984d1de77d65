package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/futbolprime-next/internal/config"
	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/http/response"
	"github.com/futbolprime-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = constants.ContextKeyRequestID
const requestIDHeader = constants.HeaderRequestID

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// TokenParser 校验访问令牌并返回用户ID
type TokenParser interface {
	ParseToken(token string) (uint, error)
}

// SessionState 本地会话状态
type SessionState interface {
	IsAuthenticated() bool
	CurrentUserID() int64
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件，失败时返回真实 401 状态码
func UserJWTAuthMiddleware(parser TokenParser, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if parser == nil || userRepo == nil {
			response.Fail(c, response.WrapError(response.CodeUnauthorized, "token inválido", nil))
			return
		}
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Fail(c, response.WrapError(response.CodeUnauthorized, "falta el encabezado de autorización", nil))
			return
		}
		userID, err := parser.ParseToken(tokenString)
		if err != nil || userID == 0 {
			response.Fail(c, response.WrapError(response.CodeUnauthorized, "token inválido", nil))
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil || user == nil {
			response.Fail(c, response.WrapError(response.CodeUnauthorized, "token inválido", nil))
			return
		}
		if !isActiveUserStatus(user.Status) {
			response.Fail(c, response.WrapError(response.CodeUnauthorized, "usuario deshabilitado", nil))
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set("user_email", user.Email)
		c.Next()
	}
}

// SessionAuthMiddleware 要求本地会话已登录，写入当前用户ID
func SessionAuthMiddleware(state SessionState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if state == nil || !state.IsAuthenticated() || state.CurrentUserID() <= 0 {
			response.Unauthorized(c, "inicia sesión para continuar")
			c.Abort()
			return
		}
		c.Set(constants.ContextKeyUserID, state.CurrentUserID())
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func isActiveUserStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == "active"
}
