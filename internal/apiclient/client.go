package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/logger"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const maxResponseBytes = 4 << 20

var errServerStatus = errors.New("backend server status")

// TokenSource 提供访问令牌
type TokenSource interface {
	Token() string
}

// TokenFunc 函数形式的 TokenSource
type TokenFunc func() string

// Token 实现 TokenSource
func (f TokenFunc) Token() string {
	if f == nil {
		return ""
	}
	return f()
}

// BreakerOptions 熔断配置
type BreakerOptions struct {
	Enabled     bool
	MaxFailures int
	OpenTimeout time.Duration
}

// Options 客户端配置
type Options struct {
	BaseURL          string
	APIPrefix        string
	UserAgent        string
	ConnectTimeout   time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CurrencyExponent int
	Breaker          BreakerOptions
}

type exchange struct {
	status int
	body   []byte
}

// Client 商城后端 REST 客户端
type Client struct {
	baseURL    string
	prefix     string
	userAgent  string
	exponent   int
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[exchange]
	tokens     TokenSource
	log        *zap.SugaredLogger
}

// Option 客户端可选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource 设置令牌来源
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger 设置日志
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New 创建客户端
func New(opts Options, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		prefix:     normalizePrefix(opts.APIPrefix),
		userAgent:  strings.TrimSpace(opts.UserAgent),
		exponent:   opts.CurrencyExponent,
		httpClient: newHTTPClient(opts),
		log:        logger.Named("apiclient"),
	}
	for _, apply := range options {
		apply(c)
	}
	if opts.Breaker.Enabled {
		c.breaker = newBreaker(opts.Breaker, c.log)
	}
	return c
}

// CurrencyExponent 当前币种小数位
func (c *Client) CurrencyExponent() int {
	return c.exponent
}

func newHTTPClient(opts Options) *http.Client {
	connect := positiveDuration(opts.ConnectTimeout, 30*time.Second)
	read := positiveDuration(opts.ReadTimeout, 30*time.Second)
	write := positiveDuration(opts.WriteTimeout, 30*time.Second)

	dialer := &net.Dialer{Timeout: connect, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		ExpectContinueTimeout: time.Second,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		// 整体上限：建连 + 发送 + 读取
		Timeout: connect + write + read,
	}
}

func newBreaker(opts BreakerOptions, log *zap.SugaredLogger) *gobreaker.CircuitBreaker[exchange] {
	maxFailures := opts.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker[exchange](gobreaker.Settings{
		Name:        "storefront-backend",
		MaxRequests: 1,
		Timeout:     positiveDuration(opts.OpenTimeout, 20*time.Second),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("backend_breaker_state_changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// do 发送请求并解析信封，out 为 nil 时忽略 data
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}, headers http.Header, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var body []byte
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
		}
		body = raw
	}

	endpoint := c.baseURL + c.prefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	send := func() (exchange, error) {
		return c.send(ctx, method, endpoint, body, headers)
	}
	var (
		result exchange
		err    error
	)
	if c.breaker != nil {
		result, err = c.breaker.Execute(send)
	} else {
		result, err = send()
	}
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return fmt.Errorf("%w: %s %s", ErrCircuitOpen, method, path)
		case errors.Is(err, errServerStatus):
			// 5xx 计入熔断，但仍按拒绝处理
		default:
			return err
		}
	}
	return c.decode(method, path, result, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, body []byte, headers http.Header) (exchange, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return exchange{}, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(constants.HeaderRequestID, uuid.NewString())
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return exchange{}, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return exchange{}, fmt.Errorf("%w: read response failed: %v", ErrRequestFailed, err)
	}
	result := exchange{status: resp.StatusCode, body: respBody}
	if resp.StatusCode >= http.StatusInternalServerError {
		return result, errServerStatus
	}
	return result, nil
}

func (c *Client) decode(method, path string, result exchange, out interface{}) error {
	var env envelope
	hasEnvelope := len(bytes.TrimSpace(result.body)) > 0 && json.Unmarshal(result.body, &env) == nil

	if result.status < 200 || result.status >= 300 {
		rejected := &RejectedError{HTTPStatus: result.status}
		if hasEnvelope {
			rejected.Code = env.StatusCode
			rejected.Message = env.Msg
		}
		return fmt.Errorf("%s %s: %w", method, path, rejected)
	}
	if result.status == http.StatusNoContent || len(bytes.TrimSpace(result.body)) == 0 {
		return nil
	}
	if !hasEnvelope {
		return fmt.Errorf("%w: %s %s: body is not an envelope", ErrResponseInvalid, method, path)
	}
	if env.StatusCode != 0 {
		return fmt.Errorf("%s %s: %w", method, path, &RejectedError{
			HTTPStatus: result.status,
			Code:       env.StatusCode,
			Message:    env.Msg,
		})
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s %s: decode data failed: %v", ErrResponseInvalid, method, path, err)
	}
	return nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(prefix, "/")
}

func positiveDuration(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
