package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futbolprime-next/internal/apiclient"
)

// ErrorKind 引擎错误分类
type ErrorKind string

const (
	KindNetwork          ErrorKind = "network"
	KindNotAuthenticated ErrorKind = "not_authenticated"
	KindInvalidState     ErrorKind = "invalid_state"
	KindServerRejected   ErrorKind = "server_rejected"
	KindValidationFailed ErrorKind = "validation_failed"
	KindNotFound         ErrorKind = "not_found"
)

// 分类 sentinel
var (
	ErrNetwork          = errors.New("network error")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidState     = errors.New("invalid state")
	ErrServerRejected   = errors.New("server rejected")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
)

// 前置条件 sentinel
var (
	ErrInvalidProductID   = errors.New("product id is not a backend id")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrCartNotResolved    = errors.New("cart id is not resolved")
	ErrLineNotResolved    = errors.New("cart line id is not resolved")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

var kindSentinels = map[ErrorKind]error{
	KindNetwork:          ErrNetwork,
	KindNotAuthenticated: ErrNotAuthenticated,
	KindInvalidState:     ErrInvalidState,
	KindServerRejected:   ErrServerRejected,
	KindValidationFailed: ErrValidationFailed,
	KindNotFound:         ErrNotFound,
}

// Error 引擎统一错误
type Error struct {
	Kind    ErrorKind
	Op      string // 操作名，如 cart.add
	Message string // 面向用户的单条信息
	Status  int    // 后端状态码（仅 server_rejected/not_found/not_authenticated）
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按分类匹配 sentinel
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func newError(kind ErrorKind, op string, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

// KindOf 返回错误分类，非引擎错误返回空
func KindOf(err error) ErrorKind {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Kind
	}
	return ""
}

// UserMessage 面向展示层的单条信息
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Message
	}
	var engineErr *Error
	if errors.As(err, &engineErr) && engineErr.Message != "" {
		return engineErr.Message
	}
	return err.Error()
}

// Classify 将传输层错误转换为引擎错误
func Classify(op string, err error) error {
	return classify(op, err)
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return err
	}
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		return &Error{Kind: KindNotAuthenticated, Op: op, Message: messageOr(err, "session expired"), Status: http.StatusUnauthorized, Err: err}
	case errors.Is(err, apiclient.ErrNotFound):
		return &Error{Kind: KindNotFound, Op: op, Message: messageOr(err, "resource not found"), Status: http.StatusNotFound, Err: err}
	case errors.Is(err, apiclient.ErrRejected):
		return &Error{Kind: KindServerRejected, Op: op, Message: messageOr(err, "request rejected"), Status: apiclient.StatusOf(err), Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindNetwork, Op: op, Message: "request timed out, please retry", Err: err}
	}
	// 建连失败、超时、熔断、响应无法解析均归为网络错误
	return &Error{Kind: KindNetwork, Op: op, Message: "network unavailable, please retry", Err: err}
}

func messageOr(err error, fallback string) string {
	if msg := apiclient.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

// CheckoutReason 结算失败原因
type CheckoutReason string

const (
	ReasonValidationFailed CheckoutReason = "validation_failed"
	ReasonCartNotReady     CheckoutReason = "cart_not_ready"
	ReasonEmptyCart        CheckoutReason = "empty_cart"
	ReasonOrderRejected    CheckoutReason = "order_rejected"
	ReasonNotAuthenticated CheckoutReason = "not_authenticated"
	ReasonInProgress       CheckoutReason = "in_progress"
)

// CheckoutError 结算失败结果
type CheckoutError struct {
	Reason  CheckoutReason    `json:"reason"`
	Fields  map[string]string `json:"fields,omitempty"` // 仅 validation_failed
	Message string            `json:"message"`
	Err     error             `json:"-"`
}

func (e *CheckoutError) Error() string {
	if e.Message == "" {
		return "checkout failed: " + string(e.Reason)
	}
	return "checkout failed: " + string(e.Reason) + ": " + e.Message
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// IsCheckoutReason 判断结算错误原因
func IsCheckoutReason(err error, reason CheckoutReason) bool {
	var checkoutErr *CheckoutError
	return errors.As(err, &checkoutErr) && checkoutErr.Reason == reason
}
