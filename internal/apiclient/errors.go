package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrRequestFailed   = errors.New("backend request failed")
	ErrResponseInvalid = errors.New("backend response invalid")
	ErrRejected        = errors.New("backend rejected request")
	ErrNotFound        = errors.New("backend resource not found")
	ErrUnauthorized    = errors.New("backend unauthorized")
	ErrCircuitOpen     = errors.New("backend circuit open")
)

// RejectedError 后端返回的结构化拒绝
type RejectedError struct {
	HTTPStatus int    // HTTP 状态码
	Code       int    // 信封中的 status_code
	Message    string // 信封中的 msg
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected: http %d code %d", e.HTTPStatus, e.Code)
	}
	return fmt.Sprintf("backend rejected: http %d code %d: %s", e.HTTPStatus, e.Code, e.Message)
}

// Is 按状态映射到 sentinel
func (e *RejectedError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return true
	case ErrNotFound:
		return e.status() == http.StatusNotFound
	case ErrUnauthorized:
		return e.status() == http.StatusUnauthorized
	}
	return false
}

// status 优先使用业务码，其次 HTTP 状态
func (e *RejectedError) status() int {
	if e.Code >= 400 && e.Code < 600 {
		return e.Code
	}
	return e.HTTPStatus
}

// StatusOf 提取拒绝状态，非拒绝错误返回 0
func StatusOf(err error) int {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.status()
	}
	return 0
}

// MessageOf 提取后端返回的 msg
func MessageOf(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	return ""
}
