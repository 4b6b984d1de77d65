package service

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)

// 表单字段错误信息
const (
	msgFullNameRequired        = "full name is required"
	msgEmailInvalid            = "enter a valid email address"
	msgShippingAddressRequired = "shipping address is required"
	msgCardNumberTooShort      = "card number must have at least 12 digits"
)

// ValidateCheckoutForm 校验结算表单，纯函数，可在每次输入时调用
func ValidateCheckoutForm(form domain.CheckoutForm) domain.ValidationResult {
	errs := make(map[string]string)
	if strings.TrimSpace(form.FullName) == "" {
		errs[constants.FieldFullName] = msgFullNameRequired
	}
	if !isValidEmail(form.Email) {
		errs[constants.FieldEmail] = msgEmailInvalid
	}
	if strings.TrimSpace(form.ShippingAddress) == "" {
		errs[constants.FieldShippingAddress] = msgShippingAddressRequired
	}
	if countDigits(form.CardNumber) < constants.CardNumberMinDigits {
		errs[constants.FieldCardNumber] = msgCardNumberTooShort
	}
	if len(errs) == 0 {
		return domain.ValidationResult{}
	}
	return domain.ValidationResult{Errors: errs}
}

// SanitizeCardNumber 输入层使用：去掉非数字字符
func SanitizeCardNumber(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isValidEmail(raw string) bool {
	if raw == "" || strings.TrimSpace(raw) != raw {
		return false
	}
	if !emailPattern.MatchString(raw) {
		return false
	}
	addr, err := mail.ParseAddress(raw)
	return err == nil && addr.Address == raw
}

func countDigits(raw string) int {
	count := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
