package service

import (
	"testing"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/domain"
)

func TestValidateCheckoutForm(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(f *domain.CheckoutForm)
		fields []string
	}{
		{name: "valid", mutate: func(f *domain.CheckoutForm) {}},
		{name: "blank name", mutate: func(f *domain.CheckoutForm) { f.FullName = "   " }, fields: []string{constants.FieldFullName}},
		{name: "missing at", mutate: func(f *domain.CheckoutForm) { f.Email = "test.example.com" }, fields: []string{constants.FieldEmail}},
		{name: "missing tld", mutate: func(f *domain.CheckoutForm) { f.Email = "test@example" }, fields: []string{constants.FieldEmail}},
		{name: "display name", mutate: func(f *domain.CheckoutForm) { f.Email = "Test <test@example.com>" }, fields: []string{constants.FieldEmail}},
		{name: "padded email", mutate: func(f *domain.CheckoutForm) { f.Email = " test@example.com" }, fields: []string{constants.FieldEmail}},
		{name: "plus email", mutate: func(f *domain.CheckoutForm) { f.Email = "ana+shop@correo.cl" }},
		{name: "blank address", mutate: func(f *domain.CheckoutForm) { f.ShippingAddress = "" }, fields: []string{constants.FieldShippingAddress}},
		{name: "eleven digits", mutate: func(f *domain.CheckoutForm) { f.CardNumber = "41111111111" }, fields: []string{constants.FieldCardNumber}},
		{name: "twelve digits", mutate: func(f *domain.CheckoutForm) { f.CardNumber = "411111111111" }},
		{name: "digits with spaces", mutate: func(f *domain.CheckoutForm) { f.CardNumber = "4111 1111 1111" }},
		{name: "everything blank", mutate: func(f *domain.CheckoutForm) { *f = domain.CheckoutForm{} }, fields: []string{
			constants.FieldCardNumber, constants.FieldEmail, constants.FieldFullName, constants.FieldShippingAddress,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			result := ValidateCheckoutForm(form)
			got := result.Fields()
			if len(got) != len(tc.fields) {
				t.Fatalf("fields = %v, want %v", got, tc.fields)
			}
			for i := range got {
				if got[i] != tc.fields[i] {
					t.Fatalf("fields = %v, want %v", got, tc.fields)
				}
				if msg, ok := result.Error(got[i]); !ok || msg == "" {
					t.Fatalf("field %s has no message", got[i])
				}
			}
			if result.Valid() != (len(tc.fields) == 0) {
				t.Fatalf("Valid() = %v with fields %v", result.Valid(), got)
			}
		})
	}
}

func TestSanitizeCardNumber(t *testing.T) {
	if got := SanitizeCardNumber(" 4111-1111 1111/1111x"); got != "4111111111111111" {
		t.Fatalf("SanitizeCardNumber = %q", got)
	}
	if got := SanitizeCardNumber("abc"); got != "" {
		t.Fatalf("SanitizeCardNumber = %q", got)
	}
}
