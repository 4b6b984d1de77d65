package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMinorUnits(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		exponent int
		want     int64
	}{
		{name: "clp", amount: "29990", exponent: 0, want: 29990},
		{name: "usd", amount: "19.99", exponent: 2, want: 1999},
		{name: "rounding", amount: "10.005", exponent: 2, want: 1001},
		{name: "negative_exponent", amount: "15", exponent: -1, want: 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMoneyFromDecimal(decimal.RequireFromString(tc.amount))
			if got := m.Minor(tc.exponent); got != tc.want {
				t.Fatalf("want %d got %d", tc.want, got)
			}
		})
	}
}

func TestMoneyFromMinorRoundTrip(t *testing.T) {
	m := NewMoneyFromMinor(1999, 2)
	if m.String() != "19.99" {
		t.Fatalf("want 19.99 got %s", m.String())
	}
	if m.Minor(2) != 1999 {
		t.Fatalf("minor round trip failed: %d", m.Minor(2))
	}
	if got := m.Mul(3).String(); got != "59.97" {
		t.Fatalf("want 59.97 got %s", got)
	}
}

func TestMoneyUnmarshalAcceptsNumberAndString(t *testing.T) {
	var payload struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"12.50","b":7.25}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.A.String() != "12.50" || payload.B.String() != "7.25" {
		t.Fatalf("unexpected values: %s %s", payload.A, payload.B)
	}
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDB("oracle", "x", DBPoolConfig{}, false); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}
