// Copyright (c) 2026 TrustVoice. All rights reserved.

package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/the-voice-ledger/trustvoice/pkg/money"
)

/*
TestFormat verifies decimal rendering across currency exponents.
*/
func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		minor    int64
		currency string
		want     string
	}{
		{"usd_cents", 1050, "USD", "10.50 USD"},
		{"usd_round", 15000, "USD", "150.00 USD"},
		{"usd_sub_dollar", 7, "USD", "0.07 USD"},
		{"kes", 700000, "KES", "7000.00 KES"},
		{"negative", -1050, "USD", "-10.50 USD"},
		{"zero", 0, "EUR", "0.00 EUR"},
		{"jpy_no_minor_unit", 500, "JPY", "500 JPY"},
		{"xof_no_minor_unit", 2500, "XOF", "2500 XOF"},
		{"lowercase_code", 1050, "usd", "10.50 USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.Format(tt.minor, tt.currency))
		})
	}
}

/*
TestExponent verifies the minor-unit digit count per currency.
*/
func TestExponent(t *testing.T) {
	assert.Equal(t, 2, money.Exponent("USD"))
	assert.Equal(t, 2, money.Exponent("KES"))
	assert.Equal(t, 0, money.Exponent("JPY"))
	assert.Equal(t, 0, money.Exponent("krw"))
}
