// Copyright (c) 2026 TrustVoice. All rights reserved.

/*
Package money provides helpers for monetary amounts stored as integer minor units.

All amounts in the TrustVoice ledger are persisted as int64 minor units (cents,
pennies) plus an ISO 4217 currency code. Integer arithmetic keeps per-currency
sums exact; this package only handles the display edge.

Amounts of different currencies must never be added together — there is
deliberately no cross-currency operation here.
*/
package money

import (
	"fmt"
	"strings"
)

// zeroDecimalCurrencies are ISO 4217 currencies without a minor unit.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"XOF": true,
	"XAF": true,
}

// Exponent returns the number of minor-unit digits for a currency code.
func Exponent(currency string) int {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return 0
	}
	return 2
}

// Format renders a minor-unit amount as a decimal string with its currency code,
// e.g. Format(1050, "USD") == "10.50 USD", Format(500, "JPY") == "500 JPY".
func Format(minor int64, currency string) string {
	code := strings.ToUpper(currency)

	if Exponent(code) == 0 {
		return fmt.Sprintf("%d %s", minor, code)
	}

	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}

	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, code)
}
