package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a human-entered amount string for the given ISO
// 4217 currency. Handles inputs like "1500", "1,500.00" and "-300.5".
// Rejects more fraction digits than the currency allows ("10.005" is
// not a valid USD amount).
func ParseAmount(amountStr, code string) (decimal.Decimal, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	// Thousands separators are display sugar, strip them before parsing
	amountStr = strings.ReplaceAll(amountStr, ",", "")

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format")
	}

	if cur := gomoney.GetCurrency(code); cur != nil {
		if int(amount.Exponent()) < -cur.Fraction {
			return decimal.Zero, fmt.Errorf("amount exceeds %d decimal places for %s", cur.Fraction, cur.Code)
		}
	}

	return amount, nil
}

// Format renders an amount in its currency's display convention.
// E.g., -300.5 USD → "-$300.50", 1000 JPY → "¥1,000".
// Unknown currency codes fall back to the plain decimal string.
func Format(amount decimal.Decimal, code string) string {
	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return amount.String()
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		return amount.String() + " " + cur.Code
	}

	return gomoney.New(minor.IntPart(), cur.Code).Display()
}
