package billing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency describes how a settlement currency is charged through Stripe.
type Currency struct {
	Code string
	// Exponent is the number of minor-unit digits: 2 for USD, 0 for JPY.
	Exponent int32
	// Minimum is the smallest chargeable amount in major units.
	Minimum decimal.Decimal
}

// Stripe's minimum charge amounts for the currencies the marketplace settles in.
var currencies = map[string]Currency{
	"usd": {Code: "usd", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
	"aud": {Code: "aud", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
	"brl": {Code: "brl", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
	"cad": {Code: "cad", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
	"chf": {Code: "chf", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
	"dkk": {Code: "dkk", Exponent: 2, Minimum: decimal.RequireFromString("2.50")},
	"eur": {Code: "eur", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
	"gbp": {Code: "gbp", Exponent: 2, Minimum: decimal.RequireFromString("0.30")},
	"hkd": {Code: "hkd", Exponent: 2, Minimum: decimal.RequireFromString("4.00")},
	"inr": {Code: "inr", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
	"jpy": {Code: "jpy", Exponent: 0, Minimum: decimal.NewFromInt(50)},
	"krw": {Code: "krw", Exponent: 0, Minimum: decimal.NewFromInt(100)},
	"mxn": {Code: "mxn", Exponent: 2, Minimum: decimal.RequireFromString("10.00")},
	"nok": {Code: "nok", Exponent: 2, Minimum: decimal.RequireFromString("3.00")},
	"nzd": {Code: "nzd", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
	"pln": {Code: "pln", Exponent: 2, Minimum: decimal.RequireFromString("2.00")},
	"sek": {Code: "sek", Exponent: 2, Minimum: decimal.RequireFromString("3.00")},
	"sgd": {Code: "sgd", Exponent: 2, Minimum: decimal.RequireFromString("0.50")},
}

// LookupCurrency finds a supported currency by ISO code, case-insensitively.
func LookupCurrency(code string) (Currency, bool) {
	c, ok := currencies[strings.ToLower(strings.TrimSpace(code))]
	return c, ok
}

// SupportedCurrencies lists the supported ISO codes, sorted.
func SupportedCurrencies() []string {
	out := make([]string, 0, len(currencies))
	for code := range currencies {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Round rounds a major-unit amount to the precision the currency allows.
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(c.Exponent)
}

// ToMinorUnits converts a major-unit amount to the integer Stripe expects.
// Zero-decimal currencies are passed through unscaled.
func (c Currency) ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(c.Exponent).Round(0).IntPart()
}

// FormatAmount renders amount with the currency's precision, falling back
// to two decimals for unknown codes.
func FormatAmount(amount decimal.Decimal, code string) string {
	exp := int32(2)
	if c, ok := LookupCurrency(code); ok {
		exp = c.Exponent
	}
	return amount.StringFixed(exp) + " " + strings.ToUpper(code)
}
