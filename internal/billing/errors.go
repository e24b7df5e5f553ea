package billing

import (
	"errors"

	"github.com/stripe/stripe-go/v76"
)

var payoutMessages = map[string]string{
	"insufficient_funds":          "Insufficient funds for instant payout",
	"instant_payouts_unsupported": "Instant payouts are not supported for this account",
	"debit_not_supported":         "Your debit card does not support instant payouts",
}

// PayoutErrorMessage returns a user-facing message for known Stripe payout
// failures.
func PayoutErrorMessage(err error) (string, bool) {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return "", false
	}
	msg, ok := payoutMessages[string(se.Code)]
	return msg, ok
}

// ErrorCode returns the Stripe error code carried by err, if any.
func ErrorCode(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) {
		return string(se.Code)
	}
	return ""
}
