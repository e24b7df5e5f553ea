// Package billing talks to Stripe: customers, payment intents, Connect
// accounts, balances, instant payouts and webhook verification.
package billing

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// PaymentIntentInput describes a charge to create.
type PaymentIntentInput struct {
	AmountMinor int64
	Currency    string
	CustomerID  string
	Description string
	Metadata    map[string]string
}

// PaymentIntent is the subset of a Stripe intent the API returns.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// AccountStatus is the readiness of a Connect account.
type AccountStatus struct {
	ChargesEnabled   bool     `json:"chargesEnabled"`
	PayoutsEnabled   bool     `json:"payoutsEnabled"`
	DetailsSubmitted bool     `json:"detailsSubmitted"`
	CurrentlyDue     []string `json:"currentlyDue"`
}

// Money is an amount in minor units.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Balance is a Connect account balance split by availability.
type Balance struct {
	Available        []Money `json:"available"`
	Pending          []Money `json:"pending"`
	InstantAvailable []Money `json:"instantAvailable"`
}

// InstantAmount returns the instant-available amount in currency.
func (b *Balance) InstantAmount(currency string) (int64, bool) {
	for _, m := range b.InstantAvailable {
		if strings.EqualFold(m.Currency, currency) {
			return m.Amount, true
		}
	}
	return 0, false
}

// Payout is a created payout.
type Payout struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	ArrivalDate int64  `json:"arrivalDate"`
}

// Gateway is the Stripe surface used by the services.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, name, userID string) (string, error)
	CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntent, error)
	CreateExpressAccount(ctx context.Context, email, userID string) (string, error)
	OnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	AccountStatus(ctx context.Context, accountID string) (*AccountStatus, error)
	LoginLink(ctx context.Context, accountID string) (string, error)
	Balance(ctx context.Context, accountID string) (*Balance, error)
	InstantPayout(ctx context.Context, accountID string, amountCents int64, currency string) (*Payout, error)
}

// StripeGateway implements Gateway with the official client.
type StripeGateway struct {
	api *client.API
}

var _ Gateway = (*StripeGateway)(nil)

// NewStripeGateway builds a gateway for the given secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email, name, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)
	c, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountMinor),
		Currency: stripe.String(strings.ToLower(in.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if in.CustomerID != "" {
		params.Customer = stripe.String(in.CustomerID)
	}
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

func (g *StripeGateway) CreateExpressAccount(ctx context.Context, email, userID string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
		Settings: &stripe.AccountSettingsParams{
			Payouts: &stripe.AccountSettingsPayoutsParams{
				Schedule: &stripe.AccountSettingsPayoutsScheduleParams{
					Interval: stripe.String("manual"),
				},
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)

	acct, err := g.api.Accounts.New(params)
	if err != nil {
		return "", err
	}
	return acct.ID, nil
}

func (g *StripeGateway) OnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx
	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func (g *StripeGateway) AccountStatus(ctx context.Context, accountID string) (*AccountStatus, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	acct, err := g.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, err
	}
	st := &AccountStatus{
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
		CurrentlyDue:     []string{},
	}
	if acct.Requirements != nil && acct.Requirements.CurrentlyDue != nil {
		st.CurrentlyDue = acct.Requirements.CurrentlyDue
	}
	return st, nil
}

func (g *StripeGateway) LoginLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.LoginLinkParams{Account: stripe.String(accountID)}
	params.Context = ctx
	link, err := g.api.LoginLinks.New(params)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func (g *StripeGateway) Balance(ctx context.Context, accountID string) (*Balance, error) {
	params := &stripe.BalanceParams{}
	params.Context = ctx
	params.SetStripeAccount(accountID)
	bal, err := g.api.Balance.Get(params)
	if err != nil {
		return nil, err
	}
	return &Balance{
		Available:        toMoney(bal.Available),
		Pending:          toMoney(bal.Pending),
		InstantAvailable: toMoney(bal.InstantAvailable),
	}, nil
}

func (g *StripeGateway) InstantPayout(ctx context.Context, accountID string, amountCents int64, currency string) (*Payout, error) {
	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(strings.ToLower(currency)),
		Method:   stripe.String("instant"),
	}
	params.Context = ctx
	params.SetStripeAccount(accountID)
	p, err := g.api.Payouts.New(params)
	if err != nil {
		return nil, err
	}
	return &Payout{
		ID:          p.ID,
		Amount:      p.Amount,
		Currency:    string(p.Currency),
		Status:      string(p.Status),
		ArrivalDate: p.ArrivalDate,
	}, nil
}

func toMoney(amounts []*stripe.Amount) []Money {
	out := make([]Money, 0, len(amounts))
	for _, a := range amounts {
		if a == nil {
			continue
		}
		out = append(out, Money{Amount: a.Amount, Currency: string(a.Currency)})
	}
	return out
}
