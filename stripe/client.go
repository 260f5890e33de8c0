package stripe

import (
	"context"
	"net/http"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
	stripecheckoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/tipchef/backend/validator"
	"go.vocdoni.io/dvote/log"
)

// Client wraps the Stripe API client with additional functionality. Unlike
// the package level stripe-go helpers it carries its own key and backend, so
// several clients (or tests) can coexist in the same process.
type Client struct {
	config   *Config
	sessions stripecheckoutsession.Client
}

// NewClient creates a new Stripe client with the given configuration. Network
// retries are disabled: a failed call is reported to the caller right away.
func NewClient(config *Config) (*Client, error) {
	if config == nil || config.APIKey == "" {
		return nil, NewStripeError("invalid_configuration", "stripe secret key is not set", nil)
	}
	if err := validator.New().Validate(config); err != nil {
		return nil, NewStripeError("invalid_configuration", "invalid stripe configuration", err)
	}
	backendConfig := &stripeapi.BackendConfig{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		LeveledLogger:     leveledLogger{},
		MaxNetworkRetries: stripeapi.Int64(0),
	}
	if config.APIURL != "" {
		backendConfig.URL = stripeapi.String(config.APIURL)
	}
	return &Client{
		config: config,
		sessions: stripecheckoutsession.Client{
			B:   stripeapi.GetBackendWithConfig(stripeapi.APIBackend, backendConfig),
			Key: config.APIKey,
		},
	}, nil
}

// CreateCheckoutSession creates a new hosted checkout session for a one-time
// payment of a single line item, priced in the configured currency.
// Overview of stripe checkout mechanics: https://docs.stripe.com/checkout/quickstart
// API description https://docs.stripe.com/api/checkout/sessions
func (c *Client) CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSession, error) {
	if params == nil {
		return nil, NewStripeError("invalid_session", "missing checkout session parameters", nil)
	}
	quantity := params.LineItem.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	checkoutParams := &stripeapi.CheckoutSessionParams{
		PaymentMethodTypes: stripeapi.StringSlice([]string{"card"}),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeapi.String(c.config.currency()),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripeapi.String(params.LineItem.Name),
						Description: stripeapi.String(params.LineItem.Description),
					},
					UnitAmount: stripeapi.Int64(params.LineItem.UnitAmount),
				},
				Quantity: stripeapi.Int64(quantity),
			},
		},
		// One-time payment mode
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(params.SuccessURL),
		CancelURL:  stripeapi.String(params.CancelURL),
		Metadata:   params.Metadata,
	}
	checkoutParams.Context = ctx
	if params.IdempotencyKey != "" {
		checkoutParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	session, err := c.sessions.New(checkoutParams)
	if err != nil {
		return nil, newAPIError("failed to create checkout session", err)
	}
	if session.URL == "" {
		return nil, NewStripeError("invalid_session",
			"checkout session "+session.ID+" has no redirect URL", nil)
	}
	return &CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// LineItem is the single priced entry of a tip checkout session. UnitAmount
// is expressed in minor currency units.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
}

// CheckoutSessionParams holds parameters for creating a checkout session
type CheckoutSessionParams struct {
	LineItem   LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
	// IdempotencyKey is forwarded to Stripe when not empty.
	IdempotencyKey string
}

// CheckoutSession is the part of a Stripe checkout session the application
// keeps: its identifier and the URL the customer must be redirected to.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// leveledLogger routes stripe-go internal logs to the application logger.
type leveledLogger struct{}

func (leveledLogger) Debugf(format string, v ...any) { log.Debugf("stripe: "+format, v...) }
func (leveledLogger) Infof(format string, v ...any)  { log.Debugf("stripe: "+format, v...) }
func (leveledLogger) Warnf(format string, v ...any)  { log.Warnf("stripe: "+format, v...) }
func (leveledLogger) Errorf(format string, v ...any) { log.Warnf("stripe: "+format, v...) }
