package stripe

import "strings"

// DefaultCurrency is the currency tips are charged in when none is configured.
const DefaultCurrency = "usd"

// Config holds the Stripe configuration
type Config struct {
	APIKey string `yaml:"api_key" json:"api_key" validate:"required"`
	// APIURL overrides the Stripe API base URL, e.g. to point the client to
	// a local Stripe twin. Empty means the public Stripe API.
	APIURL   string `yaml:"api_url" json:"api_url" validate:"omitempty,url"`
	Currency string `yaml:"currency" json:"currency" validate:"omitempty,currency"`
}

// currency returns the lowercase ISO currency code, falling back to
// DefaultCurrency.
func (c *Config) currency() string {
	if c.Currency == "" {
		return DefaultCurrency
	}
	return strings.ToLower(c.Currency)
}
