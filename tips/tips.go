// Package tips holds the rules that turn a tip intent into the checkout
// session a chef's supporter is sent to: amount validation and conversion,
// line item labels, session metadata and redirect targets.
package tips

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultChefName labels the line item when the request carries no chef name.
	DefaultChefName = "Chef"
	// DefaultDescription describes the line item when the tip has no message.
	DefaultDescription = "Thank you for your generous tip!"

	// metadata keys stored on the checkout session
	MetadataChefID     = "chefId"
	MetadataChefName   = "chefName"
	MetadataTipMessage = "tipMessage"

	successPath = "/tip-success"
	chefPath    = "/chef/"
)

// ErrInvalidAmount is returned for missing, non-numeric, zero or negative tip
// amounts, and for amounts that cannot be represented in minor units.
var ErrInvalidAmount = errors.New("invalid tip amount")

// maxAmount keeps amount*100 well inside the int64 range.
const maxAmount = float64(math.MaxInt64 / 1000)

// TipRequest is the body of a tip payment request. Amount is kept raw so a
// non-numeric value is reported as an invalid amount, not as a malformed body.
type TipRequest struct {
	Amount   json.RawMessage `json:"amount"`
	ChefID   string          `json:"chefId" validate:"required"`
	ChefName string          `json:"chefName,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// ParseAmount decodes the raw amount of a tip request. Only JSON numbers are
// accepted: numeric strings are rejected like any other non-numeric value.
func ParseAmount(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	if raw[0] == '"' {
		return 0, fmt.Errorf("%w: amount must be a number", ErrInvalidAmount)
	}
	var amount float64
	if err := json.Unmarshal(raw, &amount); err != nil {
		return 0, fmt.Errorf("%w: amount must be a number", ErrInvalidAmount)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}
	if amount > maxAmount {
		return 0, fmt.Errorf("%w: amount is too large", ErrInvalidAmount)
	}
	if MinorUnits(amount) == 0 {
		return 0, fmt.Errorf("%w: amount is below the smallest currency unit", ErrInvalidAmount)
	}
	return amount, nil
}

// MinorUnits converts an amount in major currency units to minor units
// (cents), rounding amount*100 to the nearest integer with halves rounded away
// from zero. The product is computed in float64, so 1.005 converts to 100.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatAmount renders the amount in its shortest decimal form (25, 9.99).
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// LineItemName returns the product name shown on the checkout page.
func LineItemName(chefName string) string {
	if chefName == "" {
		chefName = DefaultChefName
	}
	return "Tip for " + chefName
}

// LineItemDescription returns the product description shown on the checkout
// page: the supporter's message when there is one.
func LineItemDescription(message string) string {
	if message == "" {
		return DefaultDescription
	}
	return `Message: "` + message + `"`
}

// Metadata returns the checkout session metadata. The three keys are always
// present, empty when the request did not carry the value.
func Metadata(req *TipRequest) map[string]string {
	return map[string]string{
		MetadataChefID:     req.ChefID,
		MetadataChefName:   req.ChefName,
		MetadataTipMessage: req.Message,
	}
}

// SuccessURL returns the page the supporter lands on after paying.
func SuccessURL(base, chefID string, amount float64) string {
	q := url.Values{}
	q.Set("chef", chefID)
	q.Set("amount", FormatAmount(amount))
	return strings.TrimRight(base, "/") + successPath + "?" + q.Encode()
}

// CancelURL returns the page the supporter goes back to when the checkout is
// abandoned: the chef profile.
func CancelURL(base, chefID string) string {
	return strings.TrimRight(base, "/") + chefPath + url.PathEscape(chefID)
}

// IdempotencyKey derives the provider idempotency key of a tip from the chef,
// the amount in minor units, the message and a client supplied nonce. Without
// a nonce there is no key and every request creates a new session.
func IdempotencyKey(req *TipRequest, minorUnits int64, nonce string) string {
	if nonce == "" {
		return ""
	}
	h := sha256.New()
	for _, part := range []string{req.ChefID, strconv.FormatInt(minorUnits, 10), req.Message, nonce} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "tip-" + hex.EncodeToString(h.Sum(nil))
}
