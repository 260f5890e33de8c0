package api

import "github.com/tipchef/backend/tips"

// TipPaymentRequest is the body of a POST /create-tip-payment request.
type TipPaymentRequest = tips.TipRequest

// TipPaymentResponse is returned when the checkout session is created. URL is
// the hosted checkout page the browser must navigate to.
type TipPaymentResponse struct {
	URL string `json:"url"`
}
