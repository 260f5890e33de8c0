package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/tipchef/backend/errors"
	"github.com/tipchef/backend/stripe"
	"github.com/tipchef/backend/tips"
)

// createTipPaymentHandler godoc
//
//	@Summary		Create a tip checkout session
//	@Description	Validate a tip for a chef and create a Stripe hosted checkout session for it. Every call creates
//	@Description	a new session unless the client sends an Idempotency-Key header. All errors are returned with
//	@Description	status 500 and a human readable message.
//	@Tags			tips
//	@Accept			json
//	@Produce		json
//	@Param			request			body		TipPaymentRequest	true	"Tip information"
//	@Param			Idempotency-Key	header		string				false	"Client nonce used to deduplicate retries"
//	@Success		200				{object}	TipPaymentResponse
//	@Failure		500				{object}	errors.Error	"Configuration, validation or Stripe error"
//	@Router			/create-tip-payment [post]
func (a *API) createTipPaymentHandler(w http.ResponseWriter, r *http.Request) {
	logStep("function started", "requestId", requestID(r))

	if a.checkout == nil {
		logStep("ERROR", "message", errors.ErrPaymentsNotConfigured.Error())
		errors.ErrPaymentsNotConfigured.Write(w)
		return
	}
	logStep("stripe key verified")

	req := &tips.TipRequest{}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		logStep("ERROR", "message", err.Error())
		errors.ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if err := json.Unmarshal(body, req); err != nil {
		logStep("ERROR", "message", err.Error())
		errors.ErrMalformedBody.Write(w)
		return
	}
	logStep("request data received",
		"amount", string(req.Amount),
		"chefId", req.ChefID,
		"chefName", req.ChefName,
		"message", req.Message)

	if err := a.validator.Validate(req); err != nil {
		logStep("ERROR", "message", err.Error())
		errors.ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	amount, err := tips.ParseAmount(req.Amount)
	if err != nil {
		logStep("ERROR", "message", err.Error())
		errors.ErrInvalidTipAmount.Write(w)
		return
	}
	amountInCents := tips.MinorUnits(amount)
	logStep("amount converted to cents", "amountInCents", amountInCents)

	base := a.webAppURL
	if base == "" {
		base = r.Header.Get("Origin")
	}
	if base == "" {
		logStep("ERROR", "message", "no redirect base URL")
		errors.ErrMalformedBody.With("missing Origin header").Write(w)
		return
	}

	session, err := a.checkout.CreateCheckoutSession(r.Context(), &stripe.CheckoutSessionParams{
		LineItem: stripe.LineItem{
			Name:        tips.LineItemName(req.ChefName),
			Description: tips.LineItemDescription(req.Message),
			UnitAmount:  amountInCents,
			Quantity:    1,
		},
		SuccessURL:     tips.SuccessURL(base, req.ChefID, amount),
		CancelURL:      tips.CancelURL(base, req.ChefID),
		Metadata:       tips.Metadata(req),
		IdempotencyKey: tips.IdempotencyKey(req, amountInCents, r.Header.Get(idempotencyKeyHeader)),
	})
	if err != nil {
		logStep("ERROR", "message", err.Error(),
			"retryable", stripe.IsRetryableError(err),
			"temporary", stripe.IsTemporaryError(err))
		errors.ErrStripeError.Wrap(stderrors.New(stripe.ProviderMessage(err))).Write(w)
		return
	}
	logStep("checkout session created", "sessionId", session.ID, "url", session.URL)

	httpWriteJSON(w, &TipPaymentResponse{URL: session.URL})
}
