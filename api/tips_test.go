package api

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/tipchef/backend/stripe"
	"github.com/tipchef/backend/tips"
)

func TestCreateTipPayment(t *testing.T) {
	c := qt.New(t)

	checkout := &fakeCheckout{}
	h := testServer(checkout, testWebAppURL)

	w := testRequest(t, h, http.MethodPost, map[string]any{
		"amount":   25,
		"chefId":   "chef-1",
		"chefName": "Gordon",
		"message":  "great risotto",
	}, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	c.Assert(w.Header().Get("Content-Type"), qt.Equals, "application/json")
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "*")
	c.Assert(decodeBody(c, w), qt.DeepEquals, map[string]any{
		"url": "https://checkout.stripe.com/c/pay/cs_test_1",
	})

	c.Assert(checkout.callCount(), qt.Equals, 1)
	params := checkout.calls[0]
	c.Assert(params.LineItem, qt.DeepEquals, stripe.LineItem{
		Name:        "Tip for Gordon",
		Description: `Message: "great risotto"`,
		UnitAmount:  2500,
		Quantity:    1,
	})
	c.Assert(params.SuccessURL, qt.Equals, "https://tipchef.test/tip-success?amount=25&chef=chef-1")
	c.Assert(params.CancelURL, qt.Equals, "https://tipchef.test/chef/chef-1")
	c.Assert(params.Metadata, qt.DeepEquals, map[string]string{
		"chefId":     "chef-1",
		"chefName":   "Gordon",
		"tipMessage": "great risotto",
	})
	c.Assert(params.IdempotencyKey, qt.Equals, "")
}

func TestCreateTipPaymentDefaults(t *testing.T) {
	c := qt.New(t)

	checkout := &fakeCheckout{}
	h := testServer(checkout, testWebAppURL)

	w := testRequest(t, h, http.MethodPost, `{"amount": 9.99, "chefId": "chef-2"}`, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))

	params := checkout.calls[0]
	c.Assert(params.LineItem.Name, qt.Contains, "Chef")
	c.Assert(params.LineItem.Name, qt.Equals, "Tip for Chef")
	c.Assert(params.LineItem.Description, qt.Equals, tips.DefaultDescription)
	c.Assert(params.LineItem.UnitAmount, qt.Equals, int64(999))
	c.Assert(params.SuccessURL, qt.Equals, "https://tipchef.test/tip-success?amount=9.99&chef=chef-2")
	// optional values are empty, never omitted
	c.Assert(params.Metadata, qt.DeepEquals, map[string]string{
		"chefId":     "chef-2",
		"chefName":   "",
		"tipMessage": "",
	})
}

func TestCreateTipPaymentOriginFallback(t *testing.T) {
	c := qt.New(t)

	checkout := &fakeCheckout{}
	h := testServer(checkout, "")

	w := testRequest(t, h, http.MethodPost, `{"amount": 5, "chefId": "chef 3"}`,
		map[string]string{"Origin": testOrigin})
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Not(qt.Equals), "")

	params := checkout.calls[0]
	success, err := url.Parse(params.SuccessURL)
	c.Assert(err, qt.IsNil)
	c.Assert(success.Host, qt.Equals, "preview.tipchef.test")
	c.Assert(success.Query().Get("chef"), qt.Equals, "chef 3")
	c.Assert(success.Query().Get("amount"), qt.Equals, "5")
	c.Assert(params.CancelURL, qt.Equals, testOrigin+"/chef/chef%203")

	// neither a configured web app URL nor an Origin header
	w = testRequest(t, h, http.MethodPost, `{"amount": 5, "chefId": "chef-3"}`, nil)
	c.Assert(w.Code, qt.Equals, http.StatusInternalServerError)
	c.Assert(decodeBody(c, w)["error"], qt.Contains, "missing Origin header")
	c.Assert(checkout.callCount(), qt.Equals, 1)
}

func TestCreateTipPaymentInvalidAmount(t *testing.T) {
	c := qt.New(t)

	for _, body := range []string{
		`{"chefId": "chef-1"}`,
		`{"amount": null, "chefId": "chef-1"}`,
		`{"amount": 0, "chefId": "chef-1"}`,
		`{"amount": -10, "chefId": "chef-1"}`,
		`{"amount": "ten", "chefId": "chef-1"}`,
		`{"amount": "10", "chefId": "chef-1"}`,
		`{"amount": [10], "chefId": "chef-1"}`,
	} {
		checkout := &fakeCheckout{}
		w := testRequest(t, testServer(checkout, testWebAppURL), http.MethodPost, body, nil)
		c.Assert(w.Code, qt.Equals, http.StatusInternalServerError, qt.Commentf("body: %s", body))
		c.Assert(decodeBody(c, w)["error"], qt.Equals, "invalid tip amount", qt.Commentf("body: %s", body))
		c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "*")
		c.Assert(checkout.callCount(), qt.Equals, 0, qt.Commentf("body: %s", body))
	}
}

func TestCreateTipPaymentMalformedRequest(t *testing.T) {
	c := qt.New(t)

	for _, tc := range []struct {
		body    string
		message string
	}{
		{`not json`, "invalid JSON request body"},
		{``, "invalid JSON request body"},
		{`{"amount": 10, "chefId": 42}`, "invalid JSON request body"},
		{`{"amount": 10}`, "invalid JSON request body: chefId: This field is required"},
		{`{"amount": 10, "chefId": ""}`, "invalid JSON request body: chefId: This field is required"},
	} {
		checkout := &fakeCheckout{}
		w := testRequest(t, testServer(checkout, testWebAppURL), http.MethodPost, tc.body, nil)
		c.Assert(w.Code, qt.Equals, http.StatusInternalServerError, qt.Commentf("body: %s", tc.body))
		c.Assert(decodeBody(c, w)["error"], qt.Equals, tc.message, qt.Commentf("body: %s", tc.body))
		c.Assert(checkout.callCount(), qt.Equals, 0)
	}
}

func TestCreateTipPaymentNotConfigured(t *testing.T) {
	c := qt.New(t)

	w := testRequest(t, testServer(nil, testWebAppURL), http.MethodPost,
		`{"amount": 10, "chefId": "chef-1"}`, nil)
	c.Assert(w.Code, qt.Equals, http.StatusInternalServerError)
	c.Assert(decodeBody(c, w)["error"], qt.Equals, "stripe secret key is not set")
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "*")
}

func TestCreateTipPaymentProviderError(t *testing.T) {
	c := qt.New(t)

	checkout := &fakeCheckout{err: errors.New("Your card was declined.")}
	w := testRequest(t, testServer(checkout, testWebAppURL), http.MethodPost,
		`{"amount": 10, "chefId": "chef-1"}`, nil)
	c.Assert(w.Code, qt.Equals, http.StatusInternalServerError)
	body := decodeBody(c, w)
	c.Assert(body["error"], qt.Equals, "Your card was declined.")
	c.Assert(body["code"], qt.Equals, float64(50005))
	c.Assert(checkout.callCount(), qt.Equals, 1)

	// a typed Stripe error forwards Stripe's own message
	checkout = &fakeCheckout{err: stripe.NewStripeError("api_call_failed", "Invalid API Key provided", nil)}
	w = testRequest(t, testServer(checkout, testWebAppURL), http.MethodPost,
		`{"amount": 10, "chefId": "chef-1"}`, nil)
	c.Assert(decodeBody(c, w)["error"], qt.Equals, "Invalid API Key provided")
	// no automatic retries
	c.Assert(checkout.callCount(), qt.Equals, 1)
}

func TestCreateTipPaymentNotIdempotent(t *testing.T) {
	c := qt.New(t)

	checkout := &fakeCheckout{}
	h := testServer(checkout, testWebAppURL)
	body := `{"amount": 10, "chefId": "chef-1", "message": "again"}`

	first := decodeBody(c, testRequest(t, h, http.MethodPost, body, nil))
	second := decodeBody(c, testRequest(t, h, http.MethodPost, body, nil))
	c.Assert(first["url"], qt.Not(qt.Equals), second["url"])
	c.Assert(checkout.callCount(), qt.Equals, 2)
}

func TestCreateTipPaymentIdempotencyKey(t *testing.T) {
	c := qt.New(t)

	checkout := &fakeCheckout{}
	h := testServer(checkout, testWebAppURL)
	body := `{"amount": 10, "chefId": "chef-1"}`
	headers := map[string]string{"Idempotency-Key": "nonce-1"}

	testRequest(t, h, http.MethodPost, body, headers)
	testRequest(t, h, http.MethodPost, body, headers)
	c.Assert(checkout.callCount(), qt.Equals, 2)
	c.Assert(checkout.calls[0].IdempotencyKey, qt.Not(qt.Equals), "")
	c.Assert(checkout.calls[0].IdempotencyKey, qt.Equals, checkout.calls[1].IdempotencyKey)
}

func TestCreateTipPaymentPreflight(t *testing.T) {
	c := qt.New(t)

	checkout := &fakeCheckout{}
	h := testServer(checkout, testWebAppURL)

	// browser preflight
	w := testRequest(t, h, http.MethodOptions, nil, map[string]string{
		"Origin":                         testOrigin,
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "content-type, apikey",
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.Len(), qt.Equals, 0)
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Not(qt.Equals), "")

	// preflight naming a header outside the allowed list still gets the
	// permissive headers
	w = testRequest(t, h, http.MethodOptions, nil, map[string]string{
		"Origin":                         testOrigin,
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "content-type, x-region",
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.Len(), qt.Equals, 0)
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "*")
	c.Assert(w.Header().Get("Access-Control-Allow-Headers"), qt.Contains, "content-type")

	// bare OPTIONS request
	w = testRequest(t, h, http.MethodOptions, nil, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.Len(), qt.Equals, 0)
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "*")
	c.Assert(w.Header().Get("Access-Control-Allow-Headers"), qt.Contains, "content-type")

	c.Assert(checkout.callCount(), qt.Equals, 0)
}
