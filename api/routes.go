package api

const (
	// GET /ping to check the server is alive
	pingEndpoint = "/ping"

	// tip routes

	// POST /create-tip-payment to create a checkout session for a tip
	createTipPaymentEndpoint = "/create-tip-payment"
)
