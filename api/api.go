// Package api provides the HTTP API for the tipchef backend
//
//	@title			tipchef API
//	@version		1.0
//	@description	Tip payment API for the tipchef web application
//
//	@BasePath	/
//	@schemes	http https
//
//	@tag.name			tips
//	@tag.description	Tip payment operations
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tipchef/backend/stripe"
	"github.com/tipchef/backend/validator"
	"go.vocdoni.io/dvote/log"
)

// CheckoutSessionCreator creates a hosted checkout session for a single line
// item. *stripe.Client implements it.
type CheckoutSessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Config holds everything the API needs. A nil Checkout is valid: the server
// starts, and every tip payment request fails with a configuration error.
type Config struct {
	Host string
	Port int
	// WebAppURL is the base of the success and cancel redirect URLs. When
	// empty, the Origin header of each request is used instead.
	WebAppURL string
	Checkout  CheckoutSessionCreator
}

// API type represents the API HTTP server.
type API struct {
	host      string
	port      int
	router    *chi.Mux
	webAppURL string
	checkout  CheckoutSessionCreator
	validator *validator.Validator
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	return &API{
		host:      conf.Host,
		port:      conf.Port,
		webAppURL: conf.WebAppURL,
		checkout:  conf.Checkout,
		validator: validator.New(),
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.Router()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// Router returns the HTTP handler with all the routes and middleware. The
// router is built on the first call.
func (a *API) Router() http.Handler {
	if a.router == nil {
		a.router = a.initRouter()
	}
	return a.router
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() *chi.Mux {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: corsAllowedHeaders,
		MaxAge:         300, // Maximum value not ignored by any of major browsers
		// let preflights reach allowAnyOrigin and preflightHandler
		OptionsPassthrough: true,
	}).Handler)
	r.Use(allowAnyOrigin)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(recoverer)
	r.Use(middleware.Timeout(45 * time.Second))

	r.Get(pingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(".")); err != nil {
			log.Warnw("failed to write ping response", "error", err)
		}
	})
	// create a stripe checkout session for a tip
	log.Infow("new route", "method", "POST", "path", createTipPaymentEndpoint)
	r.Post(createTipPaymentEndpoint, a.createTipPaymentHandler)
	// answer preflight requests that the cors middleware lets through
	log.Infow("new route", "method", "OPTIONS", "path", createTipPaymentEndpoint)
	r.Options(createTipPaymentEndpoint, preflightHandler)
	return r
}
