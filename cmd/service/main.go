package main

import (
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tipchef/backend/api"
	"github.com/tipchef/backend/stripe"
	"go.vocdoni.io/dvote/log"
)

func main() {
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.String("logLevel", "info", "log level (debug, info, warn, error)")
	flag.StringP("webAppURL", "w", "", "web app base URL used for the checkout redirects (defaults to the request Origin)")
	flag.String("stripeApiSecret", "", "Stripe secret API key")
	flag.String("stripeApiURL", "", "Stripe API base URL override, e.g. a local Stripe twin")
	flag.String("stripeCurrency", stripe.DefaultCurrency, "currency tips are charged in")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("TIPCHEF")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	log.Init(viper.GetString("logLevel"), "stdout", nil)
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	webAppURL := viper.GetString("webAppURL")
	stripeConf := &stripe.Config{
		APIKey:   viper.GetString("stripeApiSecret"),
		APIURL:   viper.GetString("stripeApiURL"),
		Currency: viper.GetString("stripeCurrency"),
	}
	apiConf := &api.Config{
		Host:      host,
		Port:      port,
		WebAppURL: webAppURL,
	}
	// without a Stripe key the server still starts, but every tip payment
	// request fails with a configuration error
	if stripeConf.APIKey == "" {
		log.Warnw("stripe secret key is not set, tip payments are disabled")
	} else {
		stripeClient, err := stripe.NewClient(stripeConf)
		if err != nil {
			log.Fatalf("could not create the Stripe client: %v", err)
		}
		apiConf.Checkout = stripeClient
		log.Infow("stripe client created", "currency", stripeConf.Currency, "apiURL", stripeConf.APIURL)
	}
	// create the local API server
	api.New(apiConf).Start()
	// wait forever, as the server is running in a goroutine
	log.Infow("server started", "host", host, "port", port)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
