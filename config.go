package main

import (
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix             = "STRIPEDEMO"
	defaultPricingTableID = "prctbl_1RkHaZ2UEsSbvoM0rFUltybU"
)

type config struct {
	Port                       int
	StripeSecretKey            string
	StripePublishableKey       string
	StripePriceID              string
	PricingTableID             string
	PricingTablePublishableKey string
}

// loadConfig reads flags first and lets STRIPEDEMO_* environment variables override them.
func loadConfig(args []string) (config, error) {
	flags := flag.NewFlagSet("subscriptiondemo", flag.ContinueOnError)
	flags.IntP("port", "p", 8080, "listen port")
	flags.String("stripe-secret-key", "", "Stripe secret api key (sk_...)")
	flags.String("stripe-publishable-key", "", "Stripe publishable key (pk_...)")
	flags.String("stripe-price-id", "", "Stripe price of the subscription sold through the embedded checkout")
	flags.String("pricing-table-id", defaultPricingTableID, "Stripe pricing table to show on /pricing")
	flags.String("pricing-table-publishable-key", "", "publishable key of the pricing table account (defaults to stripe-publishable-key)")
	err := flags.Parse(args)
	if err != nil {
		return config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	err = v.BindPFlags(flags)
	if err != nil {
		return config{}, err
	}
	// App Engine and Cloud Run tell us where to listen through PORT
	err = v.BindEnv("port", envPrefix+"_PORT", "PORT")
	if err != nil {
		return config{}, err
	}
	v.AutomaticEnv()

	cfg := config{
		Port:                       v.GetInt("port"),
		StripeSecretKey:            v.GetString("stripe-secret-key"),
		StripePublishableKey:       v.GetString("stripe-publishable-key"),
		StripePriceID:              v.GetString("stripe-price-id"),
		PricingTableID:             v.GetString("pricing-table-id"),
		PricingTablePublishableKey: v.GetString("pricing-table-publishable-key"),
	}
	if cfg.PricingTablePublishableKey == "" {
		cfg.PricingTablePublishableKey = cfg.StripePublishableKey
	}

	return cfg, cfg.validate()
}

func (cfg config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{key: "stripe-secret-key", value: cfg.StripeSecretKey},
		{key: "stripe-publishable-key", value: cfg.StripePublishableKey},
		{key: "stripe-price-id", value: cfg.StripePriceID},
		{key: "pricing-table-id", value: cfg.PricingTableID},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required config %s (flag --%s or env %s_%s)", r.key, r.key, envPrefix, strings.ToUpper(strings.ReplaceAll(r.key, "-", "_")))
		}
	}
	if !strings.HasPrefix(cfg.StripePublishableKey, "pk_") {
		return fmt.Errorf("stripe-publishable-key must start with pk_")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	return nil
}
