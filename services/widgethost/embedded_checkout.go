package widgethost

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MarcGrol/subscriptiondemo/lib/mylog"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
)

var (
	ErrAlreadyMounted = errors.New("embedded checkout already mounted")
	ErrInvalidConfig  = errors.New("invalid widget config")
)

//go:generate mockgen -source=embedded_checkout.go -package widgethost -destination fetcher_mock.go SecretFetcher
type SecretFetcher interface {
	FetchClientSecret(c context.Context) (checkoutapi.ClientSecret, error)
}

type EmbeddedCheckoutConfig struct {
	PublishableKey string
}

func (cfg EmbeddedCheckoutConfig) Validate() error {
	return validatePublishableKey(cfg.PublishableKey)
}

func validatePublishableKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: missing publishable key", ErrInvalidConfig)
	}
	if !strings.HasPrefix(key, "pk_") {
		return fmt.Errorf("%w: publishable key must start with pk_", ErrInvalidConfig)
	}
	return nil
}

// CheckoutSession is what the embedded checkout gets initialized with.
type CheckoutSession struct {
	PublishableKey string
	ClientSecret   checkoutapi.ClientSecret
}

// EmbeddedCheckout owns the lifecycle of one embedded checkout: unmounted -> mounted.
type EmbeddedCheckout struct {
	config  EmbeddedCheckoutConfig
	fetcher SecretFetcher
	logger  mylog.Logger

	sync.Mutex
	mounted *CheckoutSession
}

func NewEmbeddedCheckout(cfg EmbeddedCheckoutConfig, fetcher SecretFetcher) (*EmbeddedCheckout, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if fetcher == nil {
		return nil, fmt.Errorf("%w: missing secret fetcher", ErrInvalidConfig)
	}

	return &EmbeddedCheckout{
		config:  cfg,
		fetcher: fetcher,
		logger:  mylog.New("widgethost"),
	}, nil
}

// Mount first obtains a client secret and only then initializes the checkout with it.
// The secret is fetched once per mount: mounting a mounted checkout fails without a fetch.
// When the fetch fails the checkout stays unmounted and the error is returned as is.
func (h *EmbeddedCheckout) Mount(c context.Context) (CheckoutSession, error) {
	h.Lock()
	defer h.Unlock()

	if h.mounted != nil {
		return CheckoutSession{}, ErrAlreadyMounted
	}

	secret, err := h.fetcher.FetchClientSecret(c)
	if err != nil {
		return CheckoutSession{}, err
	}

	h.mounted = &CheckoutSession{
		PublishableKey: h.config.PublishableKey,
		ClientSecret:   secret,
	}

	h.logger.Log(c, "", mylog.SeverityDebug, "Mounted embedded checkout")

	return *h.mounted, nil
}

// Unmount makes the checkout mountable again; the next Mount fetches a fresh secret.
func (h *EmbeddedCheckout) Unmount() {
	h.Lock()
	defer h.Unlock()

	h.mounted = nil
}

func (h *EmbeddedCheckout) Session() (CheckoutSession, bool) {
	h.Lock()
	defer h.Unlock()

	if h.mounted == nil {
		return CheckoutSession{}, false
	}
	return *h.mounted, true
}
