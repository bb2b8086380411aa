// Package secretbridge carries a client secret from the trusted backend, where the
// provider's secret key lives, to whoever initializes the embedded checkout.
package secretbridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcGrol/subscriptiondemo/lib/myerrors"
	"github.com/MarcGrol/subscriptiondemo/lib/mylog"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
)

// ErrSecretUnavailable is returned when the backend did not hand out a usable client secret.
var ErrSecretUnavailable = errors.New("client secret unavailable")

// SecretSource is the trusted backend action that mints a client secret.
// It may return an empty secret: the bridge decides what that means.
//
//go:generate mockgen -source=bridge.go -package secretbridge -destination source_mock.go SecretSource
type SecretSource interface {
	CreateClientSecret(c context.Context) (checkoutapi.ClientSecret, error)
}

// SourceFunc adapts an ordinary function to a SecretSource.
type SourceFunc func(c context.Context) (checkoutapi.ClientSecret, error)

func (f SourceFunc) CreateClientSecret(c context.Context) (checkoutapi.ClientSecret, error) {
	return f(c)
}

type Bridge struct {
	source SecretSource
	logger mylog.Logger
}

func New(source SecretSource) *Bridge {
	return &Bridge{
		source: source,
		logger: mylog.New("secretbridge"),
	}
}

// FetchClientSecret asks the source for a fresh secret on every call: no caching, no retries.
// The returned error wraps ErrSecretUnavailable and maps onto http status 503.
func (b *Bridge) FetchClientSecret(c context.Context) (checkoutapi.ClientSecret, error) {
	secret, err := b.source.CreateClientSecret(c)
	if err != nil {
		b.logger.Log(c, "", mylog.SeverityWarn, "Error fetching client secret: %s", err)
		return "", myerrors.NewUnavailableError(fmt.Errorf("%w: %w", ErrSecretUnavailable, err))
	}
	if secret == "" {
		b.logger.Log(c, "", mylog.SeverityWarn, "Backend returned an empty client secret")
		return "", myerrors.NewUnavailableError(ErrSecretUnavailable)
	}

	return secret, nil
}
