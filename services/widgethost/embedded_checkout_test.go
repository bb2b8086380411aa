package widgethost

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
	"github.com/MarcGrol/subscriptiondemo/services/secretbridge"
)

const publishableKey = "pk_test_51Rjj0Q2UEsSbvoM0yh3tqhHfwDmz7hRhwmHUsGF6QL7aKBc1eTTIodavrclPfqjPSCewv5TU89UfDR7IG9nOIfUq00d6fqfr2k"

func TestEmbeddedCheckout(t *testing.T) {
	c := context.TODO()

	t.Run("Mount initializes with fetched secret", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		fetcher := NewMockSecretFetcher(ctrl)
		fetcher.EXPECT().FetchClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_test_abc123_secret_xyz"), nil)
		sut, err := NewEmbeddedCheckout(EmbeddedCheckoutConfig{PublishableKey: publishableKey}, fetcher)
		assert.NoError(t, err)

		// when
		session, err := sut.Mount(c)

		// then
		assert.NoError(t, err)
		assert.Equal(t, CheckoutSession{
			PublishableKey: publishableKey,
			ClientSecret:   "cs_test_abc123_secret_xyz",
		}, session)
		mounted, ok := sut.Session()
		assert.True(t, ok)
		assert.Equal(t, session, mounted)
	})

	t.Run("At most one fetch per mount cycle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		fetcher := NewMockSecretFetcher(ctrl)
		fetcher.EXPECT().FetchClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_1"), nil).Times(1)
		sut, err := NewEmbeddedCheckout(EmbeddedCheckoutConfig{PublishableKey: publishableKey}, fetcher)
		assert.NoError(t, err)

		// when
		_, err = sut.Mount(c)
		assert.NoError(t, err)
		_, err = sut.Mount(c)

		// then
		assert.ErrorIs(t, err, ErrAlreadyMounted)
	})

	t.Run("Remount after unmount fetches a fresh secret", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		fetcher := NewMockSecretFetcher(ctrl)
		gomock.InOrder(
			fetcher.EXPECT().FetchClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_1"), nil),
			fetcher.EXPECT().FetchClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_2"), nil),
		)
		sut, err := NewEmbeddedCheckout(EmbeddedCheckoutConfig{PublishableKey: publishableKey}, fetcher)
		assert.NoError(t, err)

		// when
		first, err := sut.Mount(c)
		assert.NoError(t, err)
		sut.Unmount()
		_, mounted := sut.Session()
		assert.False(t, mounted)
		second, err := sut.Mount(c)
		assert.NoError(t, err)

		// then
		assert.Equal(t, checkoutapi.ClientSecret("cs_1"), first.ClientSecret)
		assert.Equal(t, checkoutapi.ClientSecret("cs_2"), second.ClientSecret)
	})

	t.Run("Failed fetch leaves checkout unmounted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		fetchErr := fmt.Errorf("wrapped: %w", secretbridge.ErrSecretUnavailable)
		fetcher := NewMockSecretFetcher(ctrl)
		fetcher.EXPECT().FetchClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret(""), fetchErr)
		sut, err := NewEmbeddedCheckout(EmbeddedCheckoutConfig{PublishableKey: publishableKey}, fetcher)
		assert.NoError(t, err)

		// when
		_, err = sut.Mount(c)

		// then
		assert.ErrorIs(t, err, secretbridge.ErrSecretUnavailable)
		_, mounted := sut.Session()
		assert.False(t, mounted)
	})

	t.Run("End to end with bridge", func(t *testing.T) {
		calls := 0
		bridge := secretbridge.New(secretbridge.SourceFunc(func(c context.Context) (checkoutapi.ClientSecret, error) {
			calls++
			return "cs_test_abc123_secret_xyz", nil
		}))
		sut, err := NewEmbeddedCheckout(EmbeddedCheckoutConfig{PublishableKey: publishableKey}, bridge)
		assert.NoError(t, err)

		session, err := sut.Mount(c)

		assert.NoError(t, err)
		assert.Equal(t, "cs_test_abc123_secret_xyz", string(session.ClientSecret))
		assert.Equal(t, 1, calls)
	})
}

func TestEmbeddedCheckoutConfig(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		ok   bool
	}{
		{name: "Valid", key: publishableKey, ok: true},
		{name: "Missing", key: "", ok: false},
		{name: "Secret key instead of publishable key", key: "sk_test_123", ok: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEmbeddedCheckout(EmbeddedCheckoutConfig{PublishableKey: tc.key}, NewMockSecretFetcher(gomock.NewController(t)))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}

	t.Run("Missing fetcher", func(t *testing.T) {
		_, err := NewEmbeddedCheckout(EmbeddedCheckoutConfig{PublishableKey: publishableKey}, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
