package pages

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
	"github.com/MarcGrol/subscriptiondemo/services/secretbridge"
	"github.com/MarcGrol/subscriptiondemo/services/widgethost"
)

const (
	publishableKey = "pk_test_51Rjj0Q2UEsSbvoM0yh3tqhHfwDmz7hRhwmHUsGF6QL7aKBc1eTTIodavrclPfqjPSCewv5TU89UfDR7IG9nOIfUq00d6fqfr2k"
	tableID        = "prctbl_1RkHaZ2UEsSbvoM0rFUltybU"
)

func TestCheckoutPage(t *testing.T) {

	t.Run("Page initializes checkout with exactly the fetched secret", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, backend := setup(t, ctrl)

		// given
		source := secretbridge.NewMockSecretSource(ctrl)
		source.EXPECT().CreateClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_test_abc123_secret_xyz"), nil).Times(1)
		backend.EXPECT().SecretSource(gomock.Any()).Return(source)

		// when
		request, err := http.NewRequest(http.MethodGet, "/", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, "text/html; charset=utf-8", response.Header().Get("Content-Type"))
		body := response.Body.String()
		assert.Contains(t, body, "Stripe Subscription Demo")
		assert.Contains(t, body, `href="/pricing"`)
		assert.Contains(t, body, `Promise.resolve("cs_test_abc123_secret_xyz")`)
		assert.Contains(t, body, `Stripe("`+publishableKey+`")`)
		assert.NotContains(t, body, "redacted")
	})

	t.Run("Every page load fetches a new secret", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, backend := setup(t, ctrl)

		// given
		source := secretbridge.NewMockSecretSource(ctrl)
		gomock.InOrder(
			source.EXPECT().CreateClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_1"), nil),
			source.EXPECT().CreateClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_2"), nil),
		)
		backend.EXPECT().SecretSource(gomock.Any()).Return(source).Times(2)

		for _, expected := range []string{"cs_1", "cs_2"} {
			// when
			request, err := http.NewRequest(http.MethodGet, "/", nil)
			assert.NoError(t, err)
			request.Host = "localhost:8888"
			response := httptest.NewRecorder()
			router.ServeHTTP(response, request)

			// then
			assert.Equal(t, 200, response.Code)
			assert.Contains(t, response.Body.String(), `Promise.resolve("`+expected+`")`)
		}
	})

	t.Run("Backend without secret", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, backend := setup(t, ctrl)

		// given
		backend.EXPECT().SecretSource(gomock.Any()).Return(secretbridge.SourceFunc(func(c context.Context) (checkoutapi.ClientSecret, error) {
			return "", nil
		}))

		// when
		request, err := http.NewRequest(http.MethodGet, "/", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 503, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.Contains(t, response.Body.String(), "client secret unavailable")
	})

	t.Run("Backend fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, backend := setup(t, ctrl)

		// given
		backend.EXPECT().SecretSource(gomock.Any()).Return(secretbridge.SourceFunc(func(c context.Context) (checkoutapi.ClientSecret, error) {
			return "", fmt.Errorf("stripe down")
		}))

		// when
		request, err := http.NewRequest(http.MethodGet, "/", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 503, response.Code)
		assert.Contains(t, response.Body.String(), "stripe down")
	})
}

func TestPricingPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	router, _ := setup(t, ctrl)

	// when
	request, err := http.NewRequest(http.MethodGet, "/pricing", nil)
	assert.NoError(t, err)
	request.Host = "localhost:8888"
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	// then
	assert.Equal(t, 200, response.Code)
	body := response.Body.String()
	assert.Contains(t, body, "Choose Your Plan")
	assert.Contains(t, body, `<div id="pricing-table"></div>`)
	assert.Contains(t, body, `<stripe-pricing-table pricing-table-id="`+tableID+`" publishable-key="`+publishableKey+`"></stripe-pricing-table>`)
	assert.Contains(t, body, `"https://js.stripe.com/v3/pricing-table.js"`)
	assert.Contains(t, body, "script.onerror")
}

func TestNewWebService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Invalid publishable key", func(t *testing.T) {
		_, err := NewWebService(Config{
			PublishableKey: "sk_test_123",
			PricingTable:   widgethost.PricingTableConfig{TableID: tableID, PublishableKey: publishableKey},
		}, NewMockCheckoutBackend(ctrl))
		assert.ErrorIs(t, err, widgethost.ErrInvalidConfig)
	})

	t.Run("Invalid pricing table", func(t *testing.T) {
		_, err := NewWebService(Config{
			PublishableKey: publishableKey,
			PricingTable:   widgethost.PricingTableConfig{PublishableKey: publishableKey},
		}, NewMockCheckoutBackend(ctrl))
		assert.ErrorIs(t, err, widgethost.ErrInvalidConfig)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *MockCheckoutBackend) {
	c := context.TODO()
	backend := NewMockCheckoutBackend(ctrl)

	sut, err := NewWebService(Config{
		PublishableKey: publishableKey,
		PricingTable: widgethost.PricingTableConfig{
			TableID:        tableID,
			PublishableKey: publishableKey,
		},
	}, backend)
	assert.NoError(t, err)

	router := mux.NewRouter()
	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return router, backend
}
