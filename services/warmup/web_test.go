package warmup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/subscriptiondemo/lib/mystore"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
)

func TestWarmup(t *testing.T) {

	t.Run("Store reachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, storer := setup(t, ctrl)

		// given
		storer.EXPECT().Get(gomock.Any(), "_warmup").Return(checkoutapi.CheckoutContext{}, false, nil)

		// when
		request, err := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "Successfully processed warmup request")
	})

	t.Run("Store unreachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, storer := setup(t, ctrl)

		// given
		storer.EXPECT().Get(gomock.Any(), "_warmup").Return(checkoutapi.CheckoutContext{}, false, fmt.Errorf("datastore: dial timeout"))

		// when
		request, err := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 503, response.Code)
		assert.Contains(t, response.Body.String(), "dial timeout")
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *mystore.MockStore[checkoutapi.CheckoutContext]) {
	storer := mystore.NewMockStore[checkoutapi.CheckoutContext](ctrl)

	router := mux.NewRouter()
	err := NewService(storer).RegisterEndpoints(context.TODO(), router)
	assert.NoError(t, err)

	return router, storer
}
