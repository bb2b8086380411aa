package warmup

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/subscriptiondemo/lib/mycontext"
	"github.com/MarcGrol/subscriptiondemo/lib/myerrors"
	"github.com/MarcGrol/subscriptiondemo/lib/myhttp"
	"github.com/MarcGrol/subscriptiondemo/lib/mylog"
	"github.com/MarcGrol/subscriptiondemo/lib/mystore"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
)

const sentinelUID = "_warmup"

type webService struct {
	logger        mylog.Logger
	checkoutStore mystore.Store[checkoutapi.CheckoutContext]
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(checkoutStore mystore.Store[checkoutapi.CheckoutContext]) *webService {
	return &webService{
		logger:        mylog.New("warmup"),
		checkoutStore: checkoutStore,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")

	return nil
}

// warmupPage opens the connection to the store before real traffic arrives.
func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		_, _, err := s.checkoutStore.Get(c, sentinelUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(err))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
