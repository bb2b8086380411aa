package checkoutstripe

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/subscriptiondemo/lib/mycontext"
	"github.com/MarcGrol/subscriptiondemo/lib/myerrors"
	"github.com/MarcGrol/subscriptiondemo/lib/myhttp"
	"github.com/MarcGrol/subscriptiondemo/lib/mylog"
	"github.com/MarcGrol/subscriptiondemo/lib/mypublisher"
	"github.com/MarcGrol/subscriptiondemo/lib/mystore"
	"github.com/MarcGrol/subscriptiondemo/lib/mytime"
	"github.com/MarcGrol/subscriptiondemo/lib/myuuid"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutevents"
	"github.com/MarcGrol/subscriptiondemo/services/secretbridge"
)

//go:embed templates
var templateFolder embed.FS
var (
	returnPageTemplate *template.Template
)

func init() {
	returnPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/return.html"))
}

type Config struct {
	APIKey  string
	PriceID string
}

type webService struct {
	logger    mylog.Logger
	service   *service
	publisher mypublisher.Publisher
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cfg Config, payer Payer, nower mytime.Nower, uuider myuuid.UUIDer, checkoutStore mystore.Store[checkoutapi.CheckoutContext], publisher mypublisher.Publisher) (*webService, error) {
	logger := mylog.New("checkoutstripe")
	s, err := newService(cfg, payer, logger, nower, uuider, checkoutStore, publisher)
	if err != nil {
		return nil, err
	}

	return &webService{
		logger:    logger,
		service:   s,
		publisher: publisher,
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return err
	}

	router.HandleFunc("/api/checkout/session", s.createSession()).Methods("POST")
	router.HandleFunc("/checkout/return", s.returnPage()).Methods("GET")

	return nil
}

// SecretSource exposes session creation for the given page request to the secret bridge.
func (s *webService) SecretSource(r *http.Request) secretbridge.SecretSource {
	hostname := myhttp.HostnameWithScheme(r)
	return secretbridge.SourceFunc(func(c context.Context) (checkoutapi.ClientSecret, error) {
		return s.service.createClientSecret(c, hostname, checkoutapi.SessionRequest{})
	})
}

type sessionResponse struct {
	ClientSecret string `json:"clientSecret"`
}

func (s *webService) createSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req, err := checkoutapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		hostname := myhttp.HostnameWithScheme(r)
		bridge := secretbridge.New(secretbridge.SourceFunc(func(c context.Context) (checkoutapi.ClientSecret, error) {
			return s.service.createClientSecret(c, hostname, req)
		}))

		secret, err := bridge.FetchClientSecret(c)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, sessionResponse{
			ClientSecret: string(secret),
		})
	}
}

func (s *webService) returnPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			errorWriter.WriteError(c, w, 3, myerrors.NewInvalidInputError(fmt.Errorf("missing session_id")))
			return
		}

		status, err := s.service.checkoutStatus(c, sessionID)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = returnPageTemplate.Execute(w, status)
		if err != nil {
			errorWriter.WriteError(c, w, 5, myerrors.NewInternalError(fmt.Errorf("error executing template: %s", err)))
			return
		}
	}
}
