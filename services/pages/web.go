package pages

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
	"github.com/MarcGrol/subscriptiondemo/services/secretbridge"
	"github.com/MarcGrol/subscriptiondemo/services/widgethost"
)

//go:embed templates
var templateFolder embed.FS
var (
	checkoutPageTemplate *template.Template
	pricingPageTemplate  *template.Template
)

func init() {
	checkoutPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/index.html"))
	pricingPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/pricing.html"))
}

//go:generate mockgen -source=web.go -package pages -destination backend_mock.go CheckoutBackend
type CheckoutBackend interface {
	SecretSource(r *http.Request) secretbridge.SecretSource
}

type Config struct {
	PublishableKey string
	PricingTable   widgethost.PricingTableConfig
}

type webService struct {
	logger       mylog.Logger
	checkoutCfg  widgethost.EmbeddedCheckoutConfig
	pricingTable *widgethost.PricingTable
	backend      CheckoutBackend
}

func NewWebService(cfg Config, backend CheckoutBackend) (*webService, error) {
	checkoutCfg := widgethost.EmbeddedCheckoutConfig{PublishableKey: cfg.PublishableKey}
	err := checkoutCfg.Validate()
	if err != nil {
		return nil, err
	}

	pricingTable, err := widgethost.NewPricingTable(cfg.PricingTable)
	if err != nil {
		return nil, err
	}

	return &webService{
		logger:       mylog.New("pages"),
		checkoutCfg:  checkoutCfg,
		pricingTable: pricingTable,
		backend:      backend,
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/", s.checkoutPage()).Methods("GET")
	router.HandleFunc("/pricing", s.pricingPage()).Methods("GET")

	return nil
}

type checkoutPageInfo struct {
	PublishableKey string
	ClientSecret   string
	ContainerID    string
}

// checkoutPage mounts a fresh embedded checkout for every page load.
func (s *webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		checkout, err := widgethost.NewEmbeddedCheckout(s.checkoutCfg, secretbridge.New(s.backend.SecretSource(r)))
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}

		session, err := checkout.Mount(c)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = checkoutPageTemplate.Execute(w, checkoutPageInfo{
			PublishableKey: session.PublishableKey,
			// the typed secret redacts itself when printed
			ClientSecret: string(session.ClientSecret),
			ContainerID:  "checkout",
		})
		if err != nil {
			errorWriter.WriteError(c, w, 3, myerrors.NewInternalError(fmt.Errorf("error executing template: %s", err)))
			return
		}
	}
}

type pricingPageInfo struct {
	ScriptURL      string
	ContainerID    string
	Element        template.HTML
	FailureMessage string
}

func (s *webService) pricingPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := pricingPageTemplate.Execute(w, pricingPageInfo{
			ScriptURL:      s.pricingTable.ScriptURL(),
			ContainerID:    "pricing-table",
			Element:        s.pricingTable.Element().HTML(),
			FailureMessage: widgethost.ScriptLoadFailureMessage,
		})
		if err != nil {
			errorWriter.WriteError(c, w, 4, myerrors.NewInternalError(fmt.Errorf("error executing template: %s", err)))
			return
		}
	}
}
