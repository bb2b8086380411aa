package checkoutapi

import (
	"fmt"
	"net/http"
	"net/url"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/subscriptiondemo/lib/myerrors"
)

// ClientSecret is handed out by the payment provider for exactly one checkout session.
// It is passed on verbatim and never stored or logged.
type ClientSecret string

func (s ClientSecret) String() string {
	return "<redacted>"
}

type Mode string

const (
	ModeSubscription Mode = "subscription"
	ModePayment      Mode = "payment"
)

// SessionRequest carries the optional overrides a caller can pass when asking for a checkout session.
// Empty fields fall back to configured defaults.
type SessionRequest struct {
	PriceID  string `form:"priceId"`
	Quantity int64  `form:"quantity"`
	Mode     Mode   `form:"mode"`
	Locale   string `form:"locale"`
	Email    string `form:"email"`
}

func NewFromRequest(r *http.Request) (SessionRequest, error) {
	err := r.ParseForm()
	if err != nil {
		return SessionRequest{}, myerrors.NewInvalidInputError(err)
	}
	return NewFromValues(r.Form)
}

func NewFromValues(values url.Values) (SessionRequest, error) {
	req := SessionRequest{}
	err := formcodec.NewDecoder().Decode(&req, values)
	if err != nil {
		return req, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	return req, req.Validate()
}

func (r SessionRequest) Validate() error {
	if r.Quantity < 0 {
		return myerrors.NewInvalidInputErrorf("invalid quantity %d", r.Quantity)
	}
	switch r.Mode {
	case "", ModeSubscription, ModePayment:
	default:
		return myerrors.NewInvalidInputErrorf("invalid mode '%s'", r.Mode)
	}
	return nil
}

// WithDefaults fills the empty fields.
func (r SessionRequest) WithDefaults(priceID string) SessionRequest {
	if r.PriceID == "" {
		r.PriceID = priceID
	}
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	if r.Mode == "" {
		r.Mode = ModeSubscription
	}
	return r
}
