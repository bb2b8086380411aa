package checkoutstripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"

	"github.com/MarcGrol/subscriptiondemo/lib/myerrors"
	"github.com/MarcGrol/subscriptiondemo/lib/mylog"
	"github.com/MarcGrol/subscriptiondemo/lib/mypublisher"
	"github.com/MarcGrol/subscriptiondemo/lib/mystore"
	"github.com/MarcGrol/subscriptiondemo/lib/mytime"
	"github.com/MarcGrol/subscriptiondemo/lib/myuuid"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutevents"
)

const providerName = "stripe"

type service struct {
	cfg           Config
	payer         Payer
	logger        mylog.Logger
	nower         mytime.Nower
	uuider        myuuid.UUIDer
	checkoutStore mystore.Store[checkoutapi.CheckoutContext]
	publisher     mypublisher.Publisher
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cfg Config, payer Payer, logger mylog.Logger, nower mytime.Nower, uuider myuuid.UUIDer, checkoutStore mystore.Store[checkoutapi.CheckoutContext], publisher mypublisher.Publisher) (*service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing stripe secret key")
	}
	if cfg.PriceID == "" {
		return nil, fmt.Errorf("missing stripe price id")
	}
	payer.UseAPIKey(cfg.APIKey)

	return &service{
		cfg:           cfg,
		payer:         payer,
		logger:        logger,
		nower:         nower,
		uuider:        uuider,
		checkoutStore: checkoutStore,
		publisher:     publisher,
	}, nil
}

// createClientSecret creates an embedded checkout session and returns its client secret.
// The secret may be empty; it is up to the caller to decide what that means.
func (s *service) createClientSecret(c context.Context, hostname string, req checkoutapi.SessionRequest) (checkoutapi.ClientSecret, error) {
	req = req.WithDefaults(s.cfg.PriceID)
	checkoutUID := s.uuider.Create()

	s.logger.Log(c, checkoutUID, mylog.SeverityInfo, "Create %s checkout session for price %s", req.Mode, req.PriceID)

	session, err := s.payer.CreateCheckoutSession(c, sessionParams(hostname, checkoutUID, req))
	if err != nil {
		return "", err
	}

	now := s.nower.Now()
	err = s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		err := s.checkoutStore.Put(c, checkoutUID, checkoutapi.CheckoutContext{
			UID:       checkoutUID,
			SessionID: session.ID,
			Mode:      req.Mode,
			PriceID:   req.PriceID,
			Quantity:  req.Quantity,
			CreatedAt: now,
			Status:    string(session.Status),
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing checkout: %s", err))
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutSessionCreated{
			CheckoutUID:  checkoutUID,
			ProviderName: providerName,
			SessionID:    session.ID,
			Mode:         string(req.Mode),
			PriceID:      req.PriceID,
			Quantity:     req.Quantity,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Log(c, checkoutUID, mylog.SeverityInfo, "Created checkout session %s", session.ID)

	return checkoutapi.ClientSecret(session.ClientSecret), nil
}

func sessionParams(hostname string, checkoutUID string, req checkoutapi.SessionRequest) stripe.CheckoutSessionParams {
	params := stripe.CheckoutSessionParams{
		UIMode:            stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:              stripe.String(string(req.Mode)),
		ClientReferenceID: stripe.String(checkoutUID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(req.Quantity),
			},
		},
		// Stripe substitutes the placeholder itself
		ReturnURL: stripe.String(hostname + "/checkout/return?session_id={CHECKOUT_SESSION_ID}"),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	if req.Locale != "" {
		params.Locale = stripe.String(req.Locale)
	}
	params.AddMetadata("checkoutUID", checkoutUID)

	return params
}

type sessionStatus struct {
	SessionID     string
	Status        string
	PaymentStatus string
	CustomerEmail string
}

func (s sessionStatus) Completed() bool {
	return s.Status == string(stripe.CheckoutSessionStatusComplete)
}

func (s sessionStatus) Open() bool {
	return s.Status == string(stripe.CheckoutSessionStatusOpen)
}

// checkoutStatus looks up the session Stripe redirected back for and records its outcome.
func (s *service) checkoutStatus(c context.Context, sessionID string) (sessionStatus, error) {
	session, err := s.payer.GetCheckoutSession(c, sessionID)
	if err != nil {
		return sessionStatus{}, err
	}

	status := sessionStatus{
		SessionID:     session.ID,
		Status:        string(session.Status),
		PaymentStatus: string(session.PaymentStatus),
	}
	if session.CustomerDetails != nil {
		status.CustomerEmail = session.CustomerDetails.Email
	}

	// queries cannot run inside a datastore transaction without an ancestor
	checkouts, err := s.checkoutStore.Query(c, []mystore.Filter{{Field: "SessionID", Compare: "=", Value: sessionID}}, "")
	if err != nil {
		return sessionStatus{}, myerrors.NewInternalError(fmt.Errorf("error looking up checkout for session %s: %s", sessionID, err))
	}
	if len(checkouts) == 0 {
		s.logger.Log(c, "", mylog.SeverityWarn, "No checkout recorded for session %s", sessionID)
		return status, nil
	}
	checkoutUID := checkouts[0].UID

	now := s.nower.Now()
	err = s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		checkoutContext, found, err := s.checkoutStore.Get(c, checkoutUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching checkout with uid %s: %s", checkoutUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("checkout with uid %s not found", checkoutUID))
		}
		if checkoutContext.Status == status.Status && checkoutContext.PaymentStatus == status.PaymentStatus {
			return nil
		}

		checkoutContext.Status = status.Status
		checkoutContext.PaymentStatus = status.PaymentStatus
		checkoutContext.CustomerEmail = status.CustomerEmail
		checkoutContext.LastModified = &now

		err = s.checkoutStore.Put(c, checkoutUID, checkoutContext)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing checkout: %s", err))
		}

		if !status.Completed() {
			return nil
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID:   checkoutUID,
			ProviderName:  providerName,
			SessionID:     sessionID,
			Status:        status.Status,
			PaymentStatus: status.PaymentStatus,
			CustomerEmail: status.CustomerEmail,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return sessionStatus{}, err
	}

	s.logger.Log(c, checkoutUID, mylog.SeverityInfo, "Checkout session %s has status %s (%s)", sessionID, status.Status, status.PaymentStatus)

	return status, nil
}
