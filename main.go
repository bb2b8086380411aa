package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/subscriptiondemo/lib/myevents"
	"github.com/MarcGrol/subscriptiondemo/lib/mypublisher"
	"github.com/MarcGrol/subscriptiondemo/lib/mypubsub"
	"github.com/MarcGrol/subscriptiondemo/lib/myqueue"
	"github.com/MarcGrol/subscriptiondemo/lib/mystore"
	"github.com/MarcGrol/subscriptiondemo/lib/mytime"
	"github.com/MarcGrol/subscriptiondemo/lib/myuuid"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutstripe"
	"github.com/MarcGrol/subscriptiondemo/services/pages"
	"github.com/MarcGrol/subscriptiondemo/services/warmup"
	"github.com/MarcGrol/subscriptiondemo/services/widgethost"
)

func main() {
	c := context.Background()

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}

	router := mux.NewRouter()

	cleanup, err := createServices(c, cfg, router)
	if err != nil {
		log.Fatalf("Error creating services: %s", err)
	}
	defer cleanup()

	startWebServerBlocking(cfg.Port, router)
}

// createServices owns every infrastructure client: the returned func releases them all.
func createServices(c context.Context, cfg config, router *mux.Router) (func(), error) {
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	checkoutStore, checkoutStoreCleanup, err := mystore.New[checkoutapi.CheckoutContext](c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating checkout store: %s", err)
	}
	cleanups = append(cleanups, checkoutStoreCleanup)

	outboxStore, outboxStoreCleanup, err := mystore.New[myevents.EventEnvelope](c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating outbox store: %s", err)
	}
	cleanups = append(cleanups, outboxStoreCleanup)

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating pubsub: %s", err)
	}
	cleanups = append(cleanups, pubsubCleanup)

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating task queue: %s", err)
	}
	cleanups = append(cleanups, queueCleanup)

	nower := mytime.RealNower{}
	publisher := mypublisher.New(outboxStore, pubsub, queue, nower)
	publisher.RegisterEndpoints(c, router)

	checkoutService, err := checkoutstripe.NewWebService(checkoutstripe.Config{
		APIKey:  cfg.StripeSecretKey,
		PriceID: cfg.StripePriceID,
	}, checkoutstripe.NewPayer(), nower, myuuid.RealUUIDer{}, checkoutStore, publisher)
	if err != nil {
		return cleanup, fmt.Errorf("error creating stripe checkout service: %s", err)
	}
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		return cleanup, fmt.Errorf("error registering stripe checkout endpoints: %s", err)
	}

	pageService, err := pages.NewWebService(pages.Config{
		PublishableKey: cfg.StripePublishableKey,
		PricingTable: widgethost.PricingTableConfig{
			TableID:        cfg.PricingTableID,
			PublishableKey: cfg.PricingTablePublishableKey,
		},
	}, checkoutService)
	if err != nil {
		return cleanup, fmt.Errorf("error creating pages: %s", err)
	}
	err = pageService.RegisterEndpoints(c, router)
	if err != nil {
		return cleanup, fmt.Errorf("error registering page endpoints: %s", err)
	}

	err = warmup.NewService(checkoutStore).RegisterEndpoints(c, router)
	if err != nil {
		return cleanup, fmt.Errorf("error registering warmup endpoint: %s", err)
	}

	return cleanup, nil
}

func startWebServerBlocking(port int, router *mux.Router) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Starting webserver on port %d (try http://localhost:%d)", port, port)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting webserver on port %d: %s", port, err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Printf("Shutting down webserver")
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(c)
	if err != nil {
		log.Printf("Error shutting down webserver: %s", err)
	}
}
