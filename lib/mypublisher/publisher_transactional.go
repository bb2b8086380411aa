package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/subscriptiondemo/lib/mycontext"
	"github.com/MarcGrol/subscriptiondemo/lib/myerrors"
	"github.com/MarcGrol/subscriptiondemo/lib/myevents"
	"github.com/MarcGrol/subscriptiondemo/lib/myhttp"
	"github.com/MarcGrol/subscriptiondemo/lib/mylog"
	"github.com/MarcGrol/subscriptiondemo/lib/mypubsub"
	"github.com/MarcGrol/subscriptiondemo/lib/myqueue"
	"github.com/MarcGrol/subscriptiondemo/lib/mystore"
	"github.com/MarcGrol/subscriptiondemo/lib/mytime"
)

// transactionalPublisher implements the outbox pattern: Publish only stores the envelope,
// using the transaction of the caller when there is one. A queued task triggers the actual
// publication on pubsub afterwards.
type transactionalPublisher struct {
	outbox    mystore.Store[myevents.EventEnvelope]
	queue     myqueue.TaskQueuer
	pubsub    mypubsub.PubSub
	enveloper enveloper
	logger    mylog.Logger
}

func New(outbox mystore.Store[myevents.EventEnvelope], pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) *transactionalPublisher {
	return &transactionalPublisher{
		outbox:    outbox,
		queue:     queue,
		pubsub:    pubsub,
		enveloper: newEnveloper(nower),
		logger:    mylog.New("publisher"),
	}
}

func (p *transactionalPublisher) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/pubsub/{topic}/{uid}", p.processTriggerPage()).Methods("PUT")
}

func (p *transactionalPublisher) CreateTopic(c context.Context, topicName string) error {
	return p.pubsub.CreateTopic(c, topicName)
}

func (p *transactionalPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}

	err = p.outbox.Put(c, envelope.UID, envelope)
	if err != nil {
		return fmt.Errorf("error storing envelope: %s", err)
	}

	err = p.queue.Enqueue(c, myqueue.Task{
		UID:            envelope.UID,
		WebhookURLPath: fmt.Sprintf("/pubsub/%s/%s", envelope.Topic, envelope.UID),
		Payload:        []byte{},
	})
	if err != nil {
		return fmt.Errorf("error queueing publication-trigger %s: %s", envelope.UID, err)
	}

	p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Enqueued event %s", envelope)

	return nil
}

func (p *transactionalPublisher) processTriggerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(p.logger)

		eventUID := mux.Vars(r)["uid"]

		count, err := p.processTrigger(c, eventUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Successfully published %d events", count),
		})
	}
}

// processTrigger publishes every unpublished envelope, not just the one that triggered us,
// so a lost trigger is compensated by the next one.
func (p *transactionalPublisher) processTrigger(c context.Context, uid string) (int, error) {
	// queries cannot run inside a datastore transaction without an ancestor
	envelopes, err := p.outbox.Query(c, []mystore.Filter{{Field: "Published", Compare: "=", Value: false}}, "CreatedAt")
	if err != nil {
		return 0, fmt.Errorf("error fetching envelopes: %s", err)
	}

	count := 0
	for _, envelope := range envelopes {
		published, err := p.publishOnce(c, envelope.UID)
		if err != nil {
			return count, err
		}
		if published {
			count++
		}
	}

	p.logger.Log(c, uid, mylog.SeverityInfo, "Published %d events", count)

	return count, nil
}

func (p *transactionalPublisher) publishOnce(c context.Context, envelopeUID string) (bool, error) {
	published := false
	err := p.outbox.RunInTransaction(c, func(c context.Context) error {
		envelope, found, err := p.outbox.Get(c, envelopeUID)
		if err != nil {
			return fmt.Errorf("error fetching envelope %s: %s", envelopeUID, err)
		}
		if !found || envelope.Published {
			// a concurrent trigger beat us to it
			return nil
		}

		jsonBytes, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("error serializing envelope %s: %s", envelope.UID, err)
		}

		err = p.pubsub.Publish(c, envelope.Topic, string(jsonBytes))
		if err != nil {
			return fmt.Errorf("error publishing envelope %s: %s", envelope.UID, err)
		}

		envelope.Published = true
		err = p.outbox.Put(c, envelope.UID, envelope)
		if err != nil {
			return fmt.Errorf("error storing envelope %s: %s", envelope.UID, err)
		}
		published = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return published, nil
}
