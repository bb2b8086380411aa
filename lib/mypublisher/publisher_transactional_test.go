package mypublisher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/subscriptiondemo/lib/myevents"
	"github.com/MarcGrol/subscriptiondemo/lib/mypubsub"
	"github.com/MarcGrol/subscriptiondemo/lib/myqueue"
	"github.com/MarcGrol/subscriptiondemo/lib/mystore"
	"github.com/MarcGrol/subscriptiondemo/lib/mytime"
)

type sessionCreated struct {
	CheckoutUID string
}

func (e sessionCreated) GetEventTypeName() string {
	return "checkout.sessionCreated"
}

func (e sessionCreated) GetAggregateName() string {
	return e.CheckoutUID
}

func TestTransactionalPublisher(t *testing.T) {

	t.Run("Publish stores envelope and enqueues trigger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, _, outbox, queue, _, nower, sut := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		var enqueued myqueue.Task
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(c context.Context, task myqueue.Task) error {
			enqueued = task
			return nil
		})

		// when
		err := sut.Publish(c, "checkout", sessionCreated{CheckoutUID: "123"})

		// then
		assert.NoError(t, err)
		envelope, exists, err := outbox.Get(c, enqueued.UID)
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "checkout", envelope.Topic)
		assert.Equal(t, "123", envelope.AggregateUID)
		assert.Equal(t, "checkout.sessionCreated", envelope.EventTypeName)
		assert.JSONEq(t, `{"CheckoutUID":"123"}`, envelope.EventPayload)
		assert.Equal(t, mytime.ExampleTime, envelope.CreatedAt)
		assert.False(t, envelope.Published)
		assert.Equal(t, "/pubsub/checkout/"+enqueued.UID, enqueued.WebhookURLPath)
	})

	t.Run("Same event results in same envelope uid", func(t *testing.T) {
		e := newEnveloper(mytime.RealNower{})
		first, err := e.do("checkout", sessionCreated{CheckoutUID: "123"})
		assert.NoError(t, err)
		second, err := e.do("checkout", sessionCreated{CheckoutUID: "123"})
		assert.NoError(t, err)
		other, err := e.do("checkout", sessionCreated{CheckoutUID: "456"})
		assert.NoError(t, err)

		assert.Equal(t, first.UID, second.UID)
		assert.NotEqual(t, first.UID, other.UID)
	})

	t.Run("Trigger publishes unpublished envelopes once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, outbox, _, pubsub, _, _ := setup(t, ctrl)

		// given
		_ = outbox.Put(c, "abc", myevents.EventEnvelope{UID: "abc", Topic: "checkout", CreatedAt: mytime.ExampleTime})
		_ = outbox.Put(c, "def", myevents.EventEnvelope{UID: "def", Topic: "checkout", Published: true})
		pubsub.EXPECT().Publish(gomock.Any(), "checkout", gomock.Any()).Return(nil).Times(1)

		// when
		for i := 0; i < 2; i++ {
			request, err := http.NewRequest(http.MethodPut, "/pubsub/checkout/abc", nil)
			assert.NoError(t, err)
			response := httptest.NewRecorder()
			router.ServeHTTP(response, request)

			// then
			assert.Equal(t, 200, response.Code)
		}
		envelope, _, _ := outbox.Get(c, "abc")
		assert.True(t, envelope.Published)
	})

	t.Run("Failed publication stays in outbox", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, outbox, _, pubsub, _, _ := setup(t, ctrl)

		// given
		_ = outbox.Put(c, "abc", myevents.EventEnvelope{UID: "abc", Topic: "checkout", CreatedAt: mytime.ExampleTime})
		pubsub.EXPECT().Publish(gomock.Any(), "checkout", gomock.Any()).Return(fmt.Errorf("topic checkout not found"))

		// when
		request, err := http.NewRequest(http.MethodPut, "/pubsub/checkout/abc", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 500, response.Code)
		envelope, _, _ := outbox.Get(c, "abc")
		assert.False(t, envelope.Published)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[myevents.EventEnvelope], *myqueue.MockTaskQueuer, *mypubsub.MockPubSub, *mytime.MockNower, *transactionalPublisher) {
	c := context.TODO()
	outbox, _, err := mystore.NewInMemoryStore[myevents.EventEnvelope](c)
	assert.NoError(t, err)
	queue := myqueue.NewMockTaskQueuer(ctrl)
	pubsub := mypubsub.NewMockPubSub(ctrl)
	nower := mytime.NewMockNower(ctrl)

	sut := New(outbox, pubsub, queue, nower)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, router, outbox, queue, pubsub, nower, sut
}
