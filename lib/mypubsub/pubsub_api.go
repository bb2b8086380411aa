package mypubsub

import "context"

//go:generate mockgen -source=pubsub_api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	CreateTopic(c context.Context, topic string) error
	Publish(c context.Context, topic string, data string) error
}

// New is selected at init: Google Pub/Sub on Google Cloud, a no-op locally.
var New func(c context.Context) (PubSub, func(), error)
