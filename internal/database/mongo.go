package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout   = 10 * time.Second
	selectionTimeout = 5 * time.Second
)

// NewMongo establishes the session-store client and verifies it with a ping.
//
// It returns the connected client along with the context/cancel pair the
// caller should use for disconnect:
//
//	client, ctx, cancel, err := database.NewMongo(cfg.MongoURI)
//	if err != nil { … }
//	defer cancel()
//	defer client.Disconnect(ctx)
func NewMongo(uri string) (*mongo.Client, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(selectionTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, ctx, cancel, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		// Disconnect on ping failure to avoid leaking sockets.
		_ = client.Disconnect(ctx)
		return nil, ctx, cancel, err
	}

	return client, ctx, cancel, nil
}
