package database

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mu     sync.Mutex
	client *mongo.Client
)

// Connect establishes the shared client on first use. Calling it again is a
// no-op returning the already-connected client; the driver multiplexes
// concurrent operations over its own pool.
func Connect(uri string) (*mongo.Client, error) {
	mu.Lock()
	defer mu.Unlock()

	if client != nil {
		return client, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	client = c
	return client, nil
}
