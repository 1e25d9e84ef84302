// Package db owns the document-store connection. The client is constructed
// explicitly and handed to the layers that need it; connecting is idempotent
// and safe under concurrent first use.
package db

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"

	"github.com/prachar-hq/apiserver/config"
)

const defaultPingTimeout = 5 * time.Second

// Client lazily connects to the configured Mongo deployment. Connect may be
// called from any number of goroutines; the dial happens once.
type Client struct {
	cfg config.MongoConfig

	sf singleflight.Group
	mu sync.RWMutex
	db *mongo.Database
}

// New constructs an unconnected Client.
func New(cfg config.MongoConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect dials the deployment on first use and returns the application
// database. Subsequent calls return the established handle without touching
// the network.
func (c *Client) Connect(ctx context.Context) (*mongo.Database, error) {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	result, err, _ := c.sf.Do("connect", func() (any, error) {
		c.mu.RLock()
		established := c.db
		c.mu.RUnlock()
		if established != nil {
			return established, nil
		}

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.cfg.URI))
		if err != nil {
			return nil, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}

		db := client.Database(c.cfg.Database)
		c.mu.Lock()
		c.db = db
		c.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*mongo.Database), nil
}

// Ping checks store connectivity for the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	db, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	return db.Client().Ping(pingCtx, readpref.Primary())
}

// Close disconnects from the deployment if a connection was established.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()
	if db == nil {
		return nil
	}
	return db.Client().Disconnect(ctx)
}
