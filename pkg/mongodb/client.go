// Package mongodb owns the shared MongoDB client and the named collections
// used by the service. A single client is created at startup and reused by
// every repository; there is no per-request connection management.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// Collection names match the original data; the dash in waiting-list is
	// load-bearing for existing documents.
	EnrollmentsCollection = "enrollments"
	WaitingListCollection = "waiting-list"
)

// Config holds connection parameters for the document store.
type Config struct {
	URI            string
	Database       string
	TimeoutSeconds int
	MaxPoolSize    uint64
}

// Client wraps the mongo client with the database name and default operation
// timeout used across repositories.
type Client struct {
	client  *mongo.Client
	dbName  string
	timeout time.Duration
}

// Connect builds the client and verifies the connection with a ping.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is not configured")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMaxConnIdleTime(5 * time.Minute)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, timeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Client{
		client:  client,
		dbName:  cfg.Database,
		timeout: timeout,
	}, nil
}

// Database returns the application database handle.
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.dbName)
}

// Enrollments returns the enrollments collection.
func (c *Client) Enrollments() *mongo.Collection {
	return c.Database().Collection(EnrollmentsCollection)
}

// WaitingList returns the waiting-list collection.
func (c *Client) WaitingList() *mongo.Collection {
	return c.Database().Collection(WaitingListCollection)
}

// Context returns a context bounded by the configured operation timeout.
func (c *Client) Context(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.timeout)
}

// Ping verifies the connection is still healthy.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := c.Context(ctx)
	defer cancel()
	return c.client.Ping(pingCtx, readpref.Primary())
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
