package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gatherly/logger"
)

const (
	EventsColl   = "events"
	BookingsColl = "bookings"
)

var (
	ErrNotInitialized = errors.New("db: provider not initialized")
	ErrReleased       = errors.New("db: connection released while dialing")
)

type dialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// attempt is an in-flight connection; done is closed once client/err are set.
type attempt struct {
	done   chan struct{}
	client *mongo.Client
	err    error
}

// Provider hands out one shared mongo client per process. The first Acquire
// dials lazily; concurrent callers join the same in-flight attempt and see
// the same outcome. A failed attempt leaves nothing cached, so the next
// Acquire dials again.
type Provider struct {
	mu      sync.Mutex
	uri     string
	client  *mongo.Client
	pending *attempt

	dial       dialFunc
	disconnect func(ctx context.Context, c *mongo.Client) error
}

func NewProvider(uri string) *Provider {
	return &Provider{
		uri:  uri,
		dial: dialMongo,
		disconnect: func(ctx context.Context, c *mongo.Client) error {
			return c.Disconnect(ctx)
		},
	}
}

// Acquire returns the cached client, or dials exactly once no matter how
// many callers arrive concurrently.
func (p *Provider) Acquire(ctx context.Context) (*mongo.Client, error) {
	p.mu.Lock()
	if p.client != nil {
		c := p.client
		p.mu.Unlock()
		return c, nil
	}
	att := p.pending
	if att == nil {
		att = &attempt{done: make(chan struct{})}
		p.pending = att
		go p.run(att)
	}
	p.mu.Unlock()

	select {
	case <-att.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return att.client, att.err
}

func (p *Provider) run(att *attempt) {
	client, err := p.dial(context.Background(), NormalizeURI(p.uri))

	p.mu.Lock()
	stale := p.pending != att
	if !stale {
		if err == nil {
			p.client = client
		}
		p.pending = nil
	}
	p.mu.Unlock()

	if stale {
		// Release won while we were dialing; don't leak the client, and
		// don't hand waiters a handle nobody tracks
		if err == nil && client != nil {
			_ = p.disconnect(context.Background(), client)
		}
		att.err = ErrReleased
		close(att.done)
		return
	}

	att.client, att.err = client, err
	close(att.done)
}

// Release tears down the cached client and forgets any in-flight attempt.
// Safe to call when nothing is cached.
func (p *Provider) Release(ctx context.Context) error {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.pending = nil
	p.mu.Unlock()

	if client == nil {
		return nil
	}
	return p.disconnect(ctx, client)
}

func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Connect does not block; ping so a dead store fails the attempt now
	// instead of queueing operations against it.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	if err := ensureIndexes(ctx, client); err != nil {
		logger.Sugar.Errorw("index creation failed", "err", err)
	}
	return client, nil
}

func ensureIndexes(ctx context.Context, client *mongo.Client) error {
	// Backstop for concurrent saves of identically titled events: the
	// resolver probes before writing, the index catches the race.
	_, err := client.Database(databaseName).Collection(EventsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// --- package-level default provider ---

var (
	Default      *Provider
	databaseName = "gatherly"
)

func Init(uri, dbName string) {
	Default = NewProvider(uri)
	databaseName = dbName
}

func Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	if Default == nil {
		return nil, ErrNotInitialized
	}
	client, err := Default.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(databaseName).Collection(name), nil
}

func Events(ctx context.Context) (*mongo.Collection, error) {
	return Collection(ctx, EventsColl)
}

func Bookings(ctx context.Context) (*mongo.Collection, error) {
	return Collection(ctx, BookingsColl)
}
