package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialfeed/models"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("not found")

// Store is the document store backing the feed service
type Store interface {
	// EnsureApp creates the app registry record unless it already exists
	EnsureApp(ctx context.Context, appId string) error

	// CreateFeed assigns FeedId, Likes and TimeStamp from the store
	CreateFeed(ctx context.Context, feed *models.Feed) error
	ListFeeds(ctx context.Context, appId string) ([]models.Feed, error)

	// ToggleLike negates likes[key] in a single store operation and returns
	// the new value. Returns ErrNotFound if the feed does not exist.
	ToggleLike(ctx context.Context, feedId string, key string) (bool, error)

	// CreateComment assigns CommentId and TimeStamp from the store
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, appId string, feedId string) ([]models.Comment, error)

	// GetUsers returns the users found for ids, keyed by user id.
	// Unknown ids are absent from the result.
	GetUsers(ctx context.Context, ids []string) (map[string]models.User, error)
	PutUser(ctx context.Context, user models.User) error

	Ping(ctx context.Context) error
	Close() error
}

// Options selects and configures a Store backend
type Options struct {
	// Backend is one of "mongo", "postgres" or "memory"
	Backend string

	MongoURI      string
	MongoDatabase string

	Postgres PostgresConfig

	// ConnectTimeout bounds the startup connect/ping retries
	ConnectTimeout time.Duration
}

// Open creates the configured store and waits until it answers a ping
func Open(ctx context.Context, opts Options) (Store, error) {
	var store Store
	var err error

	switch opts.Backend {
	case "mongo", "mongodb":
		store, err = NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
	case "postgres":
		store, err = NewPostgresStore(opts.Postgres)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := waitForStore(ctx, store, opts.ConnectTimeout); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func waitForStore(ctx context.Context, store Store, timeout time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.Multiplier = 1.5
	b.MaxElapsedTime = timeout

	attempt := 0
	op := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			log.WithFields(log.Fields{
				"attempt": attempt,
				"error":   err,
			}).Warn("Store not reachable yet")
			return err
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("store unreachable after %d attempts: %w", attempt, err)
	}
	return nil
}
