package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialfeed/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MemoryStore keeps everything in process memory. Used for tests and local
// development; contents are lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	apps     map[string]models.App
	feeds    map[string]models.Feed
	comments map[string]models.Comment
	users    map[string]models.User
	last     time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		apps:     make(map[string]models.App),
		feeds:    make(map[string]models.Feed),
		comments: make(map[string]models.Comment),
		users:    make(map[string]models.User),
	}
}

// now must be called with mu held. Timestamps are strictly increasing so
// that ordering by time matches write order.
func (s *MemoryStore) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *MemoryStore) EnsureApp(ctx context.Context, appId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[appId]; !ok {
		s.apps[appId] = models.App{Id: appId}
	}
	return nil
}

// Apps returns the registered app ids
func (s *MemoryStore) Apps() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Keys(s.apps)
}

func (s *MemoryStore) CreateFeed(ctx context.Context, feed *models.Feed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	feed.FeedId = uuid.NewString()
	feed.Likes = map[string]bool{}
	feed.TimeStamp = s.now()
	s.feeds[feed.FeedId] = copyFeed(*feed)
	return nil
}

func (s *MemoryStore) ListFeeds(ctx context.Context, appId string) ([]models.Feed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feeds := []models.Feed{}
	for _, feed := range s.feeds {
		if feed.AppId == appId {
			feeds = append(feeds, copyFeed(feed))
		}
	}
	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].TimeStamp.After(feeds[j].TimeStamp)
	})
	return feeds, nil
}

func (s *MemoryStore) ToggleLike(ctx context.Context, feedId string, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	feed, ok := s.feeds[feedId]
	if !ok {
		return false, ErrNotFound
	}
	liked := !feed.Likes[key]
	feed.Likes[key] = liked
	return liked, nil
}

func (s *MemoryStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.CommentId = uuid.NewString()
	comment.TimeStamp = s.now()
	s.comments[comment.CommentId] = *comment
	return nil
}

func (s *MemoryStore) ListComments(ctx context.Context, appId string, feedId string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := lo.Filter(lo.Values(s.comments), func(c models.Comment, _ int) bool {
		return c.AppId == appId && c.FeedId == feedId
	})
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].TimeStamp.After(comments[j].TimeStamp)
	})
	return comments, nil
}

func (s *MemoryStore) GetUsers(ctx context.Context, ids []string) (map[string]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users[id] = user
		}
	}
	return users, nil
}

func (s *MemoryStore) PutUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserId] = user
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func copyFeed(feed models.Feed) models.Feed {
	likes := make(map[string]bool, len(feed.Likes))
	for k, v := range feed.Likes {
		likes[k] = v
	}
	feed.Likes = likes
	return feed
}

var _ Store = (*MemoryStore)(nil)
