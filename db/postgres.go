package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"socialfeed/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// PostgresStore keeps documents in Postgres tables. Likes live in a JSONB
// column so a toggle is a single UPDATE.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	db, err := connection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an already opened database handle
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureApp(ctx context.Context, appId string) error {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("apps").Cols("id").Values(appId)
	ib.SQL("ON CONFLICT (id) DO NOTHING")

	query, args := ib.Build()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert app error: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateFeed(ctx context.Context, feed *models.Feed) error {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("feeds").
		Cols("app_id", "caption", "image", "user_id").
		Values(feed.AppId, feed.Caption, feed.Image, feed.UserId)
	ib.SQL("RETURNING feed_id, time_stamp")

	query, args := ib.Build()
	log.WithFields(log.Fields{
		"sql":  query,
		"args": args,
	}).Debug("Generated SQL query")

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&feed.FeedId, &feed.TimeStamp); err != nil {
		return fmt.Errorf("insert feed error: %w", err)
	}
	feed.Likes = map[string]bool{}
	return nil
}

func (s *PostgresStore) ListFeeds(ctx context.Context, appId string) ([]models.Feed, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("feed_id", "app_id", "caption", "image", "user_id", "likes", "time_stamp").
		From("feeds").
		Where(sb.Equal("app_id", appId))
	sb.OrderBy("time_stamp").Desc()

	query, args := sb.Build()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	feeds := []models.Feed{}
	for rows.Next() {
		var feed models.Feed
		var likes []byte
		if err := rows.Scan(&feed.FeedId, &feed.AppId, &feed.Caption, &feed.Image, &feed.UserId, &likes, &feed.TimeStamp); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		if feed.Likes, err = decodeLikes(likes); err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return feeds, nil
}

func (s *PostgresStore) ToggleLike(ctx context.Context, feedId string, key string) (bool, error) {
	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("feeds").Set(fmt.Sprintf(
		"likes = jsonb_set(likes, ARRAY[%s]::text[], to_jsonb(NOT COALESCE((likes->>%s::text)::boolean, false)), true)",
		ub.Var(key), ub.Var(key),
	))
	ub.Where(ub.Equal("feed_id", feedId))
	ub.SQL("RETURNING likes")

	query, args := ub.Build()
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle like error: %w", err)
	}

	likes, err := decodeLikes(raw)
	if err != nil {
		return false, err
	}
	return likes[key], nil
}

func (s *PostgresStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("comments").
		Cols("app_id", "feed_id", "comment", "user_id").
		Values(comment.AppId, comment.FeedId, comment.Comment, comment.UserId)
	ib.SQL("RETURNING comment_id, time_stamp")

	query, args := ib.Build()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&comment.CommentId, &comment.TimeStamp); err != nil {
		return fmt.Errorf("insert comment error: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListComments(ctx context.Context, appId string, feedId string) ([]models.Comment, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("comment_id", "app_id", "feed_id", "comment", "user_id", "time_stamp").
		From("comments").
		Where(sb.Equal("feed_id", feedId), sb.Equal("app_id", appId))
	sb.OrderBy("time_stamp").Desc()

	query, args := sb.Build()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.CommentId, &c.AppId, &c.FeedId, &c.Comment, &c.UserId, &c.TimeStamp); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return comments, nil
}

func (s *PostgresStore) GetUsers(ctx context.Context, ids []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("user_id", "username", "profile_image").From("users")
	sb.Where(fmt.Sprintf("user_id = ANY(%s)", sb.Args.Add(pq.Array(ids))))

	query, args := sb.Build()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UserId, &u.Username, &u.ProfileImage); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		users[u.UserId] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) PutUser(ctx context.Context, user models.User) error {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("users").
		Cols("user_id", "username", "profile_image").
		Values(user.UserId, user.Username, user.ProfileImage)
	ib.SQL("ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, profile_image = EXCLUDED.profile_image")

	query, args := ib.Build()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func decodeLikes(raw []byte) (map[string]bool, error) {
	likes := map[string]bool{}
	if len(raw) == 0 {
		return likes, nil
	}
	if err := json.Unmarshal(raw, &likes); err != nil {
		return nil, fmt.Errorf("decode likes: %w", err)
	}
	return likes, nil
}

var _ Store = (*PostgresStore)(nil)
