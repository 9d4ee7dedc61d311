// Package feeds implements the social feed operations on top of a db.Store
package feeds

import (
	"context"
	"errors"
	"fmt"

	"socialfeed/db"
	"socialfeed/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultPlaceholderName  = "Added by app"
	DefaultPlaceholderImage = "https://procodingclass.github.io/tynker-vr-gamers-assets/assets/defaultProfileImage.png"
)

var ErrFeedNotFound = errors.New("feed id does not exist")

var (
	feedsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialfeed_feeds_created_total",
		Help: "The total number of feeds created",
	})

	commentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialfeed_comments_created_total",
		Help: "The total number of comments created",
	})

	likesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_likes_toggled_total",
		Help: "Like toggles by resulting state",
	}, []string{"state"})
)

type Service struct {
	store db.Store

	// Author shown for records written by the app itself, or whose user
	// cannot be found in the directory
	placeholder models.Author
}

func NewService(store db.Store, placeholder models.Author) *Service {
	if placeholder.Username == "" {
		placeholder.Username = DefaultPlaceholderName
	}
	if placeholder.ProfileImage == "" {
		placeholder.ProfileImage = DefaultPlaceholderImage
	}
	return &Service{
		store:       store,
		placeholder: placeholder,
	}
}

// CreateFeed validates req, registers the app on first use and stores a new feed
func (s *Service) CreateFeed(ctx context.Context, req models.CreateFeedRequest) (*models.Feed, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.store.EnsureApp(ctx, req.AppId); err != nil {
		return nil, fmt.Errorf("ensure app %s: %w", req.AppId, err)
	}

	feed := &models.Feed{
		AppId:   req.AppId,
		Caption: req.Caption,
		Image:   req.Image,
		UserId:  req.UserId,
	}
	if err := s.store.CreateFeed(ctx, feed); err != nil {
		return nil, err
	}
	feedsCreated.Inc()

	log.WithFields(log.Fields{
		"appId":  feed.AppId,
		"feedId": feed.FeedId,
		"userId": feed.UserId,
	}).Info("Created feed")

	return feed, nil
}

// ListFeeds returns the app's feeds newest first with their authors attached
func (s *Service) ListFeeds(ctx context.Context, appId string) ([]models.FeedView, error) {
	feeds, err := s.store.ListFeeds(ctx, appId)
	if err != nil {
		return nil, err
	}

	userIds := make([]string, len(feeds))
	for i, feed := range feeds {
		userIds[i] = feed.UserId
	}
	users, err := s.lookupUsers(ctx, userIds)
	if err != nil {
		return nil, err
	}

	views := make([]models.FeedView, len(feeds))
	for i, feed := range feeds {
		views[i] = models.FeedView{Feed: feed, Author: s.authorOf(feed.UserId, users)}
	}
	return views, nil
}

// ToggleLike flips the like of the acting user, or of the app when no user
// is given. Returns the new state, or ErrFeedNotFound.
func (s *Service) ToggleLike(ctx context.Context, req models.LikeFeedRequest) (bool, error) {
	if req.FeedId == "" {
		return false, errors.New("missing feed id")
	}

	key := likerKey(req)
	if key == "" {
		return false, errors.New("missing liker id")
	}

	liked, err := s.store.ToggleLike(ctx, req.FeedId, key)
	if errors.Is(err, db.ErrNotFound) {
		return false, ErrFeedNotFound
	}
	if err != nil {
		return false, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	likesToggled.WithLabelValues(state).Inc()

	log.WithFields(log.Fields{
		"feedId": req.FeedId,
		"key":    key,
		"liked":  liked,
	}).Info("Toggled like")

	return liked, nil
}

// AddComment validates req and stores a comment. The feed is not required to exist.
func (s *Service) AddComment(ctx context.Context, req models.AddCommentRequest) (*models.Comment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AppId:   req.AppId,
		FeedId:  req.FeedId,
		Comment: req.Comment,
		UserId:  req.UserId,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	commentsCreated.Inc()

	log.WithFields(log.Fields{
		"appId":     comment.AppId,
		"feedId":    comment.FeedId,
		"commentId": comment.CommentId,
	}).Info("Created comment")

	return comment, nil
}

// ListComments returns the comments on a feed within an app, newest first
func (s *Service) ListComments(ctx context.Context, appId string, feedId string) ([]models.CommentView, error) {
	comments, err := s.store.ListComments(ctx, appId, feedId)
	if err != nil {
		return nil, err
	}

	userIds := make([]string, len(comments))
	for i, c := range comments {
		userIds[i] = c.UserId
	}
	users, err := s.lookupUsers(ctx, userIds)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, len(comments))
	for i, c := range comments {
		views[i] = models.CommentView{Comment: c, Author: s.authorOf(c.UserId, users)}
	}
	return views, nil
}

func likerKey(req models.LikeFeedRequest) string {
	if req.UserId != "" {
		return req.UserId
	}
	return req.AppId
}
