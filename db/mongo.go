package db

import (
	"context"
	"errors"
	"fmt"

	"socialfeed/models"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared with existing app deployments
const (
	appsCollection     = "allAppIDs"
	feedsCollection    = "feeds"
	commentsCollection = "comments"
	usersCollection    = "users"
)

// MongoStore keeps documents in MongoDB. Toggling a like uses $getField and
// $setField, which need MongoDB 5.0 or newer.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, uri string, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	log.WithFields(log.Fields{
		"database": database,
	}).Info("Connected to MongoDB")

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (s *MongoStore) EnsureApp(ctx context.Context, appId string) error {
	_, err := s.db.Collection(appsCollection).UpdateOne(ctx,
		bson.M{"_id": appId},
		bson.M{"$setOnInsert": bson.M{"id": appId}},
		options.Update().SetUpsert(true),
	)
	// Two concurrent upserts of a new id can race on the unique _id index;
	// the loser still finds the app created.
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("upsert app error: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateFeed(ctx context.Context, feed *models.Feed) error {
	id := primitive.NewObjectID().Hex()
	doc := bson.M{
		"feedId":  id,
		"appId":   feed.AppId,
		"caption": feed.Caption,
		"userId":  feed.UserId,
		"likes":   bson.M{},
	}
	if feed.Image != "" {
		doc["image"] = feed.Image
	}

	var stored models.Feed
	if err := s.insertWithServerTime(ctx, feedsCollection, id, doc, &stored); err != nil {
		return fmt.Errorf("insert feed error: %w", err)
	}
	feed.FeedId = stored.FeedId
	feed.TimeStamp = stored.TimeStamp
	feed.Likes = map[string]bool{}
	return nil
}

func (s *MongoStore) ListFeeds(ctx context.Context, appId string) ([]models.Feed, error) {
	cursor, err := s.db.Collection(feedsCollection).Find(ctx,
		bson.M{"appId": appId},
		options.Find().SetSort(byTimeStampDesc()),
	)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	feeds := []models.Feed{}
	if err := cursor.All(ctx, &feeds); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	for i := range feeds {
		if feeds[i].Likes == nil {
			feeds[i].Likes = map[string]bool{}
		}
	}
	return feeds, nil
}

func (s *MongoStore) ToggleLike(ctx context.Context, feedId string, key string) (bool, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1})

	var result struct {
		Likes map[string]bool `bson:"likes"`
	}
	err := s.db.Collection(feedsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": feedId}, toggleLikePipeline(key), opts).
		Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle like error: %w", err)
	}
	return result.Likes[key], nil
}

func (s *MongoStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	id := primitive.NewObjectID().Hex()
	doc := bson.M{
		"commentId": id,
		"appId":     comment.AppId,
		"feedId":    comment.FeedId,
		"comment":   comment.Comment,
		"userId":    comment.UserId,
	}

	var stored models.Comment
	if err := s.insertWithServerTime(ctx, commentsCollection, id, doc, &stored); err != nil {
		return fmt.Errorf("insert comment error: %w", err)
	}
	comment.CommentId = stored.CommentId
	comment.TimeStamp = stored.TimeStamp
	return nil
}

func (s *MongoStore) ListComments(ctx context.Context, appId string, feedId string) ([]models.Comment, error) {
	cursor, err := s.db.Collection(commentsCollection).Find(ctx,
		bson.M{"feedId": feedId, "appId": appId},
		options.Find().SetSort(byTimeStampDesc()),
	)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return comments, nil
}

func (s *MongoStore) GetUsers(ctx context.Context, ids []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := s.db.Collection(usersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	var found []models.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	for _, u := range found {
		users[u.UserId] = u
	}
	return users, nil
}

func (s *MongoStore) PutUser(ctx context.Context, user models.User) error {
	_, err := s.db.Collection(usersCollection).ReplaceOne(ctx,
		bson.M{"_id": user.UserId},
		user,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert user error: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// insertWithServerTime creates the document with the server's clock in
// timeStamp. Inserts cannot use $currentDate, so this is an upsert on a
// freshly generated id.
func (s *MongoStore) insertWithServerTime(ctx context.Context, collection string, id string, doc bson.M, out interface{}) error {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	return s.db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, insertWithServerTimeUpdate(doc), opts).
		Decode(out)
}

func insertWithServerTimeUpdate(doc bson.M) bson.M {
	return bson.M{
		"$setOnInsert": doc,
		"$currentDate": bson.M{"timeStamp": true},
	}
}

// toggleLikePipeline negates likes[key] server side. $literal keeps keys
// containing dots or dollar signs from being read as paths.
func toggleLikePipeline(key string) mongo.Pipeline {
	likes := bson.M{"$ifNull": bson.A{"$likes", bson.M{}}}
	current := bson.M{"$getField": bson.M{
		"field": bson.M{"$literal": key},
		"input": likes,
	}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"likes": bson.M{"$setField": bson.M{
				"field": bson.M{"$literal": key},
				"input": likes,
				"value": bson.M{"$not": bson.A{current}},
			}},
		}}},
	}
}

// byTimeStampDesc orders newest first. $currentDate has millisecond
// precision, so ties fall back to _id: ObjectID hex of fixed length sorts by
// creation order.
func byTimeStampDesc() bson.D {
	return bson.D{{Key: "timeStamp", Value: -1}, {Key: "_id", Value: -1}}
}

var _ Store = (*MongoStore)(nil)
