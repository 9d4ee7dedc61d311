package models

import "time"

// App is the registry record created the first time an app id is seen
type App struct {
	Id string `json:"id" bson:"id"`
}

// Feed is a post in an app's social feed
type Feed struct {
	FeedId    string          `json:"feedId" bson:"feedId"`
	AppId     string          `json:"appId" bson:"appId"`
	Caption   string          `json:"caption" bson:"caption"`
	Image     string          `json:"image,omitempty" bson:"image,omitempty"`
	UserId    string          `json:"userId" bson:"userId"`
	Likes     map[string]bool `json:"likes" bson:"likes"`
	TimeStamp time.Time       `json:"timeStamp" bson:"timeStamp"`
}

// Comment on a feed. FeedId is not checked against existing feeds.
type Comment struct {
	CommentId string    `json:"commentId" bson:"commentId"`
	AppId     string    `json:"appId" bson:"appId"`
	FeedId    string    `json:"feedId" bson:"feedId"`
	Comment   string    `json:"comment" bson:"comment"`
	UserId    string    `json:"userId" bson:"userId"`
	TimeStamp time.Time `json:"timeStamp" bson:"timeStamp"`
}

// User lives in the external user directory
type User struct {
	UserId       string `json:"userId" bson:"_id"`
	Username     string `json:"username" bson:"username"`
	ProfileImage string `json:"profileImage" bson:"profileImage"`
}

// Author is the denormalized display info attached to feeds and comments
type Author struct {
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
}

type FeedView struct {
	Feed
	Author
}

type CommentView struct {
	Comment
	Author
}

// Request bodies

type CreateFeedRequest struct {
	AppId   string `json:"appId" form:"appId" validate:"min=2"`
	Caption string `json:"caption" form:"caption" validate:"min=5"`
	Image   string `json:"image" form:"image"`
	UserId  string `json:"userId" form:"userId"`
}

type LikeFeedRequest struct {
	AppId  string `json:"appId" form:"appId"`
	FeedId string `json:"feedId" form:"feedId"`
	UserId string `json:"userId" form:"userId"`
}

type AddCommentRequest struct {
	AppId   string `json:"appId" form:"appId"`
	FeedId  string `json:"feedId" form:"feedId"`
	Comment string `json:"comment" form:"comment" validate:"min=1"`
	UserId  string `json:"userId" form:"userId"`
}

// Responses

type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

type CreateFeedResponse struct {
	FeedId         string `json:"feedId"`
	SuccessMessage string `json:"successMessage"`
}

type FeedsResponse struct {
	Feeds          []FeedView `json:"feeds"`
	SuccessMessage string     `json:"successMessage,omitempty"`
}

type LikeFeedResponse struct {
	Feed           *struct{} `json:"feed,omitempty"`
	SuccessMessage string    `json:"successMessage"`
}

type AddCommentResponse struct {
	Data           struct{} `json:"data"`
	CommentId      string   `json:"commentId"`
	SuccessMessage string   `json:"successMessage"`
}

type CommentsResponse struct {
	Comments       []CommentView `json:"comments"`
	SuccessMessage string        `json:"successMessage,omitempty"`
}
