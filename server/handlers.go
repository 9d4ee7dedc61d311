package server

import (
	"errors"

	"socialfeed/feeds"
	"socialfeed/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func addFeedHandler(svc *feeds.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateFeedRequest
		if err := parseBody(c, &req); err != nil {
			return failure(c, msgPassValidValues, err)
		}

		feed, err := svc.CreateFeed(c.UserContext(), req)
		if err != nil {
			return failure(c, msgPassValidValues, err)
		}

		return c.Status(fiber.StatusOK).JSON(models.CreateFeedResponse{
			FeedId:         feed.FeedId,
			SuccessMessage: "Feed added successfully",
		})
	}
}

func getFeedsHandler(svc *feeds.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := svc.ListFeeds(c.UserContext(), c.Params("appId"))
		if err != nil {
			return failure(c, msgPassValidValues, err)
		}

		if len(views) == 0 {
			return c.Status(fiber.StatusOK).JSON(models.FeedsResponse{
				Feeds:          []models.FeedView{},
				SuccessMessage: "No feeds found!",
			})
		}
		return c.Status(fiber.StatusOK).JSON(models.FeedsResponse{Feeds: views})
	}
}

func likeFeedHandler(svc *feeds.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LikeFeedRequest
		if err := parseBody(c, &req); err != nil {
			return failure(c, msgPassValidValues, err)
		}

		_, err := svc.ToggleLike(c.UserContext(), req)
		if errors.Is(err, feeds.ErrFeedNotFound) {
			return c.Status(fiber.StatusOK).JSON(models.LikeFeedResponse{
				Feed:           &struct{}{},
				SuccessMessage: "Feed id not exists",
			})
		}
		if err != nil {
			return failure(c, msgPassValidValues, err)
		}

		return c.Status(fiber.StatusOK).JSON(models.LikeFeedResponse{
			SuccessMessage: "Feed likes handled successfully",
		})
	}
}

func addCommentHandler(svc *feeds.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.AddCommentRequest
		if err := parseBody(c, &req); err != nil {
			return failure(c, msgPassValidValues, err)
		}

		comment, err := svc.AddComment(c.UserContext(), req)
		if err != nil {
			return failure(c, msgPassValidValues, err)
		}

		return c.Status(fiber.StatusOK).JSON(models.AddCommentResponse{
			CommentId:      comment.CommentId,
			SuccessMessage: "Comment added successfully",
		})
	}
}

func getCommentsHandler(svc *feeds.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := svc.ListComments(c.UserContext(), c.Params("appId"), c.Params("feedId"))
		if err != nil {
			return failure(c, msgPassValidAppId, err)
		}

		if len(views) == 0 {
			return c.Status(fiber.StatusOK).JSON(models.CommentsResponse{
				Comments:       []models.CommentView{},
				SuccessMessage: "No comments found",
			})
		}
		return c.Status(fiber.StatusOK).JSON(models.CommentsResponse{Comments: views})
	}
}

// parseBody decodes a JSON or form body. An empty body leaves out untouched
// so that validation reports the missing fields.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// failure maps err to a response: validation errors become a 400 with their
// message, anything else a 500 with the route's fixed message.
func failure(c *fiber.Ctx, message string, err error) error {
	var validationErr *feeds.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			ErrorMessage: validationErr.Message,
		})
	}

	log.WithFields(log.Fields{
		"path":  c.Path(),
		"error": err,
	}).Error("Request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		ErrorMessage: message,
	})
}
