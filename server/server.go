package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialfeed/config"
	"socialfeed/db"
	"socialfeed/feeds"
	"socialfeed/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	msgPassValidValues = "Pass valid values"
	msgPassValidAppId  = "Pass valid appId"
)

type ServerConfig struct {
	// Feed operations
	Service *feeds.Service

	// Store is pinged by the health check
	Store db.Store

	// Paths and CORS settings
	Server config.TomlServer
}

// Returns a fiber.App instance serving the feed API
func Server(cfg *ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		// Handlers pass request values on to the store, which may keep them
		Immutable: true,
		// App ids are often email addresses, path params get percent-decoded
		UnescapePath: true,
		ErrorHandler: errorHandler,
	})

	// Middleware to track the latency of each request. Registered before
	// recover so that panics are counted as 500s.
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		observeRequest(c.Method(), c.Route().Path, status, latency)

		log.WithFields(log.Fields{
			"method":    c.Method(),
			"route":     c.Route().Path,
			"status":    status,
			"latency":   latency,
			"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
		}).Info("Request")
		return err
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Server.AllowOrigins, ","),
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := cfg.Store.Ping(ctx); err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Warn("Health check failed")
			return c.Status(fiber.StatusServiceUnavailable).SendString("unavailable")
		}
		return c.SendString("ok")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	prefixes := append([]string{cfg.Server.BasePath}, cfg.Server.AliasPaths...)
	for _, prefix := range prefixes {
		registerFeedRoutes(app.Group(prefix), cfg.Service)
	}

	return app
}

func registerFeedRoutes(router fiber.Router, svc *feeds.Service) {
	router.Post("/addFeed", addFeedHandler(svc))
	router.Get("/getFeeds/:appId", getFeedsHandler(svc))
	router.Post("/likeFeed", likeFeedHandler(svc))
	router.Post("/addComment", addCommentHandler(svc))
	router.Get("/getComments/:appId/:feedId", getCommentsHandler(svc))
}

// errorHandler answers unhandled errors and panics without leaking details
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code != fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(models.ErrorResponse{ErrorMessage: fe.Message})
	}

	log.WithFields(log.Fields{
		"path":  c.Path(),
		"error": err,
	}).Error("Unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{ErrorMessage: msgPassValidValues})
}
