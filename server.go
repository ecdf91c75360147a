package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultPort = "8080"

// SetupRouter wires the delivery surface: the health probe and the Pub/Sub
// push receiver. Queries are served as library functions, not over HTTP.
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/pubsub/push", handlePubSubPush)

	return router
}

// handlePubSubPush is the push-delivery twin of the pull subscriber in
// projectionWorkflow.go; both funnel into ProcessMessage. A 2xx acks the
// message, any other status makes Pub/Sub redeliver.
func handlePubSubPush(c *gin.Context) {
	logger := config.GetLogger()

	var envelope config.PubSubPushEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		config.LogError(logger, "Server.go", "handlePubSubPush", "Decoding push envelope", nil, err)
		// Malformed envelopes never become valid; ack to stop redelivery.
		c.Status(http.StatusNoContent)
		return
	}

	var m config.PubSubMessage
	if err := json.Unmarshal(envelope.Message.Data, &m); err != nil {
		config.LogError(logger, "Server.go", "handlePubSubPush", "Unmarshaling pubsub message", envelope.Message.Data, err)
		c.Status(http.StatusNoContent)
		return
	}

	ctx := utils.SetOwnerIdInContext(c.Request.Context(), m.OwnerId)
	ctx = utils.SetCorrelationIdInContext(ctx, m.CorrelationId)

	// Push delivery has no in-process mutex map, so the cross-instance
	// redis lock takes that role here; the DB advisory lock inside
	// ProcessMessage remains the correctness guard.
	lock, err := utils.OwnerLock(ctx, m.OwnerId, "projection", "Server.go", "handlePubSubPush")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	defer lock.Release(ctx)

	if err := ProcessMessage(ctx, logger, m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RunServer starts listening on $PORT. Must happen before the slow
// connectors so Cloud Run sees the container as ready.
func RunServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	logger := config.GetLogger()
	go func() {
		if err := router.Run(":" + port); err != nil {
			config.LogError(logger, "Server.go", "RunServer", "HTTP server stopped", port, err)
			os.Exit(1)
		}
	}()
}
