package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
)

func main() {
	logger := config.GetLogger()

	// Listen first, connect after. Cloud Run kills containers that don't
	// bind $PORT quickly; requests arriving before the DB is up get 5xx
	// and Pub/Sub redelivers.
	RunServer(SetupRouter())

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	if config.MigrateOnStart() {
		models.MigrateTable()
	}

	if err := RunProjectionWorkflow(); err != nil {
		config.LogError(logger, "Main.go", "main", "Starting projection workflow", nil, err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
}
