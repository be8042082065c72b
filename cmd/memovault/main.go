package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/memovault/memovault/db"
	"github.com/memovault/memovault/internal/auth"
	"github.com/memovault/memovault/internal/router"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env file not loaded: %v", err)
	}

	logger, err := zap.NewProduction()

	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := auth.InitJWTSecret(); err != nil {
		logger.Fatal("Failed to initialize JWT secret", zap.Error(err))
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		logger.Fatal("DATABASE_URL environment variable is not set")
	}

	conn, err := db.Connect(dsn)

	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	r := router.NewRouter(conn, logger)

	port := os.Getenv("PORT")

	if port == "" {
		port = "8080"
		logger.Info("PORT not set, defaulting to 8080")
	}

	if err := r.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
