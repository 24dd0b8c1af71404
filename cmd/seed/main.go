package main

import (
	"context"
	"flag"
	"log/slog"
	"mattressfit/internal/catalog"
	"mattressfit/internal/config"
	"mattressfit/internal/repository"
	"mattressfit/internal/service"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	withContent := flag.Bool("content", false, "also store the default site content")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}

	records, err := catalog.NewNormalizer(logger).Normalize(catalog.DefaultQuestions())
	if err != nil {
		logger.Error("default catalog is invalid", "error", err)
		os.Exit(1)
	}
	if err := repository.NewQuestionRepo(db).ReplaceAll(ctx, records); err != nil {
		logger.Error("failed to store questions", "error", err)
		os.Exit(1)
	}
	logger.Info("seeded survey catalog", "questions", len(records))

	if !*withContent {
		return
	}
	content, err := service.DefaultContent()
	if err != nil {
		logger.Error("default content is invalid", "error", err)
		os.Exit(1)
	}
	if err := repository.NewContentRepo(db).SetMany(ctx, content); err != nil {
		logger.Error("failed to store content", "error", err)
		os.Exit(1)
	}
	logger.Info("seeded site content", "keys", len(content))
}
