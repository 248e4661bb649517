package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"learnhub/internal/config"
	"learnhub/internal/database/mongo"
	"learnhub/internal/database/redis"
	"learnhub/internal/event"
	"learnhub/internal/llm"
	"learnhub/internal/queue"
	"learnhub/internal/repository"
	"learnhub/internal/worker"
	"learnhub/internal/youtube"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	if cfg.RabbitURI == "" {
		log.Fatal("RABBITMQ_URI is required")
	}
	if cfg.LLMAPIKey == "" {
		log.Fatal("LLM_API_KEY is required")
	}
	if err := mongo.Init(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongo.Disconnect()
	redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redis.Close()

	var publisher *event.EventPublisher
	if cfg.EventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitURI, cfg.EventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	}

	db := mongo.Database
	hostname, _ := os.Hostname()

	processor := worker.NewProcessor(
		repository.NewJobRepository(db),
		repository.NewVideoRepository(db),
		repository.NewQuizRepository(db),
		youtube.NewTranscriptClient(),
		llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel),
		worker.NewRedisClaims(redis.Client, hostname),
		publisher,
		cfg.QuizQuestionCount,
	)

	consumer, err := queue.NewConsumer(cfg.RabbitURI, cfg.JobQueue, cfg.WorkerConcurrency)
	if err != nil {
		log.Fatalf("Failed to open job queue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(func(msg queue.JobMessage) error {
		return processor.Process(ctx, msg)
	}); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("Worker %s consuming %s (prefetch %d)", hostname, cfg.JobQueue, cfg.WorkerConcurrency)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	cancel()
	consumer.Close()
}
