package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RabbitURI      string
	EventExchange  string
	JobQueue       string
	JWTSecret      string
	ConsulAddress  string
	ServiceName    string
	ServiceID      string
	ServiceAddress string
	FEAddress      string

	YouTubeAPIKey string
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string

	QuizQuestionCount int
	WorkerConcurrency int
}

var ServiceConfig *Config

func Load() *Config {
	questionCount, _ := strconv.Atoi(getEnv("QUIZ_QUESTION_COUNT", "4"))
	concurrency, _ := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "3"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	ServiceConfig = &Config{
		Port:           getEnv("PORT", "8000"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DB", "learnhub"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PWD", ""),
		RedisDB:        redisDB,
		RabbitURI:      getEnv("RABBITMQ_URI", ""),
		EventExchange:  getEnv("RABBITMQ_EXCHANGE", "learnhub.events"),
		JobQueue:       getEnv("IMPORT_JOB_QUEUE", "import.jobs"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		ConsulAddress:  getEnv("CONSUL_ADDR", ""),
		ServiceName:    getEnv("SERVICE_NAME", "learnhub-api"),
		ServiceID:      getEnv("SERVICE_NAME", "learnhub-api") + "-" + getEnv("HOSTNAME", "1"),
		ServiceAddress: getEnv("SERVICE_ADDRESS", "learnhub-api"),
		FEAddress:      getEnv("FE_ADDR", "http://localhost:3000"),

		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		LLMAPIKey:     getEnv("LLM_API_KEY", ""),
		LLMModel:      getEnv("LLM_MODEL", "gemini-2.0-flash"),

		QuizQuestionCount: questionCount,
		WorkerConcurrency: concurrency,
	}
	return ServiceConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if fallback == "" {
		log.Printf("env %s not set", key)
	}
	return fallback
}
