package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImportRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learnhub_import_requests_total",
		Help: "Playlist import requests accepted by the API.",
	})

	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_import_jobs_processed_total",
		Help: "Import jobs resolved by the worker, by terminal status.",
	}, []string{"status"})

	GenerationRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learnhub_quiz_generation_retries_total",
		Help: "Quiz generation attempts retried after a rate limit or bad response.",
	})

	QuizSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learnhub_quiz_submissions_total",
		Help: "Quiz submissions scored by the API.",
	})
)
