package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const masteryCacheTTL = 5 * time.Minute

// BlendScore folds a new quiz score into the current mastery value. Recent
// performance is weighted 30% against 70% of accumulated mastery; the very
// first score seeds mastery at 80% of itself.
func BlendScore(current float64, hasCurrent bool, score float64) float64 {
	if hasCurrent {
		return current*0.7 + score*0.3
	}
	return score * 0.8
}

type MasteryService struct {
	Mastery *repository.MasteryRepository
	Cache   *redis.Client
}

func NewMasteryService(mastery *repository.MasteryRepository, cache *redis.Client) *MasteryService {
	return &MasteryService{Mastery: mastery, Cache: cache}
}

// UpdateForVideo blends the given score into the user's mastery for every
// topic the video is tagged with.
func (s *MasteryService) UpdateForVideo(ctx context.Context, userID string, video *models.Video, score float64) error {
	for _, topic := range video.Topics {
		current, err := s.Mastery.Find(ctx, userID, topic)
		hasCurrent := true
		if errors.Is(err, mongo.ErrNoDocuments) {
			hasCurrent = false
		} else if err != nil {
			return err
		}

		var currentScore float64
		if hasCurrent {
			currentScore = current.Score
		}
		updated := &models.MasteryScore{
			UserID:    userID,
			Topic:     topic,
			Score:     BlendScore(currentScore, hasCurrent, score),
			UpdatedAt: time.Now().UTC(),
		}
		if err := s.Mastery.Upsert(ctx, updated); err != nil {
			return err
		}
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// Scores returns the user's per-topic mastery, served from the Redis cache
// when fresh.
func (s *MasteryService) Scores(ctx context.Context, userID string) ([]models.MasteryScore, error) {
	key := s.cacheKey(userID)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var scores []models.MasteryScore
			if json.Unmarshal([]byte(cached), &scores) == nil {
				return scores, nil
			}
		}
	}

	scores, err := s.Mastery.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if data, err := json.Marshal(scores); err == nil {
			if err := s.Cache.Set(ctx, key, data, masteryCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache mastery scores for %s: %v", userID, err)
			}
		}
	}
	return scores, nil
}

// ScoreMap is Scores keyed by topic, the shape recommendation scoring wants.
func (s *MasteryService) ScoreMap(ctx context.Context, userID string) (map[string]float64, error) {
	scores, err := s.Scores(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]float64, len(scores))
	for _, sc := range scores {
		m[sc.Topic] = sc.Score
	}
	return m, nil
}

func (s *MasteryService) cacheKey(userID string) string {
	return fmt.Sprintf("mastery:%s", userID)
}

func (s *MasteryService) invalidateCache(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, s.cacheKey(userID)).Err(); err != nil {
		log.Printf("Failed to invalidate mastery cache for %s: %v", userID, err)
	}
}
