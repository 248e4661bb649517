package worker

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClaims implements ClaimStore with SETNX and a TTL, so a crashed
// worker's claim expires instead of wedging the job forever.
type RedisClaims struct {
	Client   *redis.Client
	WorkerID string
	TTL      time.Duration
}

func NewRedisClaims(client *redis.Client, workerID string) *RedisClaims {
	return &RedisClaims{
		Client:   client,
		WorkerID: workerID,
		TTL:      10 * time.Minute,
	}
}

func (c *RedisClaims) key(jobID string) string {
	return "job-claim:" + jobID
}

func (c *RedisClaims) Claim(ctx context.Context, jobID string) (bool, error) {
	return c.Client.SetNX(ctx, c.key(jobID), c.WorkerID, c.TTL).Result()
}

func (c *RedisClaims) Release(ctx context.Context, jobID string) {
	if err := c.Client.Del(ctx, c.key(jobID)).Err(); err != nil {
		log.Printf("Failed to release claim on job %s: %v", jobID, err)
	}
}
