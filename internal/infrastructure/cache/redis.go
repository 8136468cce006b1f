package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/meeting-tasks/pkg/config"
)

// TranscriptTTL bounds how long processed transcript text stays cached.
// Transcripts are immutable once captured, so the TTL only limits memory.
const TranscriptTTL = 24 * time.Hour

// NewRedisClient creates a Redis client and verifies connectivity
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// TranscriptCache is a read-through cache for processed transcript text,
// keyed by meeting id. The modification and export paths reread the
// transcript on every request; caching avoids a DB round trip for text that
// never changes after capture.
type TranscriptCache struct {
	client *redis.Client
}

// NewTranscriptCache creates a transcript cache. A nil client disables
// caching entirely; every lookup misses.
func NewTranscriptCache(client *redis.Client) *TranscriptCache {
	return &TranscriptCache{client: client}
}

func transcriptKey(meetingID string) string {
	return "transcript:processed:" + meetingID
}

// Get returns the cached processed text for a meeting, if present
func (c *TranscriptCache) Get(ctx context.Context, meetingID string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, transcriptKey(meetingID)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores the processed text for a meeting
func (c *TranscriptCache) Set(ctx context.Context, meetingID, text string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, transcriptKey(meetingID), text, TranscriptTTL).Err()
}

// Invalidate drops the cached text for a meeting. Called when a transcript
// is (re)captured.
func (c *TranscriptCache) Invalidate(ctx context.Context, meetingID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, transcriptKey(meetingID)).Err()
}
