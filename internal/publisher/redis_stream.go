package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream name templates, parameterized by sport key
// (football_nfl, football_ncaa).
const (
	liveStreamFormat  = "games.live.%s"
	finalStreamFormat = "games.final.%s"
	picksStream       = "picks.generated"
)

// RedisStreamPublisher publishes scoreboard and pick events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// NewRedisPublisher creates a publisher with its own connection
func NewRedisPublisher(redisURL string) (*RedisStreamPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStreamPublisher{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}

// PublishLiveGameUpdate publishes a live scoreboard update for a sport
func (p *RedisStreamPublisher) PublishLiveGameUpdate(ctx context.Context, sport string, gameData interface{}) error {
	return p.publish(ctx, fmt.Sprintf(liveStreamFormat, sport), gameData)
}

// PublishFinalGame publishes a game that has gone final
func (p *RedisStreamPublisher) PublishFinalGame(ctx context.Context, sport string, gameData interface{}) error {
	return p.publish(ctx, fmt.Sprintf(finalStreamFormat, sport), gameData)
}

// PublishPicks publishes a generated picks slate
func (p *RedisStreamPublisher) PublishPicks(ctx context.Context, picksData interface{}) error {
	return p.publish(ctx, picksStream, picksData)
}

func (p *RedisStreamPublisher) publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload for %s: %w", stream, err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
