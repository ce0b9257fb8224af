package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
)

const channelPrefix = "pickleball:events:"

func channel(eventID string) string {
	return channelPrefix + eventID
}

// RedisBroker shares changes between instances over Redis pub/sub.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: redisURL, DB: 0}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	log.Println("Redis initialized with address:", opts.Addr)
	return client, nil
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, c match.Change) {
	payload, err := json.Marshal(c)
	if err != nil {
		log.Printf("encode change for event %s: %v", c.EventID, err)
		return
	}
	if err := b.client.Publish(ctx, channel(c.EventID), payload).Err(); err != nil {
		log.Printf("publish change for event %s: %v", c.EventID, err)
	}
}

func (b *RedisBroker) Subscribe(ctx context.Context, eventID string) (<-chan match.Change, func(), error) {
	ps := b.client.Subscribe(ctx, channel(eventID))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, fmt.Errorf("subscribe to event %s: %w", eventID, err)
	}

	out := make(chan match.Change, subscriberBuffer)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var c match.Change
				if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
					log.Printf("drop malformed change on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- c:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			ps.Close()
		})
	}
	return out, cancel, nil
}
