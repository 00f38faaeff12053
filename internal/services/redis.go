package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sportsbook-backend/internal/config"
	"sportsbook-backend/internal/models"
)

const (
	// BroadcastChannel carries LiveUpdate messages from the API to the
	// WebSocket hub subscriber.
	BroadcastChannel = "live_updates_broadcast"

	keyEventCache = "event:%s"
	ttlEventCache = 30 * time.Second
)

type RedisService struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisService(cfg *config.Config, log *zap.Logger) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisService{client: client, log: log}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// SubscribeUpdates opens a subscription on the broadcast channel and
// pipes raw payloads to the returned channel until the context is
// cancelled.
func (s *RedisService) SubscribeUpdates(ctx context.Context) <-chan string {
	sub := s.client.Subscribe(ctx, BroadcastChannel)
	out := make(chan string, 64)

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg == nil {
					continue
				}
				out <- msg.Payload
			}
		}
	}()

	return out
}

func (s *RedisService) publish(ctx context.Context, upd models.LiveUpdate) {
	data, err := json.Marshal(upd)
	if err != nil {
		s.log.Error("marshal live update", zap.Error(err))
		return
	}
	if err := s.client.Publish(ctx, BroadcastChannel, data).Err(); err != nil {
		// Fire-and-forget: a failed broadcast never fails the request.
		s.log.Warn("publish live update", zap.String("type", upd.Type), zap.Error(err))
	}
}

func (s *RedisService) BroadcastOddsUpdate(ctx context.Context, eventID string, odds models.EventOdds) {
	s.publish(ctx, models.NewOddsUpdate(eventID, odds))
}

func (s *RedisService) BroadcastEventStatus(ctx context.Context, eventID string, status models.EventStatus, result *models.EventResult) {
	s.publish(ctx, models.NewEventStatusUpdate(eventID, status, result))
}

func (s *RedisService) BroadcastBalanceUpdate(ctx context.Context, userID string, newBalance float64) {
	s.publish(ctx, models.NewBalanceUpdate(userID, newBalance))
}

// GetCachedEvent returns a cached event detail, reporting a miss rather
// than an error when the key is absent.
func (s *RedisService) GetCachedEvent(ctx context.Context, eventID string) (*models.Event, bool, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(keyEventCache, eventID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var ev models.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, false, err
	}
	return &ev, true, nil
}

func (s *RedisService) CacheEvent(ctx context.Context, ev *models.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, fmt.Sprintf(keyEventCache, ev.ID), data, ttlEventCache).Err()
}

func (s *RedisService) InvalidateEvent(ctx context.Context, eventID string) error {
	return s.client.Del(ctx, fmt.Sprintf(keyEventCache, eventID)).Err()
}
