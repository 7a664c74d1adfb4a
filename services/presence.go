package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OnlineWindow is how long after a heartbeat a user still counts as online.
const OnlineWindow = 60 * time.Second

// PresenceService tracks online users with per-user redis keys that expire
// after the online window. Any authenticated request refreshes the key.
type PresenceService struct {
	client *redis.Client
}

func NewPresenceService(client *redis.Client) *PresenceService {
	return &PresenceService{client: client}
}

func presenceKey(userId int64) string {
	return fmt.Sprintf("presence:%d", userId)
}

// Heartbeat marks the user online for the next window.
func (s *PresenceService) Heartbeat(ctx context.Context, userId int64) error {
	return s.client.Set(ctx, presenceKey(userId), time.Now().Unix(), OnlineWindow).Err()
}

func (s *PresenceService) IsOnline(ctx context.Context, userId int64) (bool, error) {
	n, err := s.client.Exists(ctx, presenceKey(userId)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LastOnline returns the time of the user's most recent heartbeat still in
// the window, or nil when the key has expired.
func (s *PresenceService) LastOnline(ctx context.Context, userId int64) (*time.Time, error) {
	raw, err := s.client.Get(ctx, presenceKey(userId)).Int64()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := time.Unix(raw, 0)
	return &t, nil
}

// CountOnline reports how many of the given users are currently online.
func (s *PresenceService) CountOnline(ctx context.Context, userIds []int64) (int, error) {
	if len(userIds) == 0 {
		return 0, nil
	}
	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(userIds))
	for i, id := range userIds {
		cmds[i] = pipe.Exists(ctx, presenceKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, err
	}
	online := 0
	for _, cmd := range cmds {
		if cmd.Val() > 0 {
			online++
		}
	}
	return online, nil
}
