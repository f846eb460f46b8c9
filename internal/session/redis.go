package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gatewaystack/okta-connector/internal/config"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "okta-connector:session:"

// RedisStore is a Store backed by a shared Redis instance, for multi-replica
// deployments. Expiry is delegated to Redis TTLs.
type RedisStore struct {
	client  *redis.Client
	cookies cookieOptions
	ttl     time.Duration
}

// NewRedisStore connects to Redis at the configured address and returns the store.
func NewRedisStore(ctx context.Context, conf config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: conf.Session.RedisAddr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{
		client:  client,
		cookies: cookieOptionsFromConfig(conf),
		ttl:     conf.Session.TTL,
	}, nil
}

func (s *RedisStore) Establish(w http.ResponseWriter, r *http.Request, rec Record) error {
	marshalled, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error in json.Marshal call: %w", err)
	}

	sessionID := uuid.NewString()
	if err := s.client.Set(r.Context(), keyPrefix+sessionID, marshalled, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.cookies.setCookie(w, sessionID)
	return nil
}

func (s *RedisStore) Destroy(w http.ResponseWriter, r *http.Request) (Record, bool, error) {
	// The cookie is cleared even when no record is found, double-destroy must be safe.
	defer s.cookies.clearCookie(w)

	sessionID, ok := s.cookies.sessionID(r)
	if !ok {
		return Record{}, false, nil
	}

	key := keyPrefix + sessionID
	marshalled, err := s.client.Get(r.Context(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to load session: %w", err)
	}

	if err := s.client.Del(r.Context(), key).Err(); err != nil {
		return Record{}, false, fmt.Errorf("failed to delete session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(marshalled, &rec); err != nil {
		return Record{}, false, fmt.Errorf("error in json.Unmarshal call: %w", err)
	}

	return rec, true, nil
}
