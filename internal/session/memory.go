package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatewaystack/okta-connector/internal/config"
)

// janitorInterval is how often expired in-memory sessions are swept.
const janitorInterval = 15 * time.Minute

// memoryEntry is a stored record with its expiry.
type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Suitable for a single replica; use the
// Redis store when the connector runs behind a load balancer.
type MemoryStore struct {
	sessions sync.Map // map[sessionID]memoryEntry
	cookies  cookieOptions
	ttl      time.Duration
}

// NewMemoryStore returns a MemoryStore with a background sweep of expired sessions.
func NewMemoryStore(conf config.Config) *MemoryStore {
	store := &MemoryStore{
		cookies: cookieOptionsFromConfig(conf),
		ttl:     conf.Session.TTL,
	}
	go store.sweep()
	return store
}

func (s *MemoryStore) Establish(w http.ResponseWriter, _ *http.Request, rec Record) error {
	sessionID := uuid.NewString()
	s.sessions.Store(sessionID, memoryEntry{record: rec, expiresAt: time.Now().Add(s.ttl)})
	s.cookies.setCookie(w, sessionID)
	return nil
}

func (s *MemoryStore) Destroy(w http.ResponseWriter, r *http.Request) (Record, bool, error) {
	// The cookie is cleared even when no record is found, double-destroy must be safe.
	defer s.cookies.clearCookie(w)

	sessionID, ok := s.cookies.sessionID(r)
	if !ok {
		return Record{}, false, nil
	}

	value, present := s.sessions.LoadAndDelete(sessionID)
	if !present {
		return Record{}, false, nil
	}

	entry, ok := value.(memoryEntry)
	if !ok || time.Now().After(entry.expiresAt) {
		return Record{}, false, nil
	}

	return entry.record, true, nil
}

// sweep periodically removes expired sessions.
func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.sessions.Range(func(key, value any) bool {
			if entry, ok := value.(memoryEntry); ok && now.After(entry.expiresAt) {
				s.sessions.Delete(key)
			}
			return true
		})
	}
}
