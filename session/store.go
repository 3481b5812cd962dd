package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultIdleTTL is how long an untouched session is kept
const DefaultIdleTTL = 2 * time.Hour

// Store keeps sessions in memory. A session expires after it has been idle
// for the configured TTL.
type Store struct {
	cache *gocache.Cache
}

// NewStore creates a session store
func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		cache: gocache.New(idleTTL, idleTTL/4),
	}
}

// Create registers a new empty session
func (s *Store) Create() *Session {
	sess := New()
	s.cache.SetDefault(sess.ID().String(), sess)
	return sess
}

// Get returns the session and refreshes its idle timer
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	key := id.String()
	val, found := s.cache.Get(key)
	if !found {
		return nil, false
	}
	sess := val.(*Session)
	s.cache.SetDefault(key, sess)
	return sess, true
}

// Delete removes a session
func (s *Store) Delete(id uuid.UUID) {
	s.cache.Delete(id.String())
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
