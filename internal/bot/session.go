package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conversation steps for the multi-message flows.
const (
	StepOfferOrigin      = "offer_origin"
	StepOfferDestination = "offer_destination"
	StepOfferDeparture   = "offer_departure"
	StepOfferSeats       = "offer_seats"
	StepOfferPrice       = "offer_price"

	StepFindOrigin      = "find_origin"
	StepFindDestination = "find_destination"
	StepFindDate        = "find_date"

	StepBookRide  = "book_ride"
	StepBookSeats = "book_seats"
)

// Session is the per-chat conversation state between messages.
type Session struct {
	Step string `json:"step"`

	Origin      string    `json:"origin,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Departure   time.Time `json:"departure,omitempty"`
	Seats       int       `json:"seats,omitempty"`
	Price       float64   `json:"price,omitempty"`

	RideID string `json:"ride_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// SessionStore keeps conversation state keyed by chat ID.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Put(ctx context.Context, chatID int64, session *Session) error
	Delete(ctx context.Context, chatID int64) error
}

// MemorySessionStore is a bounded in-memory store. Entries expire after
// ttl, and when the store is full the stalest entry is evicted so a burst
// of abandoned conversations cannot grow the map without limit.
type MemorySessionStore struct {
	mu         sync.Mutex
	sessions   map[int64]*Session
	ttl        time.Duration
	maxEntries int
}

func NewMemorySessionStore(ttl time.Duration, maxEntries int) *MemorySessionStore {
	if maxEntries < 1 {
		maxEntries = 1000
	}
	return &MemorySessionStore{
		sessions:   make(map[int64]*Session),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, chatID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && time.Since(session.UpdatedAt) > s.ttl {
		delete(s.sessions, chatID)
		return nil, nil
	}
	return session, nil
}

func (s *MemorySessionStore) Put(_ context.Context, chatID int64, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now()

	if _, exists := s.sessions[chatID]; !exists && len(s.sessions) >= s.maxEntries {
		s.evictStalest()
	}
	s.sessions[chatID] = session
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

// evictStalest removes the entry with the oldest UpdatedAt. Caller holds the lock.
func (s *MemorySessionStore) evictStalest() {
	var (
		stalestID int64
		stalestAt time.Time
		found     bool
	)
	for id, session := range s.sessions {
		if !found || session.UpdatedAt.Before(stalestAt) {
			stalestID = id
			stalestAt = session.UpdatedAt
			found = true
		}
	}
	if found {
		delete(s.sessions, stalestID)
	}
}

// RedisSessionStore keeps sessions in Redis so bot state survives restarts.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("bot:session:%d", chatID)
}

func (s *RedisSessionStore) Get(ctx context.Context, chatID int64) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, chatID int64, session *Session) error {
	session.UpdatedAt = time.Now()

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(chatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, sessionKey(chatID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
