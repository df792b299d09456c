package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const keyPrefix = "booking_session:"

// Store хранит сессии бронирования в Redis
// TTL сбрасывается при каждом сохранении: простаивающая сессия истекает и
// тем самым уничтожается без фоновых таймеров в сервисе.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore создает новое хранилище сессий
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Save сохраняет сессию и продлевает её TTL
func (s *Store) Save(ctx context.Context, session *domain.BookingSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: marshal session %s: %v", ErrStore, session.ID, err)
	}

	if err := s.client.Set(ctx, keyPrefix+session.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: save session %s: %v", ErrStore, session.ID, err)
	}

	return nil
}

// Get возвращает сессию по ID
func (s *Store) Get(ctx context.Context, id string) (*domain.BookingSession, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get session %s: %v", ErrStore, id, err)
	}

	var session domain.BookingSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("%w: unmarshal session %s: %v", ErrStore, id, err)
	}

	return &session, nil
}

// Delete удаляет сессию
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: delete session %s: %v", ErrStore, id, err)
	}
	return nil
}
