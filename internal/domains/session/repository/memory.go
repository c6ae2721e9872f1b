package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"kiosk/internal/domains/session/model"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const memoryCleanupInterval = time.Minute

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

type memoryLock struct {
	token     string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. It suits a single kiosk backend or tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	locks    map[string]memoryLock
	opts     Options
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMemory(opts Options) *MemoryStore {
	store := &MemoryStore{
		sessions: map[string]memoryEntry{},
		locks:    map[string]memoryLock{},
		opts:     opts,
		stopCh:   make(chan struct{}),
	}

	go store.cleanupLoop(memoryCleanupInterval)

	return store
}

// Sessions round-trip through JSON so callers never share slices or maps with the store.
func (m *MemoryStore) Get(_ context.Context, key string) (model.Session, bool, error) {
	var session model.Session

	m.mu.Lock()
	entry, ok := m.sessions[key]
	m.mu.Unlock()

	if !ok || m.expired(entry.expiresAt) {
		return session, false, nil
	}

	if err := json.Unmarshal(entry.payload, &session); err != nil {
		return session, false, fmt.Errorf("failed to decode session: %w", err)
	}

	return session, true, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, session model.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	entry := memoryEntry{payload: payload}
	if m.opts.TTL > 0 {
		entry.expiresAt = time.Now().Add(m.opts.TTL)
	}

	m.mu.Lock()
	m.sessions[key] = entry
	m.mu.Unlock()

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()

	return nil
}

func (m *MemoryStore) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	err := acquire(ctx, m.opts.LockWait, func() (bool, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if held, ok := m.locks[key]; ok && !m.expired(held.expiresAt) {
			return false, nil
		}

		lock := memoryLock{token: token}
		if m.opts.LockTTL > 0 {
			lock.expiresAt = time.Now().Add(m.opts.LockTTL)
		}

		m.locks[key] = lock

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	release := func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if held, ok := m.locks[key]; ok && held.token == token {
			delete(m.locks, key)
		}
	}

	return release, nil
}

// Close stops the eviction loop.
func (m *MemoryStore) Close() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *MemoryStore) expired(at time.Time) bool {
	return !at.IsZero() && at.Before(time.Now())
}

func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stopCh:
			return
		}
	}
}

func (m *MemoryStore) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0

	for key, entry := range m.sessions {
		if m.expired(entry.expiresAt) {
			delete(m.sessions, key)

			evicted++
		}
	}

	for key, lock := range m.locks {
		if m.expired(lock.expiresAt) {
			delete(m.locks, key)
		}
	}

	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Msg("evicted idle sessions")
	}
}
