// Package session provides the session manager used by tool handlers
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adintel/ads-library-mcp/pkg/domain/errors"
	"github.com/adintel/ads-library-mcp/pkg/domain/session"
)

const cleanupInterval = 5 * time.Minute

// Manager is the session management contract used by tool handlers
type Manager interface {
	Get(ctx context.Context, sessionID string) (*session.Session, error)
	GetOrCreate(ctx context.Context, sessionID string) (*session.Session, error)
	Update(ctx context.Context, sessionID string, updateFunc func(*session.Session) error) error
	List(ctx context.Context) ([]*session.Session, error)
	StartCleanupRoutine(ctx context.Context)
	Stop(ctx context.Context) error
}

// GenerateSessionID returns a fresh session identifier
func GenerateSessionID() string {
	return fmt.Sprintf("ads_%s", uuid.New().String())
}

// StoreManager implements Manager on top of a session.Store
type StoreManager struct {
	store       session.Store
	logger      *slog.Logger
	defaultTTL  time.Duration
	maxSessions int

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewStoreManager creates a manager backed by the given store
func NewStoreManager(store session.Store, logger *slog.Logger, defaultTTL time.Duration, maxSessions int) *StoreManager {
	return &StoreManager{
		store:       store,
		logger:      logger.With("component", "session-manager"),
		defaultTTL:  defaultTTL,
		maxSessions: maxSessions,
		done:        make(chan struct{}),
	}
}

// Get retrieves a session, rejecting expired ones
func (m *StoreManager) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(time.Now()) {
		return nil, errors.New(errors.CodeSessionExpired, "session", fmt.Sprintf("session %s has expired", sessionID), nil)
	}
	return sess, nil
}

// GetOrCreate gets an existing session or creates a new one. An expired record
// under the same ID is replaced immediately rather than left to block
// recreation until the next cleanup sweep.
func (m *StoreManager) GetOrCreate(ctx context.Context, sessionID string) (*session.Session, error) {
	existing, err := m.Get(ctx, sessionID)
	if err == nil {
		return existing, nil
	}

	var structured *errors.Error
	if stderrors.As(err, &structured) && structured.Code == errors.CodeSessionExpired {
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("failed to remove expired session: %w", err)
		}
	}

	stored, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	active := 0
	for _, sess := range stored {
		if sess.ExpiresAt.IsZero() || sess.ExpiresAt.After(now) {
			active++
		}
	}
	if active >= m.maxSessions {
		return nil, errors.New(errors.CodeResourceExhausted, "session",
			fmt.Sprintf("session limit of %d reached", m.maxSessions), nil)
	}

	sess := session.Session{
		ID:        sessionID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(m.defaultTTL),
		Status:    session.StatusActive,
		Labels:    make(map[string]string),
		Metadata:  make(map[string]interface{}),
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.logger.Debug("session created", "session_id", sessionID, "expires_at", sess.ExpiresAt)
	return &sess, nil
}

// Update applies updateFunc to a session and persists the result
func (m *StoreManager) Update(ctx context.Context, sessionID string, updateFunc func(*session.Session) error) error {
	sess, err := m.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session for update: %w", err)
	}

	if err := updateFunc(sess); err != nil {
		return fmt.Errorf("update function failed: %w", err)
	}

	sess.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, *sess); err != nil {
		return fmt.Errorf("failed to persist session update: %w", err)
	}

	return nil
}

// List returns all stored sessions
func (m *StoreManager) List(ctx context.Context) ([]*session.Session, error) {
	return m.store.List(ctx)
}

// StartCleanupRoutine launches the background expiry sweep
func (m *StoreManager) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.done:
				return
			case <-ticker.C:
				removed, err := m.store.DeleteExpired(ctx, time.Now())
				if err != nil {
					m.logger.Error("session cleanup failed", "error", err)
					continue
				}
				if removed > 0 {
					m.logger.Info("expired sessions removed", "count", removed)
				}
			}
		}
	}()
}

// Stop halts the cleanup routine and closes the store
func (m *StoreManager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return nil
	}
	m.stopped = true
	close(m.done)

	return m.store.Close()
}
