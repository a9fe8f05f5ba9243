// Package session defines the session entity and its storage contract
package session

import (
	"context"
	"time"
)

// Status represents the lifecycle state of a session
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Session tracks one client's state across tool calls
type Session struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	ExpiresAt time.Time              `json:"expires_at"`
	Status    Status                 `json:"status"`
	Stage     string                 `json:"stage,omitempty"`
	Labels    map[string]string      `json:"labels,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Store is the persistence contract for sessions
type Store interface {
	Create(ctx context.Context, sess Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, sess Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Session, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	Close() error
}
