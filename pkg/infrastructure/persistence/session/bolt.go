// Package session provides the BoltDB-backed session store
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/adintel/ads-library-mcp/pkg/domain/errors"
	"github.com/adintel/ads-library-mcp/pkg/domain/session"
)

const sessionsBucket = "sessions"

// BoltStore implements session.Store using BoltDB
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (creating if necessary) a BoltDB-backed session store
func NewBoltStore(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New(errors.CodeIoError, "persistence", fmt.Sprintf("failed to create directory %s", dir), err)
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		// A lock timeout means another server instance owns the file.
		if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "locked") {
			return nil, errors.New(errors.CodeIoError, "persistence",
				fmt.Sprintf("database file %q is already in use by another server instance; "+
					"set MCP_STORE_PATH to a different file", dbPath), err)
		}
		return nil, errors.New(errors.CodeIoError, "persistence", "failed to open bolt db", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.New(errors.CodeIoError, "persistence", "failed to create sessions bucket", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the BoltDB connection
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Create stores a new session
func (s *BoltStore) Create(ctx context.Context, sess session.Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))

		if bucket.Get([]byte(sess.ID)) != nil {
			return errors.New(errors.CodeInvalidParameter, "persistence", fmt.Sprintf("session %s already exists", sess.ID), nil)
		}

		data, err := json.Marshal(sess)
		if err != nil {
			return errors.New(errors.CodeInternalError, "persistence", "failed to marshal session", err)
		}

		if err := bucket.Put([]byte(sess.ID), data); err != nil {
			return errors.New(errors.CodeIoError, "persistence", "failed to store session", err)
		}

		return nil
	})
}

// Get retrieves a session by ID
func (s *BoltStore) Get(ctx context.Context, id string) (*session.Session, error) {
	var sess session.Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))
		data := bucket.Get([]byte(id))

		if data == nil {
			return errors.New(errors.CodeSessionNotFound, "persistence", fmt.Sprintf("session %s not found", id), nil)
		}

		return json.Unmarshal(data, &sess)
	})
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// Update modifies an existing session
func (s *BoltStore) Update(ctx context.Context, sess session.Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))

		if bucket.Get([]byte(sess.ID)) == nil {
			return errors.New(errors.CodeSessionNotFound, "persistence", fmt.Sprintf("session %s not found", sess.ID), nil)
		}

		data, err := json.Marshal(sess)
		if err != nil {
			return errors.New(errors.CodeInternalError, "persistence", "failed to marshal session", err)
		}

		if err := bucket.Put([]byte(sess.ID), data); err != nil {
			return errors.New(errors.CodeIoError, "persistence", "failed to update session", err)
		}

		return nil
	})
}

// Delete removes a session
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))

		if bucket.Get([]byte(id)) == nil {
			return errors.New(errors.CodeSessionNotFound, "persistence", fmt.Sprintf("session %s not found", id), nil)
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return errors.New(errors.CodeIoError, "persistence", "failed to delete session", err)
		}

		return nil
	})
}

// List returns all stored sessions
func (s *BoltStore) List(ctx context.Context) ([]*session.Session, error) {
	var sessions []*session.Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))

		return bucket.ForEach(func(k, v []byte) error {
			var sess session.Session
			if err := json.Unmarshal(v, &sess); err != nil {
				return nil // skip corrupt entries, keep iterating
			}
			sessions = append(sessions, &sess)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// DeleteExpired removes sessions whose expiry is before now and returns how
// many were removed.
func (s *BoltStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	var removed int

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))

		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var sess session.Session
			if err := json.Unmarshal(v, &sess); err != nil {
				return nil
			}
			if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(now) {
				key := make([]byte, len(k))
				copy(key, k)
				expired = append(expired, key)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, key := range expired {
			if err := bucket.Delete(key); err != nil {
				return errors.New(errors.CodeIoError, "persistence", "failed to delete expired session", err)
			}
			removed++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
