package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adintel/ads-library-mcp/pkg/domain/errors"
	domainsession "github.com/adintel/ads-library-mcp/pkg/domain/session"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()

	store, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func testSession(id string, expiresAt time.Time) domainsession.Session {
	now := time.Now()
	return domainsession.Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: expiresAt,
		Status:    domainsession.StatusActive,
		Metadata:  map[string]interface{}{},
	}
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := testSession("ads_a", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "ads_a")
	require.NoError(t, err)
	assert.Equal(t, "ads_a", got.ID)
	assert.Equal(t, domainsession.StatusActive, got.Status)
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "ads_missing")
	require.Error(t, err)

	var structured *errors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, errors.CodeSessionNotFound, structured.Code)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testSession("ads_del", time.Now().Add(time.Hour))))
	require.NoError(t, store.Delete(ctx, "ads_del"))

	_, err := store.Get(ctx, "ads_del")
	require.Error(t, err)
}

func TestDeleteExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Create(ctx, testSession("ads_old", now.Add(-time.Hour))))
	require.NoError(t, store.Create(ctx, testSession("ads_fresh", now.Add(time.Hour))))

	removed, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "ads_fresh", sessions[0].ID)
}
