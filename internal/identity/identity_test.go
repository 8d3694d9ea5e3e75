package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/interlinear/internal/config"
	"github.com/mrlokans/interlinear/internal/database"
	"github.com/mrlokans/interlinear/internal/entities"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIdentity_Kind(t *testing.T) {
	assert.True(t, Identity{UserID: "local-user-1a2b3c4d"}.IsLocal())
	assert.Equal(t, KindLocal, Identity{UserID: "local-user-1a2b3c4d"}.Kind())
	assert.False(t, Identity{UserID: "9f0c1d7e-uid"}.IsLocal())
	assert.Equal(t, KindRemote, Identity{UserID: "9f0c1d7e-uid"}.Kind())
	assert.False(t, Identity{UserID: "local-usr-1"}.IsLocal())
}

func TestLocalProvider_SignInPersists(t *testing.T) {
	db := setupTestDB(t)

	p, err := NewLocalProvider(db)
	require.NoError(t, err)
	assert.Nil(t, p.Current())

	require.NoError(t, p.SignIn(context.Background()))
	current := p.Current()
	require.NotNil(t, current)
	assert.True(t, current.IsLocal())
	assert.Len(t, strings.TrimPrefix(current.UserID, LocalPrefix), 8)
	assert.Equal(t, "Demo User", current.DisplayName)

	// Signing in again keeps the same identity.
	require.NoError(t, p.SignIn(context.Background()))
	assert.Equal(t, current.UserID, p.Current().UserID)

	restored, err := NewLocalProvider(db)
	require.NoError(t, err)
	require.NotNil(t, restored.Current())
	assert.Equal(t, current.UserID, restored.Current().UserID)
}

func TestLocalProvider_SignOutClearsSlot(t *testing.T) {
	db := setupTestDB(t)

	p, err := NewLocalProvider(db)
	require.NoError(t, err)
	require.NoError(t, p.SignIn(context.Background()))
	require.NoError(t, p.SignOut(context.Background()))
	assert.Nil(t, p.Current())

	restored, err := NewLocalProvider(db)
	require.NoError(t, err)
	assert.Nil(t, restored.Current())
}

func TestLocalProvider_CorruptSlot(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.SetSetting(entities.SettingKeyLocalIdentity, "{not json"))

	p, err := NewLocalProvider(db)
	require.NoError(t, err)
	assert.Nil(t, p.Current())
}

func TestLocalProvider_Subscribe(t *testing.T) {
	db := setupTestDB(t)
	p, err := NewLocalProvider(db)
	require.NoError(t, err)

	var seen []*Identity
	unsubscribe := p.Subscribe(func(id *Identity) { seen = append(seen, id) })

	require.Len(t, seen, 1, "current value is delivered on subscribe")
	assert.Nil(t, seen[0])

	require.NoError(t, p.SignIn(context.Background()))
	require.Len(t, seen, 2)
	require.NotNil(t, seen[1])

	// Subscribers get copies.
	seen[1].UserID = "tampered"
	assert.NotEqual(t, "tampered", p.Current().UserID)

	unsubscribe()
	unsubscribe()
	require.NoError(t, p.SignOut(context.Background()))
	assert.Len(t, seen, 2)
}

func TestLocalProvider_ConcurrentSignInMintsOneIdentity(t *testing.T) {
	db := setupTestDB(t)
	p, err := NewLocalProvider(db)
	require.NoError(t, err)

	var mu sync.Mutex
	published := make(map[string]struct{})
	unsubscribe := p.Subscribe(func(id *Identity) {
		if id == nil {
			return
		}
		mu.Lock()
		published[id.UserID] = struct{}{}
		mu.Unlock()
	})
	defer unsubscribe()

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			assert.NoError(t, p.SignIn(context.Background()))
		}()
	}
	close(start)
	wg.Wait()

	current := p.Current()
	require.NotNil(t, current)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, published, 1)
	assert.Contains(t, published, current.UserID)

	restored, err := NewLocalProvider(db)
	require.NoError(t, err)
	require.NotNil(t, restored.Current())
	assert.Equal(t, current.UserID, restored.Current().UserID)
}

func TestNotifier_DeliversInSetOrder(t *testing.T) {
	n := newNotifier()

	var seen []string
	n.subscribe(func(id *Identity) {
		if id != nil {
			seen = append(seen, id.UserID)
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n.set(&Identity{UserID: fmt.Sprintf("user-%d", i)})
		}(i)
	}
	wg.Wait()

	require.Len(t, seen, 20)
	assert.Equal(t, n.get().UserID, seen[len(seen)-1])
}

func TestRemoteProvider_NotConfigured(t *testing.T) {
	_, err := NewRemoteProvider(config.Remote{})
	assert.ErrorIs(t, err, ErrRemoteNotConfigured)
}

func TestRemoteProvider_SignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body tokenRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Username != "reader" || body.Password != "password12345" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{Token: "tok-1", UID: "uid-1", Username: "reader"})
	}))
	defer srv.Close()

	t.Run("valid credentials", func(t *testing.T) {
		p, err := NewRemoteProvider(config.Remote{URL: srv.URL + "/", Username: "reader", Password: "password12345", Timeout: time.Second})
		require.NoError(t, err)

		var notified *Identity
		p.Subscribe(func(id *Identity) { notified = id })

		require.NoError(t, p.SignIn(context.Background()))
		assert.Equal(t, "tok-1", p.Token())
		require.NotNil(t, notified)
		assert.Equal(t, "uid-1", notified.UserID)
		assert.Equal(t, KindRemote, notified.Kind())

		require.NoError(t, p.SignOut(context.Background()))
		assert.Empty(t, p.Token())
		assert.Nil(t, p.Current())
		assert.Nil(t, notified)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		p, err := NewRemoteProvider(config.Remote{URL: srv.URL, Username: "reader", Password: "wrong-password", Timeout: time.Second})
		require.NoError(t, err)

		err = p.SignIn(context.Background())
		assert.ErrorIs(t, err, ErrSignInFailed)
		assert.Nil(t, p.Current())
		assert.Empty(t, p.Token())
	})
}

func TestRemoteProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p, err := NewRemoteProvider(config.Remote{URL: url, Username: "reader", Password: "password12345", Timeout: time.Second})
	require.NoError(t, err)
	assert.ErrorIs(t, p.SignIn(context.Background()), ErrSignInFailed)
}
