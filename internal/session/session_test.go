package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManager() *Manager {
	return NewManager(time.Hour, zap.NewNop())
}

func TestLogin(t *testing.T) {
	m := newManager()
	id := NewID()

	assert.False(t, m.IsAdmin(id))

	err := m.Login(id, "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.False(t, m.IsAdmin(id))

	require.NoError(t, m.Login(id, "admin123"))
	assert.True(t, m.IsAdmin(id))
}

func TestLogin_ComparesVerbatim(t *testing.T) {
	m := newManager()
	id := NewID()

	for _, pw := range []string{"", "Admin123", " admin123", "admin123 "} {
		assert.ErrorIs(t, m.Login(id, pw), ErrInvalidPassword, "password %q", pw)
	}
	assert.False(t, m.IsAdmin(id))
}

func TestLogin_NoLockout(t *testing.T) {
	m := newManager()
	id := NewID()

	for i := 0; i < 50; i++ {
		_ = m.Login(id, "nope")
	}
	require.NoError(t, m.Login(id, AdminPassword))
	assert.True(t, m.IsAdmin(id))
}

func TestLogout(t *testing.T) {
	m := newManager()
	id := NewID()

	m.Logout(id)
	assert.False(t, m.IsAdmin(id))

	require.NoError(t, m.Login(id, AdminPassword))
	m.Logout(id)
	assert.False(t, m.IsAdmin(id))
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newManager()
	a, b := NewID(), NewID()
	require.NotEqual(t, a, b)

	require.NoError(t, m.Login(a, AdminPassword))
	assert.True(t, m.IsAdmin(a))
	assert.False(t, m.IsAdmin(b))
}

func TestPreview(t *testing.T) {
	m := newManager()
	id := NewID()

	_, ok := m.Preview(id)
	assert.False(t, ok)

	m.SetPreview(id, Preview{ImageURL: "data:image/png;base64,AAAA", Prompt: "a cat"})
	p, ok := m.Preview(id)
	require.True(t, ok)
	assert.Equal(t, "a cat", p.Prompt)

	m.SetPreview(id, Preview{ImageURL: "u2", Prompt: "a dog"})
	p, _ = m.Preview(id)
	assert.Equal(t, "a dog", p.Prompt, "a new result replaces the pending one")

	m.ClearPreview(id)
	_, ok = m.Preview(id)
	assert.False(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	m := newManager()
	id := NewID()
	m.SetPreview(id, Preview{ImageURL: "u", Prompt: "p"})

	st := m.Snapshot(id)
	st.Preview.Prompt = "changed"

	p, _ := m.Preview(id)
	assert.Equal(t, "p", p.Prompt)
}

func TestGenerationGuard(t *testing.T) {
	m := newManager()
	id := NewID()

	assert.True(t, m.BeginGeneration(id))
	assert.False(t, m.BeginGeneration(id))
	assert.True(t, m.Snapshot(id).Generating)

	m.EndGeneration(id)
	assert.True(t, m.BeginGeneration(id))
}

func TestGenerationGuard_Concurrent(t *testing.T) {
	m := newManager()
	id := NewID()

	var started atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.BeginGeneration(id) {
				started.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), started.Load())
}

func TestIdleSessionsExpire(t *testing.T) {
	m := NewManager(50*time.Millisecond, zap.NewNop())
	id := NewID()
	require.NoError(t, m.Login(id, AdminPassword))
	assert.Equal(t, 1, m.Count())

	// Любое обращение продлевает сессию, поэтому просто ждем дольше TTL
	time.Sleep(150 * time.Millisecond)
	assert.False(t, m.IsAdmin(id))
}

func TestAccessExtendsSession(t *testing.T) {
	m := NewManager(200*time.Millisecond, zap.NewNop())
	id := NewID()
	require.NoError(t, m.Login(id, AdminPassword))

	for i := 0; i < 4; i++ {
		time.Sleep(100 * time.Millisecond)
		require.True(t, m.IsAdmin(id))
	}
}
