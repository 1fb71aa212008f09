package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stickerverse/internal/config"
	"stickerverse/shared/models"
)

// failingStore отдает заранее заданные ошибки.
type failingStore struct {
	getErr error
	setErr error
}

func (f *failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, f.getErr
}

func (f *failingStore) Set(context.Context, string, []byte) error {
	return f.setErr
}

func (f *failingStore) Close() error {
	return nil
}

func TestStickerStorage_LoadMissingKeyReturnsSeed(t *testing.T) {
	s := NewStickerStorage(NewMemoryStore(), zap.NewNop())

	stickers, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stickers, 3)
	assert.Equal(t, SeedStickers(), stickers)
	assert.Equal(t, "1", stickers[0].ID)
	assert.Equal(t, "https://picsum.photos/seed/sticker3/200", stickers[2].URL)
	assert.Equal(t, "Sample Sticker 2", stickers[1].Name)
}

func TestStickerStorage_LoadMalformedReturnsSeed(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"garbage": "not json",
		"object":  `{"id":"1"}`,
		"null":    "null",
	} {
		t.Run(name, func(t *testing.T) {
			kv := NewMemoryStore()
			require.NoError(t, kv.Set(ctx, StickersKey, []byte(raw)))

			stickers, err := NewStickerStorage(kv, zap.NewNop()).Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, SeedStickers(), stickers)
		})
	}
}

func TestStickerStorage_LoadBackendErrorIsReturned(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewStickerStorage(&failingStore{getErr: boom}, zap.NewNop())

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestStickerStorage_SaveEmptyWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	s := NewStickerStorage(kv, zap.NewNop())

	require.NoError(t, s.Save(ctx, nil))

	raw, err := kv.Get(ctx, StickersKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	stickers, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stickers)
	assert.NotNil(t, stickers)
}

func TestStickerStorage_SaveUsesLiteralFieldNames(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	s := NewStickerStorage(kv, zap.NewNop())

	require.NoError(t, s.Save(ctx, []models.Sticker{{ID: "a", URL: "u", Name: "n"}}))

	raw, err := kv.Get(ctx, StickersKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","url":"u","name":"n"}]`, string(raw))
}

func TestStickerStorage_SaveErrorIsReturned(t *testing.T) {
	boom := errors.New("quota exceeded")
	s := NewStickerStorage(&failingStore{setErr: boom}, zap.NewNop())

	err := s.Save(context.Background(), SeedStickers())
	assert.ErrorIs(t, err, boom)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	_, err = kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(ctx, StickersKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	s := NewStickerStorage(kv, zap.NewNop())
	want := []models.Sticker{
		{ID: "2024-05-01T10:00:00.000Z", URL: "data:image/png;base64,AAAA", Name: "AI: cat"},
		{ID: "1", URL: "https://picsum.photos/seed/sticker1/200", Name: "Sample Sticker 1"},
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Перезапись значения под тем же ключом
	require.NoError(t, s.Save(ctx, want[:1]))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want[:1], got)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "stickers.db")

	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, StickersKey, []byte(`[{"id":"x","url":"y","name":"z"}]`)))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()

	stickers, err := NewStickerStorage(kv, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Sticker{{ID: "x", URL: "y", Name: "z"}}, stickers)
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, config.StorageConfig{Driver: config.StorageDriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, kv)

	kv, err = Open(ctx, config.StorageConfig{
		Driver:     config.StorageDriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "stickers.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(ctx, config.StorageConfig{Driver: "floppy"}, zap.NewNop())
	assert.Error(t, err)
}
