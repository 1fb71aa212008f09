package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"stickerverse/shared/models"
)

// BackendsIntegrationSuite проверяет Redis и PostgreSQL бэкенды на настоящих контейнерах.
type BackendsIntegrationSuite struct {
	suite.Suite
	ctx         context.Context
	logger      *zap.Logger
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pgStore     *PostgresStore
	redisStore  *RedisStore
}

func TestBackendsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based integration tests in short mode")
	}
	suite.Run(t, new(BackendsIntegrationSuite))
}

func (s *BackendsIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = zap.NewNop()
	var err error

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("stickers_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	dsn, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)
	s.pgStore, err = OpenPostgres(s.ctx, dsn, s.logger)
	require.NoError(s.T(), err, "Failed to open postgres store")

	s.rdContainer, err = tcredis.Run(s.ctx, "docker.io/redis:7-alpine")
	require.NoError(s.T(), err, "Failed to start redis container")

	endpoint, err := s.rdContainer.Endpoint(s.ctx, "")
	require.NoError(s.T(), err)
	s.redisStore, err = OpenRedis(s.ctx, endpoint, "", 0, s.logger)
	require.NoError(s.T(), err, "Failed to open redis store")
}

func (s *BackendsIntegrationSuite) TearDownSuite() {
	if s.pgStore != nil {
		s.pgStore.Close()
	}
	if s.redisStore != nil {
		s.redisStore.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
	if s.rdContainer != nil {
		_ = s.rdContainer.Terminate(s.ctx)
	}
}

func (s *BackendsIntegrationSuite) SetupTest() {
	if s.redisStore != nil {
		require.NoError(s.T(), s.redisStore.client.FlushDB(s.ctx).Err())
	}
	if s.pgStore != nil {
		_, err := s.pgStore.pool.Exec(s.ctx, "TRUNCATE TABLE kv_store")
		require.NoError(s.T(), err)
	}
}

func (s *BackendsIntegrationSuite) TestRedisRoundTrip() {
	s.roundTrip(s.redisStore)
}

func (s *BackendsIntegrationSuite) TestPostgresRoundTrip() {
	s.roundTrip(s.pgStore)
}

func (s *BackendsIntegrationSuite) TestPostgresMigrationsAreIdempotent() {
	require.NoError(s.T(), RunMigrations(s.ctx, s.pgStore.pool, s.logger))

	var count int
	err := s.pgStore.pool.QueryRow(s.ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *BackendsIntegrationSuite) roundTrip(kv KVStore) {
	_, err := kv.Get(s.ctx, StickersKey)
	s.ErrorIs(err, ErrKeyNotFound)

	storage := NewStickerStorage(kv, s.logger)

	seed, err := storage.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(SeedStickers(), seed)

	want := append([]models.Sticker{{ID: "2024-01-01T00:00:00.000Z", URL: "data:image/gif;base64,R0lG", Name: "party"}}, seed...)
	s.Require().NoError(storage.Save(s.ctx, want))

	got, err := storage.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(want, got)
}
