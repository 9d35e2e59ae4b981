package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/javajoker/price-compare/internal/config"
	"github.com/javajoker/price-compare/internal/database"
	"github.com/javajoker/price-compare/internal/repository"
	"github.com/javajoker/price-compare/internal/repository/postgres"
	"github.com/javajoker/price-compare/internal/repository/repotest"
)

type PostgresRepositorySuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
}

func (s *PostgresRepositorySuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.container, err = tcpostgres.Run(
		s.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("price_compare_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)

	dsn, err := s.container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = database.Open(gormpostgres.Open(dsn), config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		MaxLifetime:  300,
		LogLevel:     "silent",
	})
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(s.db))
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.db != nil {
		s.NoError(database.Close(s.db))
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(s.ctx))
	}
}

func (s *PostgresRepositorySuite) fresh(t *testing.T) *repository.Repositories {
	t.Helper()
	err := s.db.Exec("TRUNCATE price_entries, products, stores").Error
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return postgres.New(s.db)
}

func (s *PostgresRepositorySuite) TestContract() {
	repotest.Run(s.T(), s.fresh)
}

func (s *PostgresRepositorySuite) TestPing() {
	repos := postgres.New(s.db)
	s.NoError(repos.Ping(s.ctx))
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	suite.Run(t, new(PostgresRepositorySuite))
}
