// Package integration runs repositories and services against a real
// PostgreSQL started with testcontainers. The schema comes from the same
// migrations the server ships with.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/identity"
	"github.com/foodorder/backend/internal/infrastructure/config"
	"github.com/foodorder/backend/internal/infrastructure/logger"
	"github.com/foodorder/backend/internal/infrastructure/migration"
	"github.com/foodorder/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	postgresImage   = "postgres:16-alpine"
	fixturePassword = "password123"
)

// applicationTables are truncated by CleanTables, children first
var applicationTables = []string{"order_items", "orders", "payment_methods", "menu_items", "restaurants", "users"}

// pgServer is one running PostgreSQL container with the schema applied
type pgServer struct {
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
}

var (
	sharedServer    *pgServer
	sharedServerMu  sync.Mutex
	sharedServerErr error
)

// TestDB is a migrated database plus fixture helpers
type TestDB struct {
	DB        *gorm.DB
	Container testcontainers.Container
	DSN       string

	t *testing.T
}

// NewTestDB starts a PostgreSQL container owned by t. It is terminated when
// t finishes.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	srv, err := startServer(t.Context(), "foodorder_test")
	require.NoError(t, err, "start postgres")
	t.Cleanup(func() {
		if err := srv.container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})
	return connect(t, srv)
}

// NewSharedTestDB connects to a container shared by the whole package. Rows
// from earlier tests remain; call CleanTables when a test needs an empty
// schema.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedServerMu.Lock()
	if sharedServer == nil && sharedServerErr == nil {
		sharedServer, sharedServerErr = startServer(context.Background(), "foodorder_shared_test")
	}
	srv, err := sharedServer, sharedServerErr
	sharedServerMu.Unlock()

	require.NoError(t, err, "start shared postgres")
	return connect(t, srv)
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedServerMu.Lock()
	defer sharedServerMu.Unlock()

	if sharedServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedServer.container.Terminate(ctx)
	sharedServer, sharedServerErr = nil, nil
}

func startServer(ctx context.Context, dbName string) (*pgServer, error) {
	const user, password = "postgres", "admin123"

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername(user),
		tcpostgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(context.Background())
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = container.Terminate(context.Background())
		return nil, err
	}

	srv := &pgServer{
		container: container,
		cfg: config.DatabaseConfig{
			Driver:          config.DriverPostgres,
			Host:            host,
			Port:            port.Int(),
			User:            user,
			Password:        password,
			DBName:          dbName,
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5,
		},
	}
	if err := srv.migrate(ctx); err != nil {
		_ = container.Terminate(context.Background())
		return nil, err
	}
	return srv, nil
}

// migrate applies the shipped migrations through the Migrator cmd/migrate uses
func (s *pgServer) migrate(ctx context.Context) error {
	db, err := persistence.Open(ctx, &s.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migration.DriverPostgres, migrationsDir(), zap.NewNop())
	if err != nil {
		return err
	}
	return m.Up()
}

// connect opens a pool for t. Set TEST_DB_DEBUG to see every statement in
// the test log.
func connect(t *testing.T, srv *pgServer) *TestDB {
	t.Helper()

	level := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}
	gormLog := logger.NewGormLogger(zaptest.NewLogger(t), logger.DefaultGormConfig(level))

	db, err := persistence.Open(t.Context(), &srv.cfg, persistence.WithGormLogger(gormLog))
	require.NoError(t, err, "connect to postgres")
	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{
		DB:        db.DB,
		Container: srv.container,
		DSN:       srv.cfg.DSN(),
		t:         t,
	}
}

// migrationsDir resolves migrations/ relative to this file so tests run from
// any working directory
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// CleanTables empties every application table in one statement
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	stmt := "TRUNCATE TABLE " + strings.Join(applicationTables, ", ") + " RESTART IDENTITY CASCADE"
	require.NoError(tdb.t, tdb.DB.Exec(stmt).Error, "truncate tables")
}

// WithTransaction runs fn in a transaction that is always rolled back
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "begin transaction")
	defer tx.Rollback()

	fn(tx)
}

// CreateUser stores a user whose password is "password123"
func (tdb *TestDB) CreateUser(email, name string, role access.Role, country access.Country) *identity.User {
	tdb.t.Helper()

	user, err := identity.NewUser(email, fixturePassword, name, role, country)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormUserRepository(tdb.DB).Save(tdb.t.Context(), user))
	return user
}

// CreateRestaurant stores a restaurant in country
func (tdb *TestDB) CreateRestaurant(name string, country access.Country) *catalog.Restaurant {
	tdb.t.Helper()

	r, err := catalog.NewRestaurant(name, name+" kitchen", country, "")
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormRestaurantRepository(tdb.DB).Save(tdb.t.Context(), r))
	return r
}

// CreateMenuItem stores an available "Mains" item at price
func (tdb *TestDB) CreateMenuItem(restaurantID uuid.UUID, name, price string) *catalog.MenuItem {
	tdb.t.Helper()

	item, err := catalog.NewMenuItem(restaurantID, name, "", decimal.RequireFromString(price), "Mains", "", true)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormMenuItemRepository(tdb.DB).Save(tdb.t.Context(), item))
	return item
}
