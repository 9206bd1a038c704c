package postgres_test

import (
	"context"
	"testing"
	"time"

	"contactbook/migrations"
	"contactbook/postgres"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type Info struct {
	CurrentUser string `db:"current_user"`
}

func TestConnection(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	for _, client := range []string{postgres.ClientPGX, postgres.ClientPQ} {
		t.Run(client, func(t *testing.T) {
			dbName, dbUser, dbPass := "conn_"+client, "contacts", "123456"
			db := CreateConnection(t, dbName, dbUser, dbPass, client)
			MigrateTestDatabase(t, db)

			var info Info
			err := db.Raw("SELECT current_user").Scan(&info).Error
			assert.NoError(t, err)
			assert.Equal(t, dbUser, info.CurrentUser)
		})
	}
}

func TestNewConnection_Error(t *testing.T) {
	t.Run("unreachable host", func(t *testing.T) {
		opts := postgres.Options{
			DBName:   "nonexistent",
			DBUser:   "invaliduser",
			Password: "wrongpass",
			Host:     "invalidhost",
			Port:     "5432",
			SSLMode:  true,
		}

		_, err := postgres.NewConnection(opts)
		assert.Error(t, err)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := postgres.NewConnection(postgres.Options{Client: "odbc"})
		assert.ErrorContains(t, err, "unknown client")
	})
}

func MigrateTestDatabase(t testing.TB, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	require.NoError(t, err)

	_, err = migrate.Exec(sqlDB, "postgres", migrations.Postgres(), migrate.Up)
	require.NoError(t, err)
}

func CreateConnection(t testing.TB, dbName, dbUser, dbPass, client string) *gorm.DB {
	t.Helper()
	cont := SetupPostgresContainer(t, dbName, dbUser, dbPass)
	host, err := cont.Host(context.Background())
	require.NoError(t, err)
	port, err := cont.MappedPort(context.Background(), "5432")
	require.NoError(t, err)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   dbName,
		DBUser:   dbUser,
		Password: dbPass,
		Host:     host,
		Port:     port.Port(),
		Client:   client,
	})
	require.NoError(t, err)

	return db
}

func SetupPostgresContainer(t testing.TB, dbname, user, password string) testcontainers.Container {
	t.Helper()
	ctx := context.Background()
	container, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		pgcontainer.WithDatabase(dbname),
		pgcontainer.WithUsername(user),
		pgcontainer.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(ctx))
	})

	return container
}
