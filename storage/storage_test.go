package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"contactbook/contact"
	"contactbook/pkg/config"
	"contactbook/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sqliteConfig(t *testing.T, autoMigrate bool) *config.Config {
	t.Helper()
	cfg := new(config.Config)
	cfg.DB.Driver = storage.DriverSQLite
	cfg.DB.Path = filepath.Join(t.TempDir(), "contacts.db")
	cfg.DB.AutoMigrate = autoMigrate
	return cfg
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite with auto migrate is ready to use", func(t *testing.T) {
		// Arrange
		cfg := sqliteConfig(t, true)

		// Act
		repo, closeFn, err := storage.Open(ctx, cfg, zaptest.NewLogger(t))

		// Assert
		require.NoError(t, err)
		defer closeFn()
		id, err := repo.CreateContact(ctx, contact.Contact{FirstName: "Jane", LastName: "Doe"})
		require.NoError(t, err)
		_, ok, err := repo.ContactByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sqlite without migrations has no table", func(t *testing.T) {
		cfg := sqliteConfig(t, false)

		repo, closeFn, err := storage.Open(ctx, cfg, nil)
		require.NoError(t, err)
		defer closeFn()

		_, err = repo.AllContacts(ctx)
		assert.Error(t, err)
	})

	t.Run("dynamodb requires a region", func(t *testing.T) {
		cfg := new(config.Config)
		cfg.DB.Driver = storage.DriverDynamoDB

		_, _, err := storage.Open(ctx, cfg, nil)

		assert.ErrorContains(t, err, "region is required")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := new(config.Config)
		cfg.DB.Driver = "mongo"

		_, _, err := storage.Open(ctx, cfg, nil)

		assert.ErrorContains(t, err, `unknown driver "mongo"`)
	})
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies pending migrations once", func(t *testing.T) {
		cfg := sqliteConfig(t, false)

		first, err := storage.Migrate(ctx, cfg, nil)
		require.NoError(t, err)
		second, err := storage.Migrate(ctx, cfg, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Zero(t, second)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := new(config.Config)
		cfg.DB.Driver = "mongo"

		_, err := storage.Migrate(ctx, cfg, nil)

		assert.Error(t, err)
	})
}
