// Package storage opens the contact.Repository selected by configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"contactbook/contact"
	"contactbook/dynamodb"
	"contactbook/migrations"
	"contactbook/pkg/config"
	"contactbook/postgres"
	"contactbook/sqlite"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Supported values of DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

// Open connects to the configured backend and returns its repository along
// with a function releasing the underlying connection. Migrations are applied
// first when cfg.DB.AutoMigrate is set.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (contact.Repository, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.DB.Driver {
	case "", DriverPostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("storage: postgres handle: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := execMigrations(sqlDB, "postgres", migrations.Postgres(), logger); err != nil {
				sqlDB.Close()
				return nil, nil, err
			}
		}
		logger.Info("storage opened", zap.String("driver", DriverPostgres), zap.String("client", cfg.DB.Client))
		return postgres.NewContactRepository(db), sqlDB.Close, nil

	case DriverSQLite:
		db, err := sqlite.NewConnection(sqlite.Options{Path: cfg.DB.Path})
		if err != nil {
			return nil, nil, err
		}
		if cfg.DB.AutoMigrate {
			if err := execMigrations(db, "sqlite3", migrations.SQLite(), logger); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		logger.Info("storage opened", zap.String("driver", DriverSQLite), zap.String("path", cfg.DB.Path))
		return sqlite.NewContactRepository(db), db.Close, nil

	case DriverDynamoDB:
		client, err := openDynamoDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if cfg.DB.AutoMigrate {
			if err := dynamodb.EnsureTable(ctx, client, cfg.DynamoDB.ContactsTable); err != nil {
				return nil, nil, err
			}
		}
		logger.Info("storage opened", zap.String("driver", DriverDynamoDB), zap.String("table", cfg.DynamoDB.ContactsTable))
		return dynamodb.NewContactRepository(client, cfg.DynamoDB.ContactsTable), func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("storage: unknown driver %q", cfg.DB.Driver)
}

// Migrate brings the configured backend's schema up to date and returns the
// number of migrations applied. DynamoDB has a single table, created when
// missing, which counts as one migration.
func Migrate(ctx context.Context, cfg *config.Config, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.DB.Driver {
	case "", DriverPostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return 0, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return 0, fmt.Errorf("storage: postgres handle: %w", err)
		}
		defer sqlDB.Close()
		return migrate.Exec(sqlDB, "postgres", migrations.Postgres(), migrate.Up)

	case DriverSQLite:
		db, err := sqlite.NewConnection(sqlite.Options{Path: cfg.DB.Path})
		if err != nil {
			return 0, err
		}
		defer db.Close()
		return migrate.Exec(db, "sqlite3", migrations.SQLite(), migrate.Up)

	case DriverDynamoDB:
		client, err := openDynamoDB(ctx, cfg)
		if err != nil {
			return 0, err
		}
		if err := dynamodb.EnsureTable(ctx, client, cfg.DynamoDB.ContactsTable); err != nil {
			return 0, err
		}
		return 1, nil
	}

	return 0, fmt.Errorf("storage: unknown driver %q", cfg.DB.Driver)
}

func execMigrations(db *sql.DB, dialect string, source migrate.MigrationSource, logger *zap.Logger) error {
	n, err := migrate.Exec(db, dialect, source, migrate.Up)
	if err != nil {
		return fmt.Errorf("storage: migrate: %w", err)
	}
	logger.Info("applied migrations", zap.Int("total", n))
	return nil
}

func openPostgres(cfg *config.Config) (*gorm.DB, error) {
	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
		Client:   cfg.DB.Client,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open postgres: %w", err)
	}
	return db, nil
}

func openDynamoDB(ctx context.Context, cfg *config.Config) (*awsdynamodb.Client, error) {
	return dynamodb.NewClient(ctx, dynamodb.Options{
		Region:       cfg.DynamoDB.Region,
		Endpoint:     cfg.DynamoDB.Endpoint,
		AccessKey:    cfg.DynamoDB.AccessKey,
		SecretKey:    cfg.DynamoDB.SecretKey,
		SessionToken: cfg.DynamoDB.SessionToken,
	})
}
