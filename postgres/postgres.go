package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client selects the database/sql driver GORM talks through.
const (
	ClientPGX = "pgx"
	ClientPQ  = "pq"
)

type Options struct {
	DBName   string
	DBUser   string
	Password string
	Host     string
	Port     string
	SSLMode  bool
	// Client is ClientPGX (default) or ClientPQ.
	Client string
}

func (opts Options) datasource() string {
	sslmode := "disable"
	if opts.SSLMode {
		sslmode = "require"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		opts.Host, opts.Port, opts.DBUser, opts.Password, opts.DBName, sslmode,
	)
}

func NewConnection(opts Options) (*gorm.DB, error) {
	cfg := postgres.Config{DSN: opts.datasource()}
	switch opts.Client {
	case "", ClientPGX:
	case ClientPQ:
		cfg.DriverName = "postgres"
	default:
		return nil, fmt.Errorf("postgres: unknown client %q", opts.Client)
	}

	return gorm.Open(postgres.New(cfg), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint violation
// raised by either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
