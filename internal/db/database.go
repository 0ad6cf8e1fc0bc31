package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/kaii_store/internal/config"
	"github.com/Skotchmaster/kaii_store/internal/models"
)

type Options struct {
	Driver string
	DSN    string
	// Verbose turns on gorm's SQL logger.
	Verbose bool
}

func configurePool(sqlDB *sql.DB, driver string) {
	if driver == config.DriverSQLite {
		// single-writer file: one connection serializes writes instead of
		// surfacing SQLITE_BUSY to handlers
		sqlDB.SetMaxOpenConns(1)
		return
	}

	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func dialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(sqliteDSN(opts.DSN)), nil
	case config.DriverPostgres:
		return postgres.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}
}

// sqliteDSN turns on foreign keys and a busy timeout for every connection.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	dial, err := dialector(opts)
	if err != nil {
		return nil, err
	}

	gcfg := &gorm.Config{
		// the statement cache waits on the pool, which has one connection on sqlite
		PrepareStmt: opts.Driver == config.DriverPostgres,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      logger.Default.LogMode(logger.Silent),
	}
	if opts.Verbose {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, opts.Driver)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.PaymentMethod{}, &models.Order{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
