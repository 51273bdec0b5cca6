package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Driver names a supported database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverMongo    Driver = "mongo"
	DriverMemory   Driver = "memory"
)

// Valid reports whether d is a supported driver.
func (d Driver) Valid() bool {
	switch d {
	case DriverPostgres, DriverMySQL, DriverMongo, DriverMemory:
		return true
	}
	return false
}

// sqlDriverName maps a Driver to the name registered with database/sql.
func (d Driver) sqlDriverName() string {
	if d == DriverPostgres {
		return "pgx"
	}
	return string(d)
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// NewDB creates a new SQL connection pool for driver with the given DSN.
func NewDB(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	if driver == DriverMySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver.sqlDriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}

// Connection is an open user store together with its underlying client.
type Connection struct {
	Users UserStore
	close func(context.Context) error
}

// Close releases the underlying database client.
func (c *Connection) Close(ctx context.Context) error {
	return c.close(ctx)
}

// Open connects to the configured backend, prepares its schema and returns
// the user store. database is only used by MongoDB.
func Open(ctx context.Context, driver Driver, dsn, database string) (*Connection, error) {
	switch driver {
	case DriverPostgres, DriverMySQL:
		db, err := NewDB(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, db, driver); err != nil {
			db.Close()
			return nil, err
		}

		var users UserStore = NewPostgresUserStore(db)
		if driver == DriverMySQL {
			users = NewMySQLUserStore(db)
		}

		slog.Info("database ready", "driver", driver)
		return &Connection{
			Users: users,
			close: func(context.Context) error { return db.Close() },
		}, nil

	case DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
		if err != nil {
			return nil, fmt.Errorf("mongo connect error: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo ping error: %w", err)
		}

		store := NewMongoUserStore(client.Database(database))
		if err := store.EnsureIndexes(ctx); err != nil {
			client.Disconnect(ctx)
			return nil, err
		}

		slog.Info("database ready", "driver", driver, "database", database)
		return &Connection{Users: store, close: client.Disconnect}, nil

	case DriverMemory:
		slog.Warn("using in-memory user store, data is not persisted")
		return &Connection{
			Users: NewMemoryUserStore(),
			close: func(context.Context) error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", driver)
}
