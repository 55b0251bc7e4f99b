package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ludic-admin/internal/logger"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

/* ===================== CONNECT ===================== */

// MustDB connects to Postgres, retrying for up to 30s while the database starts.
func MustDB(url string, maxConns int32, log *logger.Logger) *pgxpool.Pool {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("bad database url", err)
		panic(err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	var pool *pgxpool.Pool

	deadline := time.Now().Add(30 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				cancel()
				break
			}
			pool.Close()
			err = ctx.Err()
		}
		cancel()

		if time.Now().After(deadline) {
			log.Error("failed to connect DB after retries", err)
			panic(err)
		}
		log.Debug("database not ready, retrying")
		time.Sleep(1 * time.Second)
	}

	return pool
}

/* ===================== MIGRATIONS ===================== */

// RunMigrations applies all up migrations found at path.
func RunMigrations(dbURL, path string) error {
	m, err := migrate.New("file://"+path, migrateURL(dbURL))
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// migrateURL points a postgres:// URL at the pgx/v5 migrate driver.
func migrateURL(dbURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dbURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(dbURL, scheme)
		}
	}
	return dbURL
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func EnsureAdmin(ctx context.Context, db *pgxpool.Pool, name, email, password string, log *logger.Logger) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	tag, err := qExec(ctx, db, psql.Insert("players").
		Columns("name", "email", "pass_hash", "role").
		Values(name, email, string(hash), "admin").
		Suffix("ON CONFLICT (email) DO NOTHING"))
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if tag.RowsAffected() > 0 {
		log.Info("bootstrap admin created", zap.String("email", email))
	}
	return nil
}

/* ===================== SQUIRREL HELPERS ===================== */

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func qExec(ctx context.Context, db *pgxpool.Pool, q sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return db.Exec(ctx, sql, args...)
}

func qQuery(ctx context.Context, db *pgxpool.Pool, q sq.Sqlizer) (pgx.Rows, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return db.Query(ctx, sql, args...)
}

// errRow reports a query-building error from Scan.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func qRow(ctx context.Context, db *pgxpool.Pool, q sq.Sqlizer) pgx.Row {
	sql, args, err := q.ToSql()
	if err != nil {
		return errRow{err}
	}
	return db.QueryRow(ctx, sql, args...)
}
