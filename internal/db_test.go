package internal

import (
	"errors"
	"fmt"
	"testing"

	"ludic-admin/internal/admin"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/ludic?sslmode=disable": "pgx5://u:p@db:5432/ludic?sslmode=disable",
		"postgresql://db/ludic":                        "pgx5://db/ludic",
		"pgx5://db/ludic":                              "pgx5://db/ludic",
	}
	for in, want := range cases {
		assert.Equal(t, want, migrateURL(in), in)
	}
}

func TestDBErrMapping(t *testing.T) {
	assert.NoError(t, dbErr("players", nil))
	assert.ErrorIs(t, dbErr("players", pgx.ErrNoRows), admin.ErrNotFound)
	assert.ErrorIs(t, dbErr("players", fmt.Errorf("scan: %w", pgx.ErrNoRows)), admin.ErrNotFound)

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "players_email_key"}
	var conflict *admin.ConflictError
	require.ErrorAs(t, dbErr("players", unique), &conflict)
	assert.Equal(t, "email", conflict.Field)
	assert.ErrorIs(t, conflict, error(unique))

	other := &pgconn.PgError{Code: "23514", ConstraintName: "matches_score_check"}
	assert.Same(t, other, dbErr("matches", other))

	boom := errors.New("connection reset")
	assert.Equal(t, boom, dbErr("matches", boom))
}

func TestConflictField(t *testing.T) {
	assert.Equal(t, "email", conflictField("players", "players_email_key"))
	assert.Equal(t, "home_team_match_date", conflictField("matches", "matches_home_team_match_date_key"))
	assert.Equal(t, "uniq_email", conflictField("players", "uniq_email"))
}

func TestApplyEqKeepsOnlyAllowedColumns(t *testing.T) {
	q := admin.Query{Eq: map[string]string{"role": "admin", "pass_hash": "x"}}
	sql, args, err := applyEq(psql.Select("id").From("players"), q, "role").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM players WHERE role = $1", sql)
	assert.Equal(t, []any{"admin"}, args)

	sql, _, err = applyEq(psql.Select("id").From("players"), admin.Query{}, "role").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM players", sql)
}

func TestErrRowSurfacesBuildErrors(t *testing.T) {
	// an insert with no values fails to build
	_, _, buildErr := sq.Insert("players").ToSql()
	require.Error(t, buildErr)

	var n int
	assert.Equal(t, buildErr, errRow{buildErr}.Scan(&n))
}
