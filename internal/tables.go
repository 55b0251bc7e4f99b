package internal

import (
	"context"
	"errors"
	"strings"

	"ludic-admin/internal/admin"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// dbErr maps driver errors onto the ones admin classifies.
func dbErr(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return admin.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &admin.ConflictError{Field: conflictField(table, pgErr.ConstraintName), Err: err}
	}
	return err
}

// conflictField turns "players_email_key" into "email".
func conflictField(table, constraint string) string {
	f := strings.TrimPrefix(constraint, table+"_")
	f = strings.TrimSuffix(f, "_key")
	if f == "" {
		return constraint
	}
	return f
}

func applyEq(b sq.SelectBuilder, q admin.Query, allowed ...string) sq.SelectBuilder {
	eq := sq.Eq{}
	for _, col := range allowed {
		if v, ok := q.Eq[col]; ok {
			eq[col] = v
		}
	}
	if len(eq) == 0 {
		return b
	}
	return b.Where(eq)
}

/* ===================== PLAYERS ===================== */

var playerCols = []string{"id", "name", "email", "role", "points", "correct_predictions", "total_predictions", "rank_position"}

// PlayersTable serves the roster from the players table.
type PlayersTable struct {
	db *pgxpool.Pool
}

func NewPlayersTable(db *pgxpool.Pool) *PlayersTable { return &PlayersTable{db: db} }

func scanPlayer(row pgx.Row) (admin.Player, error) {
	var p admin.Player
	var role string
	err := row.Scan(&p.ID, &p.Name, &p.Email, &role, &p.Points, &p.CorrectPredictions, &p.TotalPredictions, &p.RankPosition)
	p.Role = admin.Role(role)
	return p, err
}

func (t *PlayersTable) List(ctx context.Context, q admin.Query) ([]admin.Player, error) {
	b := psql.Select(playerCols...).From("players").OrderBy("points DESC", "id ASC")
	rows, err := qQuery(ctx, t.db, applyEq(b, q, "role"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []admin.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (t *PlayersTable) Insert(ctx context.Context, p admin.Player) (admin.Player, error) {
	q := psql.Insert("players").
		Columns("name", "email", "pass_hash", "role", "points", "correct_predictions", "total_predictions", "rank_position").
		Values(p.Name, p.Email, p.PasswordHash, string(p.Role), p.Points, p.CorrectPredictions, p.TotalPredictions, 0).
		Suffix("RETURNING " + strings.Join(playerCols, ", "))
	created, err := scanPlayer(qRow(ctx, t.db, q))
	return created, dbErr("players", err)
}

// Update replaces every editable column. rank_position is computed elsewhere and
// an empty PasswordHash keeps the stored one.
func (t *PlayersTable) Update(ctx context.Context, id int64, p admin.Player) (admin.Player, error) {
	set := map[string]any{
		"name":                p.Name,
		"email":               p.Email,
		"role":                string(p.Role),
		"points":              p.Points,
		"correct_predictions": p.CorrectPredictions,
		"total_predictions":   p.TotalPredictions,
		"updated_at":          sq.Expr("now()"),
	}
	if p.PasswordHash != "" {
		set["pass_hash"] = p.PasswordHash
	}
	q := psql.Update("players").SetMap(set).Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(playerCols, ", "))
	updated, err := scanPlayer(qRow(ctx, t.db, q))
	return updated, dbErr("players", err)
}

func (t *PlayersTable) Delete(ctx context.Context, id int64) error {
	tag, err := qExec(ctx, t.db, psql.Delete("players").Where(sq.Eq{"id": id}))
	if err != nil {
		return dbErr("players", err)
	}
	if tag.RowsAffected() == 0 {
		return admin.ErrNotFound
	}
	return nil
}

func (t *PlayersTable) Count(ctx context.Context) (int, error) {
	var n int
	err := qRow(ctx, t.db, psql.Select("COUNT(*)").From("players")).Scan(&n)
	return n, err
}

// AdminByEmail returns the account and password hash for a login attempt.
func (t *PlayersTable) AdminByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	err := qRow(ctx, t.db, psql.Select("id", "name", "email", "role", "pass_hash").
		From("players").
		Where(sq.Eq{"email": email})).
		Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.PassHash)
	return a, dbErr("players", err)
}

func (t *PlayersTable) ByID(ctx context.Context, id int64) (admin.Player, error) {
	p, err := scanPlayer(qRow(ctx, t.db, psql.Select(playerCols...).From("players").Where(sq.Eq{"id": id})))
	return p, dbErr("players", err)
}

/* ===================== MATCHES ===================== */

var matchCols = []string{
	"id", "home_team", "away_team",
	"to_char(match_date, 'YYYY-MM-DD')", "match_time::text",
	"league", "tour", "status", "is_visible", "home_score", "away_score",
}

// MatchesTable serves fixtures from the matches table.
type MatchesTable struct {
	db *pgxpool.Pool
}

func NewMatchesTable(db *pgxpool.Pool) *MatchesTable { return &MatchesTable{db: db} }

func scanMatch(row pgx.Row) (admin.Match, error) {
	var m admin.Match
	var status string
	err := row.Scan(&m.ID, &m.HomeTeam, &m.AwayTeam, &m.MatchDate, &m.MatchTime,
		&m.League, &m.Tour, &status, &m.IsVisible, &m.HomeScore, &m.AwayScore)
	m.Status = admin.Status(status)
	return m, err
}

func (t *MatchesTable) List(ctx context.Context, q admin.Query) ([]admin.Match, error) {
	b := psql.Select(matchCols...).From("matches").OrderBy("match_date ASC", "match_time ASC", "id ASC")
	rows, err := qQuery(ctx, t.db, applyEq(b, q, "status"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []admin.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (t *MatchesTable) Insert(ctx context.Context, m admin.Match) (admin.Match, error) {
	q := psql.Insert("matches").
		Columns("home_team", "away_team", "match_date", "match_time", "league", "tour", "status", "is_visible", "home_score", "away_score").
		Values(m.HomeTeam, m.AwayTeam, m.MatchDate, m.MatchTime, m.League, m.Tour, string(m.Status), m.IsVisible, m.HomeScore, m.AwayScore).
		Suffix("RETURNING " + strings.Join(matchCols, ", "))
	created, err := scanMatch(qRow(ctx, t.db, q))
	return created, dbErr("matches", err)
}

// Update replaces every column of the fixture.
func (t *MatchesTable) Update(ctx context.Context, id int64, m admin.Match) (admin.Match, error) {
	q := psql.Update("matches").SetMap(map[string]any{
		"home_team":  m.HomeTeam,
		"away_team":  m.AwayTeam,
		"match_date": m.MatchDate,
		"match_time": m.MatchTime,
		"league":     m.League,
		"tour":       m.Tour,
		"status":     string(m.Status),
		"is_visible": m.IsVisible,
		"home_score": m.HomeScore,
		"away_score": m.AwayScore,
		"updated_at": sq.Expr("now()"),
	}).Where(sq.Eq{"id": id}).Suffix("RETURNING " + strings.Join(matchCols, ", "))
	updated, err := scanMatch(qRow(ctx, t.db, q))
	return updated, dbErr("matches", err)
}

func (t *MatchesTable) Delete(ctx context.Context, id int64) error {
	tag, err := qExec(ctx, t.db, psql.Delete("matches").Where(sq.Eq{"id": id}))
	if err != nil {
		return dbErr("matches", err)
	}
	if tag.RowsAffected() == 0 {
		return admin.ErrNotFound
	}
	return nil
}

func (t *MatchesTable) Count(ctx context.Context) (int, error) {
	var n int
	err := qRow(ctx, t.db, psql.Select("COUNT(*)").From("matches")).Scan(&n)
	return n, err
}
