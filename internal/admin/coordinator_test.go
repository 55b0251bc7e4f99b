package admin

import (
	"context"
	"errors"
	"testing"

	"ludic-admin/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testOpts = Options{HashCost: bcrypt.MinCost}

type recordingAuditor struct {
	actions []string
}

func (a *recordingAuditor) Record(_ context.Context, action string, _ any) {
	a.actions = append(a.actions, action)
}

func newPlayerCoordinator(table *fakeTable[Player]) (*Coordinator[Player, PlayerDraft], *Store[Player], *recordingAuditor) {
	e := Players(testOpts)
	store := NewStore(e, table, logger.Nop())
	audit := &recordingAuditor{}
	return NewCoordinator(e, table, store, audit, logger.Nop()), store, audit
}

func newMatchCoordinator(table *fakeTable[Match]) (*Coordinator[Match, MatchDraft], *Store[Match]) {
	e := Matches(testOpts)
	store := NewStore(e, table, logger.Nop())
	return NewCoordinator(e, table, store, nil, logger.Nop()), store
}

func TestCreateMatchNormalizesAndDefaults(t *testing.T) {
	table := newMatchTable()
	coord, store := newMatchCoordinator(table)

	created, err := coord.Create(context.Background(), MatchDraft{
		HomeTeam:  "A",
		AwayTeam:  "B",
		MatchDate: "2024-01-01",
		MatchTime: "21:00",
		Status:    "upcoming",
	})
	require.NoError(t, err)

	assert.Equal(t, "21:00:00", created.MatchTime)
	assert.Equal(t, StatusUpcoming, created.Status)
	assert.True(t, created.IsVisible)
	assert.Equal(t, DefaultLeague, created.League)
	assert.Nil(t, created.Tour)
	assert.Nil(t, created.HomeScore)

	assert.Equal(t, 1, table.count("insert"))
	assert.Equal(t, 1, table.count("list"))
	require.Len(t, store.Items(), 1)
	assert.Equal(t, "21:00:00", store.Items()[0].MatchTime)
}

func TestCreateMatchInvalidTimeMakesNoCalls(t *testing.T) {
	table := newMatchTable()
	coord, _ := newMatchCoordinator(table)

	_, err := coord.Create(context.Background(), MatchDraft{
		HomeTeam: "A", AwayTeam: "B", MatchDate: "2024-01-01", MatchTime: "9:00",
	})
	require.Error(t, err)
	assert.Equal(t, ValidationFailed, KindOf(err))

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, []string{"Введите время в формате ЧЧ:ММ"}, f.Messages)
	assert.Equal(t, 0, table.total())
}

func TestCreateMatchTrimsAndParsesOptionalNumbers(t *testing.T) {
	table := newMatchTable()
	coord, _ := newMatchCoordinator(table)
	hidden := false

	created, err := coord.Create(context.Background(), MatchDraft{
		HomeTeam: "  Zenit ", AwayTeam: " Spartak", MatchDate: "2024-03-10", MatchTime: "18:30:00",
		League: "  ", Tour: "12", IsVisible: &hidden, HomeScore: "3", AwayScore: "0",
	})
	require.NoError(t, err)
	assert.Equal(t, "Zenit", created.HomeTeam)
	assert.Equal(t, "Spartak", created.AwayTeam)
	assert.Equal(t, "18:30:00", created.MatchTime)
	assert.Equal(t, DefaultLeague, created.League)
	require.NotNil(t, created.Tour)
	assert.Equal(t, 12, *created.Tour)
	assert.False(t, created.IsVisible)
	assert.Equal(t, 3, *created.HomeScore)
	assert.Equal(t, 0, *created.AwayScore)
}

func TestCreatePlayerNormalizesAndHashes(t *testing.T) {
	table := newPlayerTable()
	coord, store, audit := newPlayerCoordinator(table)

	created, err := coord.Create(context.Background(), PlayerDraft{
		Name: "  Ann ", Email: " Ann@Example.COM ", Points: "15", CorrectPredictions: "abc",
		TotalPredictions: "", Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ann", created.Name)
	assert.Equal(t, "ann@example.com", created.Email)
	assert.Equal(t, RolePlayer, created.Role)
	assert.Equal(t, 15, created.Points)
	assert.Equal(t, 0, created.CorrectPredictions)
	assert.Equal(t, 0, created.TotalPredictions)
	assert.Equal(t, 0, created.RankPosition)
	assert.NotEqual(t, "secret1", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []string{"create_player"}, audit.actions)
}

func TestCreatePlayerRejectsBlankTotalBelowCorrect(t *testing.T) {
	table := newPlayerTable()
	coord, _, _ := newPlayerCoordinator(table)

	_, err := coord.Create(context.Background(), PlayerDraft{
		Name: "Ann", Email: "a@b.com", Password: "secret1", CorrectPredictions: "5", TotalPredictions: "",
	})
	require.Error(t, err)
	assert.Equal(t, ValidationFailed, KindOf(err))
	assert.Equal(t, 0, table.count("insert"))
	assert.Equal(t, 0, table.total())
}

func TestCreatePlayerRejectsCountersBeyondColumn(t *testing.T) {
	table := newPlayerTable()
	coord, _, _ := newPlayerCoordinator(table)

	_, err := coord.Create(context.Background(), PlayerDraft{
		Name: "Ann", Email: "a@b.com", Password: "secret1", Points: "3000000000",
	})
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, []string{"Поле «Очки» не может быть больше 2147483647"}, f.Messages)
	assert.Equal(t, 0, table.count("insert"))
}

func TestCreatePlayerHashesPasswordAsTyped(t *testing.T) {
	table := newPlayerTable()
	coord, _, _ := newPlayerCoordinator(table)

	created, err := coord.Create(context.Background(), PlayerDraft{Name: "Ann", Email: "a@b.com", Password: "  secret12 "})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("  secret12 ")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret12")))
}

func TestUpdatePlayerWhitespacePasswordKeepsStoredHash(t *testing.T) {
	table := newPlayerTable(Player{Name: "Ann", Email: "a@b.com", Role: RolePlayer, PasswordHash: "stored"})
	coord, _, _ := newPlayerCoordinator(table)

	updated, err := coord.Update(context.Background(), 1, PlayerDraft{Name: "Ann", Email: "a@b.com", Password: "   "})
	require.NoError(t, err)
	assert.Equal(t, "", updated.PasswordHash)
}

func TestCreatePlayerConflictIsDistinctFromNetwork(t *testing.T) {
	draft := PlayerDraft{Name: "Ann", Email: "a@b.com", Password: "secret1"}

	conflictTable := newPlayerTable()
	conflictTable.insertErr = &ConflictError{Field: "email", Err: errors.New("duplicate key value")}
	coord, _, _ := newPlayerCoordinator(conflictTable)
	_, err := coord.Create(context.Background(), draft)
	require.Error(t, err)
	assert.Equal(t, ConflictFailed, KindOf(err))
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "email", f.Field)
	assert.Equal(t, "Игрок с таким значением email уже существует", f.UserMessage())
	assert.Equal(t, 0, conflictTable.count("list"))

	netTable := newPlayerTable()
	netTable.insertErr = errors.New("dial tcp: connection refused")
	coord, _, _ = newPlayerCoordinator(netTable)
	_, err = coord.Create(context.Background(), draft)
	require.Error(t, err)
	assert.Equal(t, NetworkFailed, KindOf(err))
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "Не удалось создать игрока", f.UserMessage())
}

func TestUpdateIsFullReplace(t *testing.T) {
	tour := 3
	table := newMatchTable(Match{
		HomeTeam: "A", AwayTeam: "B", MatchDate: "2024-01-01", MatchTime: "21:00:00",
		League: "Cup", Tour: &tour, Status: StatusUpcoming, IsVisible: true,
	})
	coord, store := newMatchCoordinator(table)

	updated, err := coord.Update(context.Background(), 1, MatchDraft{
		HomeTeam: "A", AwayTeam: "C", MatchDate: "2024-01-02", MatchTime: "20:00",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated.ID)
	assert.Equal(t, "C", updated.AwayTeam)
	assert.Equal(t, "20:00:00", updated.MatchTime)
	// Fields left blank in the draft are reset, not kept.
	assert.Equal(t, DefaultLeague, updated.League)
	assert.Nil(t, updated.Tour)
	assert.True(t, updated.IsVisible)
	assert.Equal(t, 1, table.count("update"))
	assert.Equal(t, 1, table.count("list"))
	assert.Equal(t, "C", store.Items()[0].AwayTeam)
}

func TestUpdateStatusIsFreelySettable(t *testing.T) {
	table := newMatchTable(Match{HomeTeam: "A", AwayTeam: "B", MatchDate: "2024-01-01", MatchTime: "21:00:00", Status: StatusFinished})
	coord, _ := newMatchCoordinator(table)

	for _, next := range []Status{StatusUpcoming, StatusFinished, StatusLive, StatusUpcoming} {
		d := MatchDraft{HomeTeam: "A", AwayTeam: "B", MatchDate: "2024-01-01", MatchTime: "21:00", Status: string(next)}
		updated, err := coord.Update(context.Background(), 1, d)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}
}

func TestUpdatePlayerKeepsPasswordWhenBlank(t *testing.T) {
	table := newPlayerTable(Player{Name: "Ann", Email: "a@b.com", Role: RolePlayer, PasswordHash: "stored"})
	coord, _, _ := newPlayerCoordinator(table)

	updated, err := coord.Update(context.Background(), 1, PlayerDraft{Name: "Ann B", Email: "a@b.com", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "", updated.PasswordHash, "blank password must reach the table as 'unchanged'")
	assert.Equal(t, RoleAdmin, updated.Role)
}

func TestUpdateVanishedRecordIsNotFound(t *testing.T) {
	table := newPlayerTable()
	coord, _, _ := newPlayerCoordinator(table)

	_, err := coord.Update(context.Background(), 42, PlayerDraft{Name: "Ann", Email: "a@b.com"})
	require.Error(t, err)
	assert.Equal(t, NotFound, KindOf(err))
	assert.Equal(t, 0, table.count("list"))
}

func TestDeleteWithoutConfirmationMakesNoCalls(t *testing.T) {
	table := newPlayerTable(Player{Name: "Ann", Email: "a@b.com"})
	coord, store, _ := newPlayerCoordinator(table)
	require.NoError(t, store.Fetch(context.Background()))
	before := table.total()

	out, err := coord.Delete(context.Background(), 1, Decline)
	require.NoError(t, err)
	assert.Equal(t, Unconfirmed, out)
	assert.Equal(t, before, table.total())
	assert.Equal(t, 1, store.Len())

	out, err = coord.Delete(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, Unconfirmed, out)
	assert.Equal(t, before, table.total())
}

func TestDeleteConfirmedIssuesOneDeleteThenOneRefresh(t *testing.T) {
	table := newPlayerTable(Player{Name: "Ann", Email: "a@b.com"}, Player{Name: "Bob", Email: "b@b.com"})
	coord, store, _ := newPlayerCoordinator(table)

	var prompt string
	out, err := coord.Delete(context.Background(), 1, ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return true
	}))
	require.NoError(t, err)
	assert.Equal(t, Applied, out)
	assert.Equal(t, "Удалить игрока #1?", prompt)
	assert.Equal(t, 1, table.count("delete"))
	assert.Equal(t, 1, table.count("list"))
	assert.Equal(t, 1, store.Len())
}

func TestDeleteFailureIsReported(t *testing.T) {
	table := newPlayerTable(Player{Name: "Ann", Email: "a@b.com"})
	table.deleteErr = errors.New("timeout")
	coord, _, _ := newPlayerCoordinator(table)

	out, err := coord.Delete(context.Background(), 1, Accept)
	assert.Equal(t, Applied, out)
	assert.Equal(t, NetworkFailed, KindOf(err))
	assert.Equal(t, 0, table.count("list"))
}

func TestRefreshFailureAfterMutationKeepsMutation(t *testing.T) {
	table := newPlayerTable()
	coord, store, _ := newPlayerCoordinator(table)
	table.listErr = errors.New("connection reset")

	_, err := coord.Create(context.Background(), PlayerDraft{Name: "Ann", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, 1, table.count("insert"))
	assert.Equal(t, "Не удалось загрузить список игроков", store.LastError())
}
