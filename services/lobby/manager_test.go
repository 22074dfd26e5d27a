package lobby

import (
	cache_models "Stateforge/models/cache"
	"Stateforge/services/players"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockManager wires the manager onto a sqlmock connection with no cache,
// so every read falls through to the mocked queries.
func newMockManager(t *testing.T) (*Manager, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Error opening sqlmock: %v", err)
	}
	mock.MatchExpectationsInOrder(false)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Error opening gorm over sqlmock: %v", err)
	}

	manager := NewManager(gormDB, nil, players.NewDirectory(gormDB, nil))
	return manager, mock, func() { db.Close() }
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "My Lobby", SanitizeName("My Lobby"))
	assert.Equal(t, "My Lobby", SanitizeName("  My Lobby  "))
	assert.Equal(t, DefaultLobbyName, SanitizeName(""))
	assert.Equal(t, DefaultLobbyName, SanitizeName("   "))

	// Names failing the content filter fall back to the default
	assert.Equal(t, DefaultLobbyName, SanitizeName("join http://spam.example"))
	assert.Equal(t, DefaultLobbyName, SanitizeName("shit lobby"))
}

func TestClampMaxPlayers(t *testing.T) {
	assert.Equal(t, 2, ClampMaxPlayers(2))
	assert.Equal(t, 10, ClampMaxPlayers(10))
	assert.Equal(t, 7, ClampMaxPlayers(7))

	// Out of range maps to the default instead of failing
	assert.Equal(t, DefaultMaxPlayers, ClampMaxPlayers(0))
	assert.Equal(t, DefaultMaxPlayers, ClampMaxPlayers(1))
	assert.Equal(t, DefaultMaxPlayers, ClampMaxPlayers(11))
	assert.Equal(t, DefaultMaxPlayers, ClampMaxPlayers(-3))
}

func TestGetByCode(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	createdAt := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "code", "name", "password_hash", "host_player_id",
			"selected_level_id", "max_players", "has_started", "created_at",
		}).AddRow(1, "12345", "Test Lobby", "", 7, 3, 4, false, createdAt))

	mock.ExpectQuery(`SELECT \* FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_code", "player_id"}).
			AddRow("12345", 7))

	playerRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "user_icon", "is_admin"}).
			AddRow(7, "testhost", 1, false)
	}
	// Member names and the host name both resolve through the directory
	mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())
	mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())

	mock.ExpectQuery(`SELECT "title" FROM "workshop_items" WHERE id = \$1`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Binary Counter"))

	summary := manager.GetByCode("12345")
	assert.NotNil(t, summary)
	assert.Equal(t, "12345", summary.Code)
	assert.Equal(t, "Test Lobby", summary.Name)
	assert.Equal(t, uint(7), summary.HostPlayerID)
	assert.Equal(t, "testhost", summary.HostPlayerName)
	assert.Equal(t, "Binary Counter", summary.LevelName)
	assert.Equal(t, []string{"testhost"}, summary.MemberNames)
	assert.False(t, summary.HasStarted)

	// The public projection never carries the password hash
	public := summary.Public()
	assert.Equal(t, "", public.Password)
	assert.False(t, public.PasswordProtected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCodeNotFound(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}))
	mock.ExpectQuery(`SELECT \* FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_code", "player_id"}))

	assert.Nil(t, manager.GetByCode("99999"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinUnknownLobby(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	// The already-in-a-lobby check loads the (empty) collection first
	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}))
	mock.ExpectQuery(`SELECT \* FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_code", "player_id"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE code = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	assert.False(t, manager.Join("99999", 7, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKickRefusesSelfAndUnknownTarget(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	playerRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "user_icon", "is_admin"}).
			AddRow(7, "testhost", 1, false)
	}
	mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())
	mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())

	// Unknown display name resolves to 0
	assert.False(t, manager.Kick("12345", 7, "nobody"))

	// Kicking yourself is refused before any lobby lookup
	assert.False(t, manager.Kick("12345", 7, "testhost"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadLobbiesStoreFailure(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnError(gorm.ErrInvalidDB)

	// A failed store read must be distinguishable from an empty collection,
	// otherwise the cached lobby list gets clobbered with partial data
	summaries, ok := manager.loadLobbies()
	assert.False(t, ok)
	assert.Nil(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatchAndRemoveSurviveStoreFailure(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnError(gorm.ErrInvalidDB)
	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnError(gorm.ErrInvalidDB)

	// Both mutators drop the cache entry instead of writing through it when
	// the collection cannot be rebuilt
	manager.patchLobby(cache_models.LobbySummary{Code: "12345"})
	manager.removeLobby("12345")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartCapacityGate(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	lobbyRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "code", "name", "password_hash", "host_player_id",
			"selected_level_id", "max_players", "has_started", "created_at",
		}).AddRow(1, "12345", "Test Lobby", "", 7, 3, 4, false, time.Now())
	}

	// Host alone: below the two-player minimum
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE code = \$1`).
		WillReturnRows(lobbyRow())
	mock.ExpectQuery(`SELECT count\(\*\) FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	assert.False(t, manager.Start("12345", 7))

	// More members than max_players allows
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE code = \$1`).
		WillReturnRows(lobbyRow())
	mock.ExpectQuery(`SELECT count\(\*\) FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	assert.False(t, manager.Start("12345", 7))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartRefusedWhenAlreadyStarted(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE code = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "code", "name", "password_hash", "host_player_id",
			"selected_level_id", "max_players", "has_started", "created_at",
		}).AddRow(1, "12345", "Test Lobby", "", 7, 3, 4, true, time.Now()))
	mock.ExpectRollback()

	// has_started is one-way: a second start never goes through
	assert.False(t, manager.Start("12345", 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHostLeaveDeletesLobby(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE code = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "code", "name", "password_hash", "host_player_id",
			"selected_level_id", "max_players", "has_started", "created_at",
		}).AddRow(1, "12345", "Test Lobby", "", 7, 3, 4, false, time.Now()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM "lobby_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "lobbies"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The cache patch and the follow-up lookup both rebuild from the now
	// empty tables
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code"}))
		mock.ExpectQuery(`SELECT \* FROM "lobby_members"`).
			WillReturnRows(sqlmock.NewRows([]string{"lobby_code", "player_id"}))
	}

	assert.True(t, manager.Leave("12345", 7))
	assert.Nil(t, manager.GetByCode("12345"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinWhileAlreadyInALobby(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "code", "name", "password_hash", "host_player_id",
			"selected_level_id", "max_players", "has_started", "created_at",
		}).AddRow(1, "12345", "Test Lobby", "", 7, 3, 4, false, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_code", "player_id"}).
			AddRow("12345", 7))
	playerRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "user_icon", "is_admin"}).
			AddRow(7, "testhost", 1, false)
	}
	mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())
	mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())
	mock.ExpectQuery(`SELECT "title" FROM "workshop_items" WHERE id = \$1`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Binary Counter"))

	// Joining again while already a member fails without touching the store
	assert.False(t, manager.Join("12345", 7, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWhileHostingFails(t *testing.T) {
	manager, mock, cleanup := newMockManager(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "code", "name", "password_hash", "host_player_id",
			"selected_level_id", "max_players", "has_started", "created_at",
		}).AddRow(1, "12345", "Test Lobby", "", 7, 3, 4, false, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_code", "player_id"}).
			AddRow("12345", 7))
	playerRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "user_icon", "is_admin"}).
			AddRow(7, "testhost", 1, false)
	}
	mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())
	mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())
	mock.ExpectQuery(`SELECT "title" FROM "workshop_items" WHERE id = \$1`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Binary Counter"))

	// One lobby per host: creating while still hosting is refused
	assert.Nil(t, manager.Create(7, "Second Lobby", 3, 4, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}
