package controllers

import (
	"Stateforge/services/lobby"
	"Stateforge/services/players"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLobbyTest(t *testing.T) (*gin.Engine, *lobby.Manager, sqlmock.Sqlmock, func()) {
	gin.SetMode(gin.TestMode)
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

	manager := lobby.NewManager(gormDB, nil, players.NewDirectory(gormDB, nil))
	router := gin.New()
	return router, manager, mock, func() { db.Close() }
}

func TestGetLobbyByCode(t *testing.T) {
	router, manager, mock, cleanup := setupLobbyTest(t)
	defer cleanup()

	router.GET("/lobbies/:code", GetLobbyByCode(manager))

	fmt.Println("Request: GET /lobbies/12345")

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

	req, _ := http.NewRequest("GET", "/lobbies/12345", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	fmt.Println("Response:", w.Body.String())
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	assert.Equal(t, "12345", response["code"])
	assert.Equal(t, "Test Lobby", response["name"])
	assert.Equal(t, "testhost", response["host_player_name"])
	assert.Equal(t, "Binary Counter", response["level_name"])
	assert.Equal(t, false, response["password_protected"])
	assert.Equal(t, "", response["password"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLobbyByCodeNotFound(t *testing.T) {
	router, manager, mock, cleanup := setupLobbyTest(t)
	defer cleanup()

	router.GET("/lobbies/:code", GetLobbyByCode(manager))

	fmt.Println("Request: GET /lobbies/99999")

	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}))
	mock.ExpectQuery(`SELECT \* FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_code", "player_id"}))

	req, _ := http.NewRequest("GET", "/lobbies/99999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	fmt.Println("Response:", w.Body.String())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllLobbiesHidesStarted(t *testing.T) {
	router, manager, mock, cleanup := setupLobbyTest(t)
	defer cleanup()

	router.GET("/lobbies", GetAllLobbies(manager))

	fmt.Println("Request: GET /lobbies")

	mock.ExpectQuery(`SELECT \* FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "code", "name", "password_hash", "host_player_id",
			"selected_level_id", "max_players", "has_started", "created_at",
		}).
			AddRow(1, "11111", "Open Lobby", "", 7, 3, 4, false, time.Now()).
			AddRow(2, "22222", "Running Lobby", "", 8, 3, 4, true, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM "lobby_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_code", "player_id"}).
			AddRow("11111", 7).
			AddRow("22222", 8))
	playerRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "user_icon", "is_admin"}).
			AddRow(7, "hostone", 1, false).
			AddRow(8, "hosttwo", 2, false)
	}
	// Two lobbies, each resolving member and host names plus a level title
	for i := 0; i < 4; i++ {
		mock.ExpectQuery(`SELECT \* FROM "players"`).WillReturnRows(playerRows())
	}
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT "title" FROM "workshop_items" WHERE id = \$1`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Binary Counter"))
	}

	req, _ := http.NewRequest("GET", "/lobbies", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	fmt.Println("Response:", w.Body.String())
	assert.Equal(t, http.StatusOK, w.Code)

	var response []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	// The started lobby stays hidden without include_started=true
	assert.Equal(t, 1, len(response))
	assert.Equal(t, "11111", response[0]["code"])

	assert.NoError(t, mock.ExpectationsWereMet())
}
