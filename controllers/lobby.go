package controllers

import (
	"Stateforge/middleware"
	"Stateforge/services/lobby"
	socketio_types "Stateforge/services/socket_io/types"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// The lobby controllers are a thin layer over the session manager: they
// resolve the caller from the bearer token, delegate, map boolean failures
// to a status code and push the matching hub notification on success.

func resolveCaller(c *gin.Context, manager *lobby.Manager) (uint, bool) {
	username, err := middleware.JWT_decoder(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
		return 0, false
	}
	playerID := manager.GetPlayerIDFromName(username)
	if playerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown player"})
		return 0, false
	}
	return playerID, true
}

// @Summary Creates a new lobby
// @Description The caller becomes host and sole member of the new lobby
// @Tags lobby
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{lobby=object}
// @Failure 401 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/lobby/create [post]
// @Security ApiKeyAuth
func CreateLobby(manager *lobby.Manager, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostID, ok := resolveCaller(c, manager)
		if !ok {
			return
		}

		name := c.PostForm("name")
		levelID, _ := strconv.ParseUint(c.PostForm("level_id"), 10, 32)
		maxPlayers, _ := strconv.Atoi(c.PostForm("max_players"))
		password := c.PostForm("password")

		summary := manager.Create(hostID, name, uint(levelID), maxPlayers, password)
		if summary == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "You already belong to an active lobby"})
			return
		}

		// Every connected client learns a new lobby is open for discovery
		sio.Sio_server.Emit("lobby_created", summary.Public())

		c.JSON(http.StatusOK, gin.H{"lobby": summary.Public()})
	}
}

// @Summary Lists lobbies
// @Description Case-insensitive substring filter on code; started lobbies hidden unless include_started=true
// @Tags lobby
// @Produce json
// @Param code query string false "Code substring filter"
// @Param include_started query boolean false "Include started lobbies"
// @Success 200 {array} object{code=string}
// @Router /lobbies [get]
func GetAllLobbies(manager *lobby.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		codeFilter := c.Query("code")
		includeStarted := c.Query("include_started") == "true"

		c.JSON(http.StatusOK, manager.GetAll(codeFilter, includeStarted))
	}
}

// @Summary Gives info of a lobby
// @Description Given a lobby code, it will return its public projection
// @Tags lobby
// @Produce json
// @Param code path string true "Code of the lobby wanted"
// @Success 200 {object} object{code=string}
// @Failure 404 {object} object{error=string}
// @Router /lobbies/{code} [get]
func GetLobbyByCode(manager *lobby.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary := manager.GetByCode(c.Param("code"))
		if summary == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
			return
		}
		c.JSON(http.StatusOK, summary.Public())
	}
}

// @Summary Joins a lobby
// @Description Adds the caller to the lobby with that code
// @Tags lobby
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param code path string true "Lobby code"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/lobby/join/{code} [post]
// @Security ApiKeyAuth
func JoinLobby(manager *lobby.Manager, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolveCaller(c, manager)
		if !ok {
			return
		}
		code := c.Param("code")

		if !manager.Join(code, playerID, c.PostForm("password")) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not join lobby"})
			return
		}

		sio.Sio_server.To(socket.Room(code)).Emit("player_joined", gin.H{
			"lobby_code": code,
			"username":   manager.Players.ResolveUsername(playerID),
		})

		c.JSON(http.StatusOK, gin.H{"message": "Joined lobby successfully"})
	}
}

// @Summary Leaves a lobby
// @Description Removes the caller from the lobby; a host leaving deletes it
// @Tags lobby
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param code path string true "Lobby code"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/lobby/leave/{code} [post]
// @Security ApiKeyAuth
func LeaveLobby(manager *lobby.Manager, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolveCaller(c, manager)
		if !ok {
			return
		}
		code := c.Param("code")

		summary := manager.GetByCode(code)
		wasHost := summary != nil && summary.HostPlayerID == playerID

		if !manager.Leave(code, playerID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not leave lobby"})
			return
		}

		if wasHost {
			sio.Sio_server.Emit("lobby_deleted", gin.H{
				"lobby_code": code,
				"reason":     "host_left",
			})
		} else {
			sio.Sio_server.To(socket.Room(code)).Emit("player_left", gin.H{
				"lobby_code": code,
				"username":   manager.Players.ResolveUsername(playerID),
				"reason":     "left",
			})
		}

		c.JSON(http.StatusOK, gin.H{"message": "Left lobby successfully"})
	}
}

// @Summary Starts a lobby
// @Description Host only; needs between 2 and max_players members
// @Tags lobby
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param code path string true "Lobby code"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/lobby/start/{code} [post]
// @Security ApiKeyAuth
func StartLobby(manager *lobby.Manager, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolveCaller(c, manager)
		if !ok {
			return
		}
		code := c.Param("code")

		if !manager.Start(code, playerID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not start lobby"})
			return
		}

		sio.Sio_server.To(socket.Room(code)).Emit("lobby_started", gin.H{
			"lobby_code": code,
		})

		c.JSON(http.StatusOK, gin.H{"message": "Lobby started"})
	}
}

// @Summary Deletes a lobby
// @Description Allowed for the host and for admins
// @Tags lobby
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param code path string true "Lobby code"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/lobby/{code} [delete]
// @Security ApiKeyAuth
func DeleteLobby(manager *lobby.Manager, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolveCaller(c, manager)
		if !ok {
			return
		}
		code := c.Param("code")

		if !manager.Delete(code, playerID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Could not delete lobby"})
			return
		}

		sio.Sio_server.Emit("lobby_deleted", gin.H{
			"lobby_code": code,
			"reason":     "deleted",
		})

		c.JSON(http.StatusOK, gin.H{"message": "Lobby deleted"})
	}
}

// @Summary Kicks a player from a lobby
// @Description Host only; the target is named by username
// @Tags lobby
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param code path string true "Lobby code"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/lobby/kick/{code} [post]
// @Security ApiKeyAuth
func KickFromLobby(manager *lobby.Manager, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostID, ok := resolveCaller(c, manager)
		if !ok {
			return
		}
		code := c.Param("code")
		targetName := c.PostForm("username")

		if !manager.Kick(code, hostID, targetName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not kick player"})
			return
		}

		sio.Sio_server.To(socket.Room(code)).Emit("player_kicked", gin.H{
			"lobby_code": code,
			"username":   targetName,
		})

		// Force the kicked player's connection out of the room too
		if conn, exists := sio.GetConnection(targetName); exists {
			conn.Leave(socket.Room(code))
			conn.Emit("player_kicked", gin.H{
				"lobby_code": code,
				"username":   targetName,
			})
		}

		log.Printf("[KICK-SUCCESS] %s kicked from lobby %s", targetName, code)
		c.JSON(http.StatusOK, gin.H{"message": "Player kicked"})
	}
}
