package handlers

import (
	"Stateforge/services/lobby"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle the act of joining a lobby's broadcast group. The code
// checks that the lobby exists and that the user already became a member via
// the API; only then is the client joined to the socket.io room for that
// lobby, so it starts receiving the lobby's collaborative events.
func HandleJoinLobbyGroup(manager *lobby.Manager, client *socket.Socket,
	username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[GROUP] HandleJoinLobbyGroup started - User: %s, Args: %v, Socket ID: %s",
			username, args, client.Id())

		if len(args) < 1 {
			log.Printf("[GROUP-ERROR] Missing lobby code for user %s", username)
			client.Emit("error", gin.H{"error": "Missing lobby code"})
			return
		}
		code, ok := args[0].(string)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid lobby code"})
			return
		}

		summary := manager.GetByCode(code)
		if summary == nil {
			log.Printf("[GROUP-ERROR] Lobby %s does not exist", code)
			client.Emit("error", gin.H{"error": "Lobby does not exist"})
			return
		}

		playerID := manager.GetPlayerIDFromName(username)
		if !summary.HasMember(playerID) {
			log.Printf("[GROUP-ERROR] User %s is not a member of lobby %s", username, code)
			client.Emit("error", gin.H{"error": "You must join the lobby before entering its group"})
			return
		}

		client.Join(socket.Room(code))

		log.Printf("[GROUP-SUCCESS] User %s joined group of lobby %s", username, code)
		client.Emit("joined_lobby_group", gin.H{
			"lobby_code": code,
			"lobby":      summary.Public(),
		})
	}
}

// Function to leave a lobby's broadcast group. Group membership is driven by
// the client and independent of lobby membership.
func HandleLeaveLobbyGroup(client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing lobby code"})
			return
		}
		code, ok := args[0].(string)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid lobby code"})
			return
		}

		client.Leave(socket.Room(code))
		log.Printf("[GROUP] User %s left group of lobby %s", username, code)
	}
}
