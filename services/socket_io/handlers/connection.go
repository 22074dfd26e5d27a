package handlers

import (
	"Stateforge/services/lobby"
	socketio_types "Stateforge/services/socket_io/types"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle socket.io client disconnections. An abrupt disconnect
// is treated exactly like an explicit leave: if the player was the host the
// lobby dissolves, otherwise they are removed from it. Every failure on
// this path is logged and swallowed - the connection cleanup always
// completes from the transport's point of view.
func HandleDisconnecting(manager *lobby.Manager, username string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] HandleDisconnecting started - User: %s", username)

		// Get the client socket for room operations
		client, exists := sio.GetConnection(username)

		playerID := manager.GetPlayerIDFromName(username)
		if playerID == 0 {
			log.Printf("[DISCONNECT-ERROR] Could not resolve player id for %s", username)
			sio.RemoveConnection(username)
			return
		}

		if summary := manager.GetByPlayerID(playerID); summary != nil {
			code := summary.Code
			wasHost := summary.HostPlayerID == playerID
			log.Printf("[DISCONNECT] Removing user %s from lobby %s (host: %v)", username, code, wasHost)

			if !manager.Leave(code, playerID) {
				// Lost a race against another delete/leave; nothing left to announce
				log.Printf("[DISCONNECT-ERROR] Leave failed for user %s in lobby %s", username, code)
			} else if wasHost {
				// The lobby no longer exists for discovery purposes, so every
				// connected client learns about it, not just the room
				sio.Sio_server.Emit("lobby_deleted", gin.H{
					"lobby_code": code,
					"reason":     "host_disconnected",
				})
			} else {
				sio.Sio_server.To(socket.Room(code)).Emit("player_left", gin.H{
					"lobby_code": code,
					"username":   username,
					"reason":     "disconnected",
				})
			}

			if exists {
				client.Leave(socket.Room(code))
			}
		}

		// Finally remove connection from map
		sio.RemoveConnection(username)
		log.Printf("[DISCONNECT-DONE] User disconnected: %s", username)
	}
}
