package handlers

import (
	"Stateforge/services/filter"
	"Stateforge/services/lobby"
	socketio_types "Stateforge/services/socket_io/types"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle lobby chat. Any member may chat; disallowed content is
// bounced back to the sender only and never reaches the room.
func HandleSendChatMessage(manager *lobby.Manager, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var payload socketio_types.ChatPayload
		if err := socketio_types.DecodePayload(args, &payload); err != nil {
			log.Printf("[CHAT-ERROR] malformed chat payload from %s: %v", username, err)
			return
		}
		if payload.LobbyCode == "" || payload.Message == "" {
			client.Emit("error", gin.H{"error": "Lobby code and message are required"})
			return
		}

		summary := manager.GetByCode(payload.LobbyCode)
		if summary == nil {
			client.Emit("error", gin.H{"error": "Lobby does not exist"})
			return
		}
		if !summary.HasMember(manager.GetPlayerIDFromName(username)) {
			client.Emit("error", gin.H{"error": "You must join the lobby before sending messages"})
			return
		}

		if filter.ContainsDisallowedContent(payload.Message) {
			log.Printf("[CHAT] rejected message from %s in lobby %s", username, payload.LobbyCode)
			client.Emit("chat_rejected", gin.H{
				"lobby_code": payload.LobbyCode,
				"reason":     "Message contains disallowed content",
			})
			return
		}

		sio.Sio_server.To(socket.Room(payload.LobbyCode)).Emit("chat_message", gin.H{
			"lobby_code": payload.LobbyCode,
			"sender":     username,
			"message":    payload.Message,
			"timestamp":  time.Now().UTC(),
		})
	}
}
