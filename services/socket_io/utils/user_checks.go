package socketio_utils

import (
	"Stateforge/models/postgres"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// VerifyUserConnection checks the handshake auth data of a new socket.io
// connection against the players table. Unauthenticated connections get an
// error emit and are not registered.
func VerifyUserConnection(client *socket.Socket, db *gorm.DB) (bool, string) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		fmt.Println("Handshake auth data is missing or invalid!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return false, ""
	}

	username, exists := authData["username"].(string)
	if !exists {
		fmt.Println("No username provided in handshake!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing username"})
		return false, ""
	}

	var player postgres.Player
	if err := db.Where("username = ?", username).First(&player).Error; err != nil {
		fmt.Println("Unknown player in handshake:", username)
		client.Emit("error", gin.H{"error": "Authentication failed: unknown player"})
		return false, ""
	}

	return true, username
}
