package handlers

import (
	"Stateforge/services/lobby"
	socketio_types "Stateforge/services/socket_io/types"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// The proposal events are a pure relay: nothing here is persisted, the room
// members apply the edits client-side and the host's periodic environment
// snapshots supersede whatever got lost or reordered. The server does check
// that the sender is the lobby host before relaying, so a non-host client
// cannot inject edits.

// requireHost resolves the sender and checks host authority for a lobby
// code. Emits the refusal to the sender only.
func requireHost(manager *lobby.Manager, client *socket.Socket, username, code string) bool {
	summary := manager.GetByCode(code)
	if summary == nil {
		client.Emit("error", gin.H{"error": "Lobby does not exist"})
		return false
	}
	if summary.HostPlayerID != manager.GetPlayerIDFromName(username) {
		log.Printf("[PROPOSAL] refused non-host proposal from %s in lobby %s", username, code)
		client.Emit("error", gin.H{"error": "Only the lobby host may propose edits"})
		return false
	}
	return true
}

// Function to handle the host broadcasting a full snapshot of the shared
// machine state. The state blob is relayed verbatim.
func HandleSyncEnvironment(manager *lobby.Manager, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var payload socketio_types.EnvironmentSync
		if err := socketio_types.DecodePayload(args, &payload); err != nil || payload.LobbyCode == "" {
			log.Printf("[SYNC-ERROR] malformed payload from %s: %v", username, err)
			return
		}
		if !requireHost(manager, client, username, payload.LobbyCode) {
			return
		}

		sio.Sio_server.To(socket.Room(payload.LobbyCode)).Emit("environment_synced", gin.H{
			"lobby_code": payload.LobbyCode,
			"state":      payload.State,
		})
	}
}

// Function to relay a proposed state-node addition to the lobby group.
func HandleProposeNode(manager *lobby.Manager, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var payload socketio_types.NodeProposal
		if err := socketio_types.DecodePayload(args, &payload); err != nil || payload.LobbyCode == "" {
			log.Printf("[PROPOSAL-ERROR] malformed node proposal from %s: %v", username, err)
			return
		}
		if !requireHost(manager, client, username, payload.LobbyCode) {
			return
		}
		// The server, not the client, names the proposer
		payload.ProposedBy = username

		sio.Sio_server.To(socket.Room(payload.LobbyCode)).Emit("node_proposed", payload)
	}
}

// Function to relay a proposed transition edge. Machines have one or two
// tapes, so the payload carries one or two read/write/move rule sets.
func HandleProposeConnection(manager *lobby.Manager, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var payload socketio_types.ConnectionProposal
		if err := socketio_types.DecodePayload(args, &payload); err != nil || payload.LobbyCode == "" {
			log.Printf("[PROPOSAL-ERROR] malformed connection proposal from %s: %v", username, err)
			return
		}
		if len(payload.Rules) < 1 || len(payload.Rules) > 2 {
			log.Printf("[PROPOSAL-ERROR] connection proposal from %s has %d rule sets", username, len(payload.Rules))
			return
		}
		if !requireHost(manager, client, username, payload.LobbyCode) {
			return
		}
		payload.ProposedBy = username

		sio.Sio_server.To(socket.Room(payload.LobbyCode)).Emit("connection_proposed", payload)
	}
}

// Function to relay a proposed deletion of a node or connection, typed by
// the target discriminator.
func HandleProposeDelete(manager *lobby.Manager, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		var payload socketio_types.DeleteProposal
		if err := socketio_types.DecodePayload(args, &payload); err != nil || payload.LobbyCode == "" {
			log.Printf("[PROPOSAL-ERROR] malformed delete proposal from %s: %v", username, err)
			return
		}
		if !payload.Target.Validate() {
			log.Printf("[PROPOSAL-ERROR] delete proposal from %s has invalid target %q", username, payload.Target.Type)
			return
		}
		if !requireHost(manager, client, username, payload.LobbyCode) {
			return
		}
		payload.ProposedBy = username

		sio.Sio_server.To(socket.Room(payload.LobbyCode)).Emit("delete_proposed", payload)
	}
}
