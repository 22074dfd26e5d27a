package socket_io

import (
	"Stateforge/services/lobby"
	"Stateforge/services/socket_io/handlers"

	socketio_types "Stateforge/services/socket_io/types"
	socketio_utils "Stateforge/services/socket_io/utils"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB, manager *lobby.Manager) {
	log.DEBUG = os.Getenv("VERBOSE_SOCKETS") == "true"
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		success, username := socketio_utils.VerifyUserConnection(client, db)
		if !success {
			return
		}

		// Add connection to map
		(*socketio_types.SocketServer)(sio).AddConnection(username, client)
		fmt.Println("An individual just connected!: ", username)

		self := (*socketio_types.SocketServer)(sio)

		// Enter/leave the room corresponding to a lobby's broadcast group
		client.On("join_lobby_group", handlers.HandleJoinLobbyGroup(manager, client, username))
		client.On("leave_lobby_group", handlers.HandleLeaveLobbyGroup(client, username))

		// Host broadcasts a full snapshot of the shared machine state
		client.On("sync_environment", handlers.HandleSyncEnvironment(manager, client, username, self))

		// Collaborative-editing proposals, relayed to the lobby's group
		client.On("propose_node", handlers.HandleProposeNode(manager, client, username, self))
		client.On("propose_connection", handlers.HandleProposeConnection(manager, client, username, self))
		client.On("propose_delete", handlers.HandleProposeDelete(manager, client, username, self))

		// Lobby chat
		client.On("send_chat_message", handlers.HandleSendChatMessage(manager, client, username, self))

		// NOTE: will remove sio connection from map and treat the drop as a leave
		client.On("disconnecting", handlers.HandleDisconnecting(manager, username, self))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
