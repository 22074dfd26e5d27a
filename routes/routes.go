package routes

import (
	"Stateforge/controllers"
	"Stateforge/middleware"
	"Stateforge/services/cache"
	"Stateforge/services/community"
	"Stateforge/services/lobby"
	"Stateforge/services/players"
	socketio_types "Stateforge/services/socket_io/types"
	"Stateforge/services/workshop"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, cacheClient *cache.Client,
	sio *socketio_types.SocketServer) *lobby.Manager {

	// Service instances, all sharing the one cache client
	directory := players.NewDirectory(db, cacheClient)
	lobbyManager := lobby.NewManager(db, cacheClient, directory)
	workshopService := workshop.NewService(db, cacheClient, directory)
	communityService := community.NewService(db, cacheClient)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/login", controllers.Login(db))

	api.POST("/signup", controllers.SignUp(db, directory))

	api.GET("/users/:username", controllers.GetUserPublicInfo(db))

	// Lobby discovery is public, mutations need a token
	api.GET("/lobbies", controllers.GetAllLobbies(lobbyManager))

	api.GET("/lobbies/:code", controllers.GetLobbyByCode(lobbyManager))

	api.GET("/leaderboard/:level_id", controllers.GetLeaderboard(workshopService))

	api.GET("/workshop/:item_id/discussions", controllers.GetDiscussions(communityService))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.GetUserPrivateInfo(db))

		authentication.POST("/lobby/create", controllers.CreateLobby(lobbyManager, sio))

		authentication.POST("/lobby/join/:code", controllers.JoinLobby(lobbyManager, sio))

		authentication.POST("/lobby/leave/:code", controllers.LeaveLobby(lobbyManager, sio))

		authentication.POST("/lobby/start/:code", controllers.StartLobby(lobbyManager, sio))

		authentication.POST("/lobby/kick/:code", controllers.KickFromLobby(lobbyManager, sio))

		authentication.DELETE("/lobby/:code", controllers.DeleteLobby(lobbyManager, sio))

		authentication.GET("/workshop", controllers.ListWorkshop(workshopService, directory))

		authentication.POST("/workshop/:item_id/rate", controllers.RateWorkshopItem(workshopService, directory))

		authentication.POST("/workshop/:item_id/discussions", controllers.CreateDiscussion(communityService, directory))

		authentication.POST("/discussions/:discussion_id/posts", controllers.AddPost(communityService, directory))

		authentication.POST("/leaderboard/:level_id", controllers.SubmitScore(workshopService, directory))

		authentication.POST("/reports", controllers.SubmitReport(communityService, directory))

		authentication.GET("/admin/reports", controllers.GetReports(communityService, directory))

		authentication.GET("/admin/logs", controllers.GetAdminLogs(communityService, directory))
	}

	return lobbyManager
}
