package controllers

import (
	"Stateforge/middleware"
	"Stateforge/services/community"
	"Stateforge/services/players"
	"Stateforge/services/workshop"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func resolvePlayerID(c *gin.Context, directory *players.Directory) (uint, bool) {
	username, err := middleware.JWT_decoder(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
		return 0, false
	}
	playerID := directory.ResolveID(username)
	if playerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown player"})
		return 0, false
	}
	return playerID, true
}

// @Summary Lists workshop items
// @Description Items with average rating plus the caller's own rating
// @Tags workshop
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{item_id=integer}
// @Router /auth/workshop [get]
// @Security ApiKeyAuth
func ListWorkshop(service *workshop.Service, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolvePlayerID(c, directory)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, service.List(playerID))
	}
}

// @Summary Rates a workshop item
// @Tags workshop
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param item_id path integer true "Workshop item id"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/workshop/{item_id}/rate [post]
// @Security ApiKeyAuth
func RateWorkshopItem(service *workshop.Service, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolvePlayerID(c, directory)
		if !ok {
			return
		}
		itemID, _ := strconv.ParseUint(c.Param("item_id"), 10, 32)
		stars, _ := strconv.Atoi(c.PostForm("stars"))

		if !service.Rate(uint(itemID), playerID, stars) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not rate item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
	}
}

// @Summary Gives the leaderboard of a level
// @Description Best solutions first (fewest machine states)
// @Tags workshop
// @Produce json
// @Param level_id path integer true "Level id"
// @Success 200 {array} object{player_name=string}
// @Router /leaderboard/{level_id} [get]
func GetLeaderboard(service *workshop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		levelID, _ := strconv.ParseUint(c.Param("level_id"), 10, 32)
		c.JSON(http.StatusOK, service.Leaderboard(uint(levelID)))
	}
}

// @Summary Submits a leaderboard score
// @Tags workshop
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param level_id path integer true "Level id"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/leaderboard/{level_id} [post]
// @Security ApiKeyAuth
func SubmitScore(service *workshop.Service, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolvePlayerID(c, directory)
		if !ok {
			return
		}
		levelID, _ := strconv.ParseUint(c.Param("level_id"), 10, 32)
		stateCount, _ := strconv.Atoi(c.PostForm("state_count"))

		if !service.SubmitScore(uint(levelID), playerID, stateCount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not submit score"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Score submitted"})
	}
}

// @Summary Lists the discussions of a workshop item
// @Tags community
// @Produce json
// @Param item_id path integer true "Workshop item id"
// @Success 200 {array} object{title=string}
// @Router /workshop/{item_id}/discussions [get]
func GetDiscussions(service *community.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, _ := strconv.ParseUint(c.Param("item_id"), 10, 32)
		c.JSON(http.StatusOK, service.Discussions(uint(itemID)))
	}
}

// @Summary Opens a discussion thread on a workshop item
// @Tags community
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param item_id path integer true "Workshop item id"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/workshop/{item_id}/discussions [post]
// @Security ApiKeyAuth
func CreateDiscussion(service *community.Service, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolvePlayerID(c, directory)
		if !ok {
			return
		}
		itemID, _ := strconv.ParseUint(c.Param("item_id"), 10, 32)

		if !service.CreateDiscussion(uint(itemID), playerID, c.PostForm("title"), c.PostForm("body")) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not create discussion"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Discussion created"})
	}
}

// @Summary Replies to a discussion thread
// @Tags community
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param discussion_id path integer true "Discussion id"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/discussions/{discussion_id}/posts [post]
// @Security ApiKeyAuth
func AddPost(service *community.Service, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolvePlayerID(c, directory)
		if !ok {
			return
		}
		discussionID, _ := strconv.ParseUint(c.Param("discussion_id"), 10, 32)

		if !service.AddPost(uint(discussionID), playerID, c.PostForm("body")) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not add post"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Post added"})
	}
}

// @Summary Files a report on an item or a player
// @Tags community
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/reports [post]
// @Security ApiKeyAuth
func SubmitReport(service *community.Service, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolvePlayerID(c, directory)
		if !ok {
			return
		}
		targetID, _ := strconv.ParseUint(c.PostForm("target_id"), 10, 32)

		if !service.SubmitReport(playerID, c.PostForm("target_type"), uint(targetID), c.PostForm("reason")) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not submit report"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Report submitted"})
	}
}

// @Summary Lists open reports (admin only)
// @Tags admin
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{reason=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/admin/reports [get]
// @Security ApiKeyAuth
func GetReports(service *community.Service, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolvePlayerID(c, directory)
		if !ok {
			return
		}
		if !directory.IsAdmin(playerID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.JSON(http.StatusOK, service.Reports())
	}
}

// @Summary Lists the admin audit trail (admin only)
// @Tags admin
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{action=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/admin/logs [get]
// @Security ApiKeyAuth
func GetAdminLogs(service *community.Service, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := resolvePlayerID(c, directory)
		if !ok {
			return
		}
		if !directory.IsAdmin(playerID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.JSON(http.StatusOK, service.AdminLogs())
	}
}
