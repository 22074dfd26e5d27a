package controllers

import (
	"Stateforge/middleware"
	models "Stateforge/models/postgres"
	"Stateforge/services/filter"
	"Stateforge/services/players"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Logs a player in
// @Description Validates credentials, opens a session and returns a bearer token
// @Tags user
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} object{token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email := c.PostForm("email")
		password := c.PostForm("password")

		//Minimum input sanitizing
		if strings.Trim(email, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var player models.Player
		if err := db.Where("email = ?", email).First(&player).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		session.Set("Email", player.Email)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No session!"})
			return
		}

		token, err := middleware.JWT_generator(player.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error issuing token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "username": player.Username})
	}
}

// Logout from server, deletes the session associated with the Email key
// @Summary Logs a player out
// @Tags user
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/logout [delete]
// @Security ApiKeyAuth
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("Email")
	// There is no session for the user, won't delete nothing
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	// Deletes the session associated with that userkey
	session.Delete("Email")
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Registers a new player
// @Description Creates the player account; usernames are content-filtered
// @Tags user
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /signup [post]
func SignUp(db *gorm.DB, directory *players.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		email := strings.TrimSpace(c.PostForm("email"))
		password := c.PostForm("password")

		if username == "" || email == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}
		if filter.ContainsDisallowedContent(username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username contains disallowed content"})
			return
		}

		var count int64
		if err := db.Model(&models.Player{}).
			Where("username = ? OR email = ?", username, email).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
			return
		}

		player := models.Player{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
		}
		if err := db.Create(&player).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating player"})
			return
		}

		// The cached player collection no longer matches the store
		directory.Invalidate()

		c.JSON(http.StatusOK, gin.H{"message": "Player registered successfully"})
	}
}

// @Summary Gives the public info of a player
// @Tags user
// @Produce json
// @Param username path string true "Display name of the player"
// @Success 200 {object} object{username=string,user_icon=integer}
// @Failure 404 {object} object{error=string}
// @Router /users/{username} [get]
func GetUserPublicInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")

		var player models.Player
		if err := db.Where("username = ?", username).First(&player).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"username":     player.Username,
			"user_icon":    player.UserIcon,
			"member_since": player.MemberSince,
		})
	}
}

// @Summary Gives the private info of the logged-in player
// @Tags user
// @Produce json
// @Success 200 {object} object{username=string,email=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func GetUserPrivateInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email, _ := session.Get("Email").(string)

		var player models.Player
		if err := db.Where("email = ?", email).First(&player).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"username":     player.Username,
			"email":        player.Email,
			"user_icon":    player.UserIcon,
			"is_admin":     player.IsAdmin,
			"member_since": player.MemberSince,
		})
	}
}
