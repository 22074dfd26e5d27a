package postgres

import (
	"time"
)

/*
 * 'Player' contains the blueprint definition of a player account. Lobby
 * hosting, workshop ratings and leaderboard scores all reference it.
 */
type Player struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:50;not null;uniqueIndex"`
	Email        string    `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	UserIcon     int       `gorm:"default:0"`
	IsAdmin      bool      `gorm:"default:false"`
	MemberSince  time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Lobbies      []Lobby       `gorm:"foreignKey:HostPlayerID"`
	Memberships  []LobbyMember `gorm:"foreignKey:PlayerID"`
	Ratings      []Rating      `gorm:"foreignKey:PlayerID"`
	Scores       []Score       `gorm:"foreignKey:PlayerID"`
}
