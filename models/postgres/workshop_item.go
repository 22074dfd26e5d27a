package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'WorkshopItem' is a community-submitted puzzle: the level description plus
 * the target machine shape. The machine definition is stored as an opaque
 * jsonb blob, the server never evaluates it.
 */
type WorkshopItem struct {
	ID          uint           `gorm:"primaryKey"`
	Title       string         `gorm:"size:100;not null"`
	Description string         `gorm:"size:500"`
	AuthorID    uint           `gorm:"not null;index"`
	Machine     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	TapeCount   int            `gorm:"default:1"` // 1 or 2 tape variant
	CreatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Author  Player   `gorm:"foreignKey:AuthorID"`
	Ratings []Rating `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE;"`
}

/*
 * 'Rating' is one player's star rating of a workshop item.
 */
type Rating struct {
	ItemID   uint `gorm:"primaryKey;not null"`
	PlayerID uint `gorm:"primaryKey;not null;index"`
	Stars    int  `gorm:"not null"`

	WorkshopItem WorkshopItem `gorm:"foreignKey:ItemID"`
	Player       Player       `gorm:"foreignKey:PlayerID"`
}

/*
 * 'Score' is a leaderboard entry: the fewest states a player solved a level
 * with. Lower is better.
 */
type Score struct {
	ID         uint      `gorm:"primaryKey"`
	LevelID    uint      `gorm:"not null;index:idx_scores_level"`
	PlayerID   uint      `gorm:"not null;index"`
	StateCount int       `gorm:"not null"`
	AchievedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	Level  WorkshopItem `gorm:"foreignKey:LevelID"`
	Player Player       `gorm:"foreignKey:PlayerID"`
}
