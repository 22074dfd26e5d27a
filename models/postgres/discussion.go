package postgres

import (
	"time"
)

/*
 * 'Discussion' is a comment thread attached to a workshop item.
 */
type Discussion struct {
	ID        uint      `gorm:"primaryKey"`
	ItemID    uint      `gorm:"not null;index"`
	Title     string    `gorm:"size:100;not null"`
	AuthorID  uint      `gorm:"not null"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	WorkshopItem WorkshopItem `gorm:"foreignKey:ItemID"`
	Author       Player       `gorm:"foreignKey:AuthorID"`
	Posts        []Post       `gorm:"foreignKey:DiscussionID;constraint:OnDelete:CASCADE;"`
}

/*
 * 'Post' is a single message inside a discussion thread.
 */
type Post struct {
	ID           uint      `gorm:"primaryKey"`
	DiscussionID uint      `gorm:"not null;index"`
	AuthorID     uint      `gorm:"not null"`
	Body         string    `gorm:"size:2000;not null"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	Discussion Discussion `gorm:"foreignKey:DiscussionID"`
	Author     Player     `gorm:"foreignKey:AuthorID"`
}
