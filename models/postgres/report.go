package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'Report' is a player complaint about a workshop item or another player.
 */
type Report struct {
	ID         string    `gorm:"primaryKey;size:36"`
	ReporterID uint      `gorm:"not null;index"`
	TargetType string    `gorm:"size:20;not null"` // "item" or "player"
	TargetID   uint      `gorm:"not null"`
	Reason     string    `gorm:"size:500;not null"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	Reporter Player `gorm:"foreignKey:ReporterID"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

/*
 * 'AdminLog' records privileged actions (lobby deletions, report
 * resolutions) with a free-form jsonb detail blob.
 */
type AdminLog struct {
	ID        string         `gorm:"primaryKey;size:36"`
	AdminID   uint           `gorm:"not null;index"`
	Action    string         `gorm:"size:50;not null"`
	Detail    datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP"`

	Admin Player `gorm:"foreignKey:AdminID"`
}

func (l *AdminLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
