package postgres

import (
	"math/rand"
	"time"

	"gorm.io/gorm"
)

/*
 * 'Lobby' defines the structure of a collaborative puzzle session.
 * The host is always also present in LobbyMembers.
 */
type Lobby struct {
	ID              uint      `gorm:"primaryKey"`
	Code            string    `gorm:"size:5;not null;uniqueIndex:idx_lobbies_code"`
	Name            string    `gorm:"size:100;not null"`
	PasswordHash    string    `gorm:"size:255"` // empty = open join
	HostPlayerID    uint      `gorm:"not null;index:idx_lobbies_host"`
	SelectedLevelID uint      `gorm:"not null"`
	MaxPlayers      int       `gorm:"default:4"`
	HasStarted      bool      `gorm:"default:false;index:idx_lobbies_active"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Host    Player        `gorm:"foreignKey:HostPlayerID"`
	Members []LobbyMember `gorm:"foreignKey:LobbyCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Random lobby code generation. Codes are short numeric strings meant to be
// read out loud, so digits only. Uniqueness only matters among live rows
// (deleted lobbies free their code again).
const codeCharset = "0123456789"

const CodeLength = 5

func GenerateLobbyCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

// BeforeCreate keeps drawing codes until one is free. The unique index on
// code is still the final authority: a concurrent insert that wins the same
// code makes this create fail with a constraint error instead of corrupting
// two lobbies onto one code.
func (l *Lobby) BeforeCreate(tx *gorm.DB) (err error) {
	for {
		newCode := GenerateLobbyCode(CodeLength)
		var existing Lobby
		if err := tx.Where("code = ?", newCode).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				l.Code = newCode
				return nil
			}
			return err
		}
		// Otherwise, loop again to generate a new unique code
	}
}
