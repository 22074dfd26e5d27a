package postgres

/*
 * 'LobbyMember' represents a player's membership of a lobby. It contains
 * references to Lobby and Player
 */
type LobbyMember struct {
	// NOTE: composite primary key definition
	LobbyCode string `gorm:"primaryKey;size:5;not null"`
	PlayerID  uint   `gorm:"primaryKey;not null;index"`

	// Relationship with the lobby and the player
	Lobby  Lobby  `gorm:"foreignKey:LobbyCode;references:Code"`
	Player Player `gorm:"foreignKey:PlayerID"`
}
