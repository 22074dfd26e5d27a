package cache

import "time"

// LobbySummary is the denormalized lobby projection held in the cache under
// the "lobbies" key. Names are resolved once at build time so list reads
// never fan out to the players table.
type LobbySummary struct {
	ID             uint      `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"password_hash,omitempty"` // never leaves the process, see Public()
	HostPlayerID   uint      `json:"host_player_id"`
	HostPlayerName string    `json:"host_player_name"`
	LevelID        uint      `json:"level_id"`
	LevelName      string    `json:"level_name"`
	MaxPlayers     int       `json:"max_players"`
	HasStarted     bool      `json:"has_started"`
	CreatedAt      time.Time `json:"created_at"`
	MemberIDs      []uint    `json:"member_ids"`
	MemberNames    []string  `json:"member_names"`
}

// PublicLobby is the wire shape returned to clients. The password field is
// always the empty string, the protocol only exposes whether one is set.
type PublicLobby struct {
	ID                uint      `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Password          string    `json:"password"`
	PasswordProtected bool      `json:"password_protected"`
	HostPlayerName    string    `json:"host_player_name"`
	LevelName         string    `json:"level_name"`
	MaxPlayers        int       `json:"max_players"`
	HasStarted        bool      `json:"has_started"`
	CreatedAt         time.Time `json:"created_at"`
	MemberNames       []string  `json:"member_names"`
}

// Public strips everything a client must not see.
func (l *LobbySummary) Public() PublicLobby {
	return PublicLobby{
		ID:                l.ID,
		Code:              l.Code,
		Name:              l.Name,
		Password:          "",
		PasswordProtected: l.PasswordHash != "",
		HostPlayerName:    l.HostPlayerName,
		LevelName:         l.LevelName,
		MaxPlayers:        l.MaxPlayers,
		HasStarted:        l.HasStarted,
		CreatedAt:         l.CreatedAt,
		MemberNames:       l.MemberNames,
	}
}

// HasMember reports whether the player is in this lobby.
func (l *LobbySummary) HasMember(playerID uint) bool {
	for _, id := range l.MemberIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
