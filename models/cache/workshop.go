package cache

import "time"

// WorkshopListing is the per-player workshop projection: the public item
// fields plus the requesting player's own rating. Cached under
// "workshop:player:{id}".
type WorkshopListing struct {
	ItemID        uint      `json:"item_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	AuthorName    string    `json:"author_name"`
	TapeCount     int       `json:"tape_count"`
	AverageStars  float64   `json:"average_stars"`
	RatingCount   int       `json:"rating_count"`
	PlayerStars   int       `json:"player_stars"` // 0 = not rated by this player
	CreatedAt     time.Time `json:"created_at"`
}

// LeaderboardEntry is one row of a level's leaderboard projection, cached
// under "leaderboard:level:{id}". Fewer states is better.
type LeaderboardEntry struct {
	PlayerID   uint      `json:"player_id"`
	PlayerName string    `json:"player_name"`
	StateCount int       `json:"state_count"`
	AchievedAt time.Time `json:"achieved_at"`
}

// PlayerInfo is the denormalized player projection under the "players" key.
type PlayerInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	UserIcon int    `json:"user_icon"`
	IsAdmin  bool   `json:"is_admin"`
}
