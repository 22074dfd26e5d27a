package players

import (
	cache_models "Stateforge/models/cache"
	"Stateforge/models/postgres"
	"Stateforge/services/cache"
	"log"

	"gorm.io/gorm"
)

// Directory resolves player id <-> username and the admin flag. Reads go
// through the "players" cache entry and fall back to Postgres on miss.
type Directory struct {
	DB    *gorm.DB
	Cache *cache.Client
}

func NewDirectory(db *gorm.DB, cacheClient *cache.Client) *Directory {
	return &Directory{DB: db, Cache: cacheClient}
}

// loadPlayers returns the denormalized player collection, populating the
// cache on a miss.
func (d *Directory) loadPlayers() []cache_models.PlayerInfo {
	var infos []cache_models.PlayerInfo
	if d.Cache.Get(cache.PlayersKey(), &infos) {
		return infos
	}

	var players []postgres.Player
	if err := d.DB.Find(&players).Error; err != nil {
		log.Printf("[PLAYERS-ERROR] error loading players: %v", err)
		return nil
	}

	infos = make([]cache_models.PlayerInfo, len(players))
	for i, p := range players {
		infos[i] = cache_models.PlayerInfo{
			ID:       p.ID,
			Username: p.Username,
			UserIcon: p.UserIcon,
			IsAdmin:  p.IsAdmin,
		}
	}
	d.Cache.Set(cache.PlayersKey(), infos)
	return infos
}

// ResolveUsername returns the display name for a player id, or "" when the
// player does not exist.
func (d *Directory) ResolveUsername(id uint) string {
	for _, p := range d.loadPlayers() {
		if p.ID == id {
			return p.Username
		}
	}
	return ""
}

// ResolveID returns the player id for a display name, or 0 when unknown.
func (d *Directory) ResolveID(username string) uint {
	for _, p := range d.loadPlayers() {
		if p.Username == username {
			return p.ID
		}
	}
	return 0
}

// IsAdmin reports whether the player holds the privileged role.
func (d *Directory) IsAdmin(id uint) bool {
	for _, p := range d.loadPlayers() {
		if p.ID == id {
			return p.IsAdmin
		}
	}
	return false
}

// Invalidate drops the cached player collection. Called after any mutation
// of the players table (signup, profile update) in the same operation.
func (d *Directory) Invalidate() {
	d.Cache.Remove(cache.PlayersKey())
}
