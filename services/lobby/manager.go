package lobby

import (
	cache_models "Stateforge/models/cache"
	"Stateforge/models/postgres"
	"Stateforge/services/cache"
	"Stateforge/services/filter"
	"Stateforge/services/hasher"
	"Stateforge/services/players"
	"encoding/json"
	"log"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultLobbyName  = "New Lobby"
	DefaultMaxPlayers = 4
	MinPlayers        = 2
	MaxPlayersLimit   = 10
)

// Manager owns the lobby lifecycle: create/join/leave/kick/start/delete plus
// the lookups the realtime layer needs. Postgres is the source of truth,
// every mutation patches the cached lobby collection in the same operation.
//
// Business-rule failures (not found, wrong password, not the host) come back
// as false/nil results, never as errors. Store faults are logged and also
// surface as failure to the caller.
type Manager struct {
	DB      *gorm.DB
	Cache   *cache.Client
	Players *players.Directory
}

func NewManager(db *gorm.DB, cacheClient *cache.Client, directory *players.Directory) *Manager {
	return &Manager{DB: db, Cache: cacheClient, Players: directory}
}

// SanitizeName trims the requested lobby name and falls back to the default
// when it is empty or fails the content filter.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || filter.ContainsDisallowedContent(name) {
		return DefaultLobbyName
	}
	return name
}

// ClampMaxPlayers maps out-of-range capacities to the default instead of
// rejecting the request.
func ClampMaxPlayers(maxPlayers int) int {
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayersLimit {
		return DefaultMaxPlayers
	}
	return maxPlayers
}

// loadLobbies returns the denormalized lobby collection, rebuilding it from
// Postgres and repopulating the cache on a miss. The second result is false
// when the store read failed, so callers never mistake a load failure for an
// empty collection.
func (m *Manager) loadLobbies() ([]cache_models.LobbySummary, bool) {
	var summaries []cache_models.LobbySummary
	if m.Cache.Get(cache.LobbiesKey(), &summaries) {
		return summaries, true
	}

	var lobbies []postgres.Lobby
	if err := m.DB.Find(&lobbies).Error; err != nil {
		log.Printf("[LOBBY-ERROR] error loading lobbies: %v", err)
		return nil, false
	}
	var members []postgres.LobbyMember
	if err := m.DB.Find(&members).Error; err != nil {
		log.Printf("[LOBBY-ERROR] error loading lobby members: %v", err)
		return nil, false
	}

	membersByCode := make(map[string][]uint)
	for _, member := range members {
		membersByCode[member.LobbyCode] = append(membersByCode[member.LobbyCode], member.PlayerID)
	}

	summaries = make([]cache_models.LobbySummary, 0, len(lobbies))
	for _, l := range lobbies {
		summaries = append(summaries, m.buildSummary(&l, membersByCode[l.Code]))
	}
	m.Cache.Set(cache.LobbiesKey(), summaries)
	return summaries, true
}

func (m *Manager) buildSummary(l *postgres.Lobby, memberIDs []uint) cache_models.LobbySummary {
	memberNames := make([]string, len(memberIDs))
	for i, id := range memberIDs {
		memberNames[i] = m.Players.ResolveUsername(id)
	}
	return cache_models.LobbySummary{
		ID:             l.ID,
		Code:           l.Code,
		Name:           l.Name,
		PasswordHash:   l.PasswordHash,
		HostPlayerID:   l.HostPlayerID,
		HostPlayerName: m.Players.ResolveUsername(l.HostPlayerID),
		LevelID:        l.SelectedLevelID,
		LevelName:      m.resolveLevelName(l.SelectedLevelID),
		MaxPlayers:     l.MaxPlayers,
		HasStarted:     l.HasStarted,
		CreatedAt:      l.CreatedAt,
		MemberIDs:      memberIDs,
		MemberNames:    memberNames,
	}
}

func (m *Manager) resolveLevelName(levelID uint) string {
	var title string
	err := m.DB.Model(&postgres.WorkshopItem{}).
		Select("title").
		Where("id = ?", levelID).
		Scan(&title).Error
	if err != nil {
		log.Printf("[LOBBY-ERROR] error resolving level name for %d: %v", levelID, err)
		return ""
	}
	return title
}

// patchLobby replaces (or appends) one summary in the cached collection.
// When the collection cannot be rebuilt, the cache entry is dropped instead
// of writing a partial collection under it.
func (m *Manager) patchLobby(summary cache_models.LobbySummary) {
	summaries, ok := m.loadLobbies()
	if !ok {
		m.Cache.Remove(cache.LobbiesKey())
		return
	}
	for i := range summaries {
		if summaries[i].Code == summary.Code {
			summaries[i] = summary
			m.Cache.Set(cache.LobbiesKey(), summaries)
			return
		}
	}
	summaries = append(summaries, summary)
	m.Cache.Set(cache.LobbiesKey(), summaries)
}

// removeLobby drops one summary from the cached collection.
func (m *Manager) removeLobby(code string) {
	summaries, ok := m.loadLobbies()
	if !ok {
		m.Cache.Remove(cache.LobbiesKey())
		return
	}
	kept := summaries[:0]
	for _, s := range summaries {
		if s.Code != code {
			kept = append(kept, s)
		}
	}
	m.Cache.Set(cache.LobbiesKey(), kept)
}

// Create makes a new lobby with the requester as host and sole member.
// Returns nil when the host already belongs to an active lobby.
func (m *Manager) Create(hostID uint, name string, levelID uint, maxPlayers int, password string) *cache_models.LobbySummary {
	if existing := m.GetByPlayerID(hostID); existing != nil {
		log.Printf("[CREATE] player %d already in lobby %s", hostID, existing.Code)
		return nil
	}

	passwordHash := ""
	if password != "" {
		var err error
		passwordHash, err = hasher.Hash(password)
		if err != nil {
			log.Printf("[CREATE-ERROR] error hashing lobby password: %v", err)
			return nil
		}
	}

	newLobby := postgres.Lobby{
		Name:            SanitizeName(name),
		PasswordHash:    passwordHash,
		HostPlayerID:    hostID,
		SelectedLevelID: levelID,
		MaxPlayers:      ClampMaxPlayers(maxPlayers),
	}

	tx := m.DB.Begin()
	if tx.Error != nil {
		log.Printf("[CREATE-ERROR] error starting transaction: %v", tx.Error)
		return nil
	}
	if err := tx.Create(&newLobby).Error; err != nil {
		tx.Rollback()
		log.Printf("[CREATE-ERROR] error creating lobby: %v", err)
		return nil
	}
	member := postgres.LobbyMember{LobbyCode: newLobby.Code, PlayerID: hostID}
	if err := tx.Create(&member).Error; err != nil {
		tx.Rollback()
		log.Printf("[CREATE-ERROR] error adding host membership: %v", err)
		return nil
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("[CREATE-ERROR] error committing lobby creation: %v", err)
		return nil
	}

	summary := m.buildSummary(&newLobby, []uint{hostID})
	m.patchLobby(summary)
	log.Printf("[CREATE-SUCCESS] lobby %s created by player %d", newLobby.Code, hostID)
	return &summary
}

// Join adds a player to the lobby with that code. Fails on unknown code,
// failed password check, or when the player is already in any lobby.
func (m *Manager) Join(code string, playerID uint, password string) bool {
	if existing := m.GetByPlayerID(playerID); existing != nil {
		log.Printf("[JOIN] player %d already in lobby %s", playerID, existing.Code)
		return false
	}

	tx := m.DB.Begin()
	if tx.Error != nil {
		log.Printf("[JOIN-ERROR] error starting transaction: %v", tx.Error)
		return false
	}

	var dbLobby postgres.Lobby
	if err := tx.Where("code = ?", code).First(&dbLobby).Error; err != nil {
		tx.Rollback()
		log.Printf("[JOIN] lobby %s not found: %v", code, err)
		return false
	}

	if !hasher.Verify(password, dbLobby.PasswordHash) {
		tx.Rollback()
		log.Printf("[JOIN] wrong password for lobby %s", code)
		return false
	}

	var count int64
	if err := tx.Model(&postgres.LobbyMember{}).
		Where("lobby_code = ? AND player_id = ?", code, playerID).
		Count(&count).Error; err != nil {
		tx.Rollback()
		log.Printf("[JOIN-ERROR] error checking membership: %v", err)
		return false
	}
	if count > 0 {
		tx.Rollback()
		log.Printf("[JOIN] player %d already joined lobby %s", playerID, code)
		return false
	}

	member := postgres.LobbyMember{LobbyCode: code, PlayerID: playerID}
	if err := tx.Create(&member).Error; err != nil {
		tx.Rollback()
		log.Printf("[JOIN-ERROR] error adding member: %v", err)
		return false
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("[JOIN-ERROR] error committing join: %v", err)
		return false
	}

	m.refreshMembers(&dbLobby)
	log.Printf("[JOIN-SUCCESS] player %d joined lobby %s", playerID, code)
	return true
}

// Leave removes a player from the lobby. When the host leaves, the whole
// lobby is deleted instead of being left without a host.
func (m *Manager) Leave(code string, playerID uint) bool {
	tx := m.DB.Begin()
	if tx.Error != nil {
		log.Printf("[LEAVE-ERROR] error starting transaction: %v", tx.Error)
		return false
	}

	var dbLobby postgres.Lobby
	if err := tx.Where("code = ?", code).First(&dbLobby).Error; err != nil {
		tx.Rollback()
		log.Printf("[LEAVE] lobby %s not found: %v", code, err)
		return false
	}

	var count int64
	if err := tx.Model(&postgres.LobbyMember{}).
		Where("lobby_code = ? AND player_id = ?", code, playerID).
		Count(&count).Error; err != nil || count == 0 {
		tx.Rollback()
		log.Printf("[LEAVE] player %d not in lobby %s", playerID, code)
		return false
	}

	if playerID == dbLobby.HostPlayerID {
		// Host leaving dissolves the lobby entirely
		if err := tx.Where("lobby_code = ?", code).Delete(&postgres.LobbyMember{}).Error; err != nil {
			tx.Rollback()
			log.Printf("[LEAVE-ERROR] error deleting members: %v", err)
			return false
		}
		if err := tx.Delete(&dbLobby).Error; err != nil {
			tx.Rollback()
			log.Printf("[LEAVE-ERROR] error deleting lobby: %v", err)
			return false
		}
		if err := tx.Commit().Error; err != nil {
			log.Printf("[LEAVE-ERROR] error committing host leave: %v", err)
			return false
		}
		m.removeLobby(code)
		log.Printf("[LEAVE-SUCCESS] host %d left, lobby %s deleted", playerID, code)
		return true
	}

	if err := tx.Where("lobby_code = ? AND player_id = ?", code, playerID).
		Delete(&postgres.LobbyMember{}).Error; err != nil {
		tx.Rollback()
		log.Printf("[LEAVE-ERROR] error removing member: %v", err)
		return false
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("[LEAVE-ERROR] error committing leave: %v", err)
		return false
	}

	m.refreshMembers(&dbLobby)
	log.Printf("[LEAVE-SUCCESS] player %d left lobby %s", playerID, code)
	return true
}

// Start flips the one-way has_started flag. Only the host may start, and
// only while 2 <= members <= max_players.
func (m *Manager) Start(code string, playerID uint) bool {
	tx := m.DB.Begin()
	if tx.Error != nil {
		log.Printf("[START-ERROR] error starting transaction: %v", tx.Error)
		return false
	}

	var dbLobby postgres.Lobby
	if err := tx.Where("code = ?", code).First(&dbLobby).Error; err != nil {
		tx.Rollback()
		log.Printf("[START] lobby %s not found: %v", code, err)
		return false
	}

	if dbLobby.HostPlayerID != playerID || dbLobby.HasStarted {
		tx.Rollback()
		log.Printf("[START] refused for player %d on lobby %s", playerID, code)
		return false
	}

	var count int64
	if err := tx.Model(&postgres.LobbyMember{}).
		Where("lobby_code = ?", code).
		Count(&count).Error; err != nil {
		tx.Rollback()
		log.Printf("[START-ERROR] error counting members: %v", err)
		return false
	}
	if count < MinPlayers || count > int64(dbLobby.MaxPlayers) {
		tx.Rollback()
		log.Printf("[START] lobby %s has %d members, outside [%d,%d]", code, count, MinPlayers, dbLobby.MaxPlayers)
		return false
	}

	if err := tx.Model(&dbLobby).Update("has_started", true).Error; err != nil {
		tx.Rollback()
		log.Printf("[START-ERROR] error updating lobby: %v", err)
		return false
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("[START-ERROR] error committing start: %v", err)
		return false
	}

	dbLobby.HasStarted = true
	m.refreshMembers(&dbLobby)
	log.Printf("[START-SUCCESS] lobby %s started", code)
	return true
}

// Delete removes the lobby. Allowed for the host and for admins; admin
// deletions leave an audit trail.
func (m *Manager) Delete(code string, userID uint) bool {
	var dbLobby postgres.Lobby
	if err := m.DB.Where("code = ?", code).First(&dbLobby).Error; err != nil {
		log.Printf("[DELETE] lobby %s not found: %v", code, err)
		return false
	}

	isAdmin := m.Players.IsAdmin(userID)
	if dbLobby.HostPlayerID != userID && !isAdmin {
		log.Printf("[DELETE] player %d may not delete lobby %s", userID, code)
		return false
	}

	tx := m.DB.Begin()
	if tx.Error != nil {
		log.Printf("[DELETE-ERROR] error starting transaction: %v", tx.Error)
		return false
	}
	if err := tx.Where("lobby_code = ?", code).Delete(&postgres.LobbyMember{}).Error; err != nil {
		tx.Rollback()
		log.Printf("[DELETE-ERROR] error deleting members: %v", err)
		return false
	}
	if err := tx.Delete(&dbLobby).Error; err != nil {
		tx.Rollback()
		log.Printf("[DELETE-ERROR] error deleting lobby: %v", err)
		return false
	}
	if isAdmin && dbLobby.HostPlayerID != userID {
		detail, _ := json.Marshal(map[string]interface{}{
			"code":           code,
			"host_player_id": dbLobby.HostPlayerID,
		})
		entry := postgres.AdminLog{
			AdminID: userID,
			Action:  "lobby_deleted",
			Detail:  datatypes.JSON(detail),
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			log.Printf("[DELETE-ERROR] error writing admin log: %v", err)
			return false
		}
		m.Cache.Remove(cache.AdminLogsKey())
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("[DELETE-ERROR] error committing delete: %v", err)
		return false
	}

	m.removeLobby(code)
	log.Printf("[DELETE-SUCCESS] lobby %s deleted by player %d", code, userID)
	return true
}

// Kick removes another player on the host's behalf. The target is resolved
// from a display name; kicking yourself is refused.
func (m *Manager) Kick(code string, hostID uint, targetName string) bool {
	targetID := m.Players.ResolveID(targetName)
	if targetID == 0 || targetID == hostID {
		log.Printf("[KICK] invalid target %q in lobby %s", targetName, code)
		return false
	}

	summary := m.GetByCode(code)
	if summary == nil || summary.HostPlayerID != hostID {
		log.Printf("[KICK] player %d is not host of lobby %s", hostID, code)
		return false
	}

	return m.Leave(code, targetID)
}

// GetAll lists lobbies, optionally filtered by a case-insensitive substring
// of the code. Started lobbies are hidden unless asked for.
func (m *Manager) GetAll(codeFilter string, includeStarted bool) []cache_models.PublicLobby {
	codeFilter = strings.ToLower(codeFilter)
	result := make([]cache_models.PublicLobby, 0)
	summaries, _ := m.loadLobbies()
	for _, s := range summaries {
		if s.HasStarted && !includeStarted {
			continue
		}
		if codeFilter != "" && !strings.Contains(strings.ToLower(s.Code), codeFilter) {
			continue
		}
		result = append(result, s.Public())
	}
	return result
}

// GetByCode returns the lobby summary for a code, or nil.
func (m *Manager) GetByCode(code string) *cache_models.LobbySummary {
	summaries, _ := m.loadLobbies()
	for _, s := range summaries {
		if s.Code == code {
			summary := s
			return &summary
		}
	}
	return nil
}

// GetByPlayerID returns the lobby a player is currently a member of, or nil.
// The realtime layer uses this to resolve which lobby a dropped connection
// belonged to.
func (m *Manager) GetByPlayerID(playerID uint) *cache_models.LobbySummary {
	summaries, _ := m.loadLobbies()
	for _, s := range summaries {
		if s.HasMember(playerID) {
			summary := s
			return &summary
		}
	}
	return nil
}

// GetPlayerIDFromName resolves a display name via the player directory.
func (m *Manager) GetPlayerIDFromName(name string) uint {
	return m.Players.ResolveID(name)
}

// refreshMembers rebuilds one lobby's summary from the membership table and
// patches the cached collection.
func (m *Manager) refreshMembers(dbLobby *postgres.Lobby) {
	var members []postgres.LobbyMember
	if err := m.DB.Where("lobby_code = ?", dbLobby.Code).Find(&members).Error; err != nil {
		log.Printf("[LOBBY-ERROR] error reloading members of %s: %v", dbLobby.Code, err)
		m.Cache.Remove(cache.LobbiesKey())
		return
	}
	memberIDs := make([]uint, len(members))
	for i, member := range members {
		memberIDs[i] = member.PlayerID
	}
	m.patchLobby(m.buildSummary(dbLobby, memberIDs))
}
