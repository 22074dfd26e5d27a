package workshop

import (
	cache_models "Stateforge/models/cache"
	"Stateforge/models/postgres"
	"Stateforge/services/cache"
	"Stateforge/services/players"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service serves workshop browsing, rating and per-level leaderboards.
// Listings are personalized (they carry the requesting player's own rating),
// so the cache holds one entry per requesting player.
type Service struct {
	DB      *gorm.DB
	Cache   *cache.Client
	Players *players.Directory
}

func NewService(db *gorm.DB, cacheClient *cache.Client, directory *players.Directory) *Service {
	return &Service{DB: db, Cache: cacheClient, Players: directory}
}

// List returns every workshop item with average rating and the requesting
// player's own stars.
func (s *Service) List(playerID uint) []cache_models.WorkshopListing {
	var listings []cache_models.WorkshopListing
	if s.Cache.Get(cache.WorkshopKey(playerID), &listings) {
		return listings
	}

	var items []postgres.WorkshopItem
	if err := s.DB.Find(&items).Error; err != nil {
		log.Printf("[WORKSHOP-ERROR] error loading items: %v", err)
		return nil
	}
	var ratings []postgres.Rating
	if err := s.DB.Find(&ratings).Error; err != nil {
		log.Printf("[WORKSHOP-ERROR] error loading ratings: %v", err)
		return nil
	}

	type tally struct {
		sum, count, own int
	}
	tallies := make(map[uint]*tally)
	for _, r := range ratings {
		t := tallies[r.ItemID]
		if t == nil {
			t = &tally{}
			tallies[r.ItemID] = t
		}
		t.sum += r.Stars
		t.count++
		if r.PlayerID == playerID {
			t.own = r.Stars
		}
	}

	listings = make([]cache_models.WorkshopListing, len(items))
	for i, item := range items {
		listing := cache_models.WorkshopListing{
			ItemID:      item.ID,
			Title:       item.Title,
			Description: item.Description,
			AuthorName:  s.Players.ResolveUsername(item.AuthorID),
			TapeCount:   item.TapeCount,
			CreatedAt:   item.CreatedAt,
		}
		if t := tallies[item.ID]; t != nil {
			listing.AverageStars = float64(t.sum) / float64(t.count)
			listing.RatingCount = t.count
			listing.PlayerStars = t.own
		}
		listings[i] = listing
	}

	s.Cache.Set(cache.WorkshopKey(playerID), listings)
	return listings
}

// Rate upserts the player's star rating for an item. A rating changes the
// averages in every player's cached listing, so all per-player entries are
// invalidated together.
func (s *Service) Rate(itemID, playerID uint, stars int) bool {
	if stars < 1 || stars > 5 {
		return false
	}
	var count int64
	if err := s.DB.Model(&postgres.WorkshopItem{}).
		Where("id = ?", itemID).
		Count(&count).Error; err != nil || count == 0 {
		log.Printf("[WORKSHOP] item %d not found for rating", itemID)
		return false
	}

	rating := postgres.Rating{ItemID: itemID, PlayerID: playerID, Stars: stars}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars"}),
	}).Create(&rating).Error
	if err != nil {
		log.Printf("[WORKSHOP-ERROR] error saving rating: %v", err)
		return false
	}

	s.Cache.RemoveByPrefix(cache.WorkshopKeyPrefix)
	return true
}

// ResolveLevelName returns the title of a workshop item, or "" when unknown.
func (s *Service) ResolveLevelName(itemID uint) string {
	var title string
	err := s.DB.Model(&postgres.WorkshopItem{}).
		Select("title").
		Where("id = ?", itemID).
		Scan(&title).Error
	if err != nil {
		log.Printf("[WORKSHOP-ERROR] error resolving level name: %v", err)
		return ""
	}
	return title
}

const leaderboardSize = 10

// Leaderboard returns the best solutions for a level, fewest machine states
// first.
func (s *Service) Leaderboard(levelID uint) []cache_models.LeaderboardEntry {
	var entries []cache_models.LeaderboardEntry
	if s.Cache.Get(cache.LeaderboardKey(levelID), &entries) {
		return entries
	}

	var scores []postgres.Score
	err := s.DB.Where("level_id = ?", levelID).
		Order("state_count asc, achieved_at asc").
		Limit(leaderboardSize).
		Find(&scores).Error
	if err != nil {
		log.Printf("[WORKSHOP-ERROR] error loading leaderboard: %v", err)
		return nil
	}

	entries = make([]cache_models.LeaderboardEntry, len(scores))
	for i, score := range scores {
		entries[i] = cache_models.LeaderboardEntry{
			PlayerID:   score.PlayerID,
			PlayerName: s.Players.ResolveUsername(score.PlayerID),
			StateCount: score.StateCount,
			AchievedAt: score.AchievedAt,
		}
	}
	s.Cache.Set(cache.LeaderboardKey(levelID), entries)
	return entries
}

// SubmitScore records a solution size for the leaderboard.
func (s *Service) SubmitScore(levelID, playerID uint, stateCount int) bool {
	if stateCount < 1 {
		return false
	}
	score := postgres.Score{LevelID: levelID, PlayerID: playerID, StateCount: stateCount}
	if err := s.DB.Create(&score).Error; err != nil {
		log.Printf("[WORKSHOP-ERROR] error saving score: %v", err)
		return false
	}
	s.Cache.Remove(cache.LeaderboardKey(levelID))
	return true
}
