package community

import (
	"Stateforge/models/postgres"
	"Stateforge/services/cache"
	"Stateforge/services/filter"
	"log"
	"strings"

	"gorm.io/gorm"
)

// Service covers the discussion threads attached to workshop items plus
// player reports. Reads are cache-first like everything else; the cached
// shapes are the Postgres rows themselves (they are already flat).
type Service struct {
	DB    *gorm.DB
	Cache *cache.Client
}

func NewService(db *gorm.DB, cacheClient *cache.Client) *Service {
	return &Service{DB: db, Cache: cacheClient}
}

// Discussions lists the threads of one workshop item with their posts.
func (s *Service) Discussions(itemID uint) []postgres.Discussion {
	var discussions []postgres.Discussion
	if s.Cache.Get(cache.DiscussionsKey(itemID), &discussions) {
		return discussions
	}

	err := s.DB.Preload("Posts").
		Where("item_id = ?", itemID).
		Order("created_at desc").
		Find(&discussions).Error
	if err != nil {
		log.Printf("[COMMUNITY-ERROR] error loading discussions: %v", err)
		return nil
	}
	s.Cache.Set(cache.DiscussionsKey(itemID), discussions)
	return discussions
}

// CreateDiscussion opens a thread with its first post. Titles and bodies go
// through the content filter (censored, not rejected).
func (s *Service) CreateDiscussion(itemID, authorID uint, title, body string) bool {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return false
	}

	discussion := postgres.Discussion{
		ItemID:   itemID,
		Title:    filter.Censor(title),
		AuthorID: authorID,
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		log.Printf("[COMMUNITY-ERROR] error starting transaction: %v", tx.Error)
		return false
	}
	if err := tx.Create(&discussion).Error; err != nil {
		tx.Rollback()
		log.Printf("[COMMUNITY-ERROR] error creating discussion: %v", err)
		return false
	}
	post := postgres.Post{
		DiscussionID: discussion.ID,
		AuthorID:     authorID,
		Body:         filter.Censor(body),
	}
	if err := tx.Create(&post).Error; err != nil {
		tx.Rollback()
		log.Printf("[COMMUNITY-ERROR] error creating post: %v", err)
		return false
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("[COMMUNITY-ERROR] error committing discussion: %v", err)
		return false
	}

	s.Cache.Remove(cache.DiscussionsKey(itemID))
	return true
}

// AddPost appends a reply to an existing thread.
func (s *Service) AddPost(discussionID, authorID uint, body string) bool {
	body = strings.TrimSpace(body)
	if body == "" {
		return false
	}

	var discussion postgres.Discussion
	if err := s.DB.Where("id = ?", discussionID).First(&discussion).Error; err != nil {
		log.Printf("[COMMUNITY] discussion %d not found: %v", discussionID, err)
		return false
	}

	post := postgres.Post{
		DiscussionID: discussionID,
		AuthorID:     authorID,
		Body:         filter.Censor(body),
	}
	if err := s.DB.Create(&post).Error; err != nil {
		log.Printf("[COMMUNITY-ERROR] error creating post: %v", err)
		return false
	}

	s.Cache.Remove(cache.DiscussionsKey(discussion.ItemID))
	return true
}

// SubmitReport files a complaint about a workshop item or a player.
func (s *Service) SubmitReport(reporterID uint, targetType string, targetID uint, reason string) bool {
	if targetType != "item" && targetType != "player" {
		return false
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false
	}

	report := postgres.Report{
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     filter.Censor(reason),
	}
	if err := s.DB.Create(&report).Error; err != nil {
		log.Printf("[COMMUNITY-ERROR] error creating report: %v", err)
		return false
	}

	s.Cache.Remove(cache.ReportsKey())
	return true
}

// Reports lists open reports, newest first. Admin only at the HTTP layer.
func (s *Service) Reports() []postgres.Report {
	var reports []postgres.Report
	if s.Cache.Get(cache.ReportsKey(), &reports) {
		return reports
	}

	if err := s.DB.Order("created_at desc").Find(&reports).Error; err != nil {
		log.Printf("[COMMUNITY-ERROR] error loading reports: %v", err)
		return nil
	}
	s.Cache.Set(cache.ReportsKey(), reports)
	return reports
}

// AdminLogs lists the audit trail, newest first.
func (s *Service) AdminLogs() []postgres.AdminLog {
	var logs []postgres.AdminLog
	if s.Cache.Get(cache.AdminLogsKey(), &logs) {
		return logs
	}

	if err := s.DB.Order("created_at desc").Find(&logs).Error; err != nil {
		log.Printf("[COMMUNITY-ERROR] error loading admin logs: %v", err)
		return nil
	}
	s.Cache.Set(cache.AdminLogsKey(), logs)
	return logs
}
