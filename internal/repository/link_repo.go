package repository

import (
	"github.com/questforge/questforge-backend/internal/domain"
	"gorm.io/gorm"
)

// LinkRepository content link data access
type LinkRepository interface {
	Create(link *domain.ContentLink) error
	Exists(userID, sourceID, targetID string) (bool, error)
	FindBySource(userID, sourceID string) ([]*domain.ContentLink, error)
	FindByTarget(userID, targetID string) ([]*domain.ContentLink, error)
	Delete(userID, id string) (int64, error)
	DeleteByContentID(userID, contentID string) error
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new LinkRepository
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(link *domain.ContentLink) error {
	return r.db.Create(link).Error
}

func (r *linkRepository) Exists(userID, sourceID, targetID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ContentLink{}).
		Where("user_id = ? AND source_id = ? AND target_id = ?", userID, sourceID, targetID).
		Count(&count).Error
	return count > 0, err
}

func (r *linkRepository) FindBySource(userID, sourceID string) ([]*domain.ContentLink, error) {
	var links []*domain.ContentLink
	err := r.db.Where("user_id = ? AND source_id = ?", userID, sourceID).
		Order("created_at ASC").
		Find(&links).Error
	return links, err
}

func (r *linkRepository) FindByTarget(userID, targetID string) ([]*domain.ContentLink, error) {
	var links []*domain.ContentLink
	err := r.db.Where("user_id = ? AND target_id = ?", userID, targetID).
		Order("created_at ASC").
		Find(&links).Error
	return links, err
}

func (r *linkRepository) Delete(userID, id string) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.ContentLink{})
	return result.RowsAffected, result.Error
}

// DeleteByContentID removes every edge touching the content record, in
// either direction. Used by the content-delete cascade.
func (r *linkRepository) DeleteByContentID(userID, contentID string) error {
	return r.db.Where("user_id = ? AND (source_id = ? OR target_id = ?)", userID, contentID, contentID).
		Delete(&domain.ContentLink{}).Error
}
