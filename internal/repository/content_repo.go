package repository

import (
	"github.com/questforge/questforge-backend/internal/domain"
	"gorm.io/gorm"
)

// ContentRepository content data access. Every query is filtered by user
// id; the database enforces the same rule again through row-level
// security, so a missed filter fails closed.
type ContentRepository interface {
	Create(content *domain.Content) error
	FindByID(userID, id string) (*domain.Content, error)
	FindByIDs(userID string, ids []string) ([]*domain.Content, error)
	List(userID string, kind string, page, limit int) ([]*domain.Content, int64, error)
	UpdateFields(userID, id string, fields map[string]interface{}) (int64, error)
	Delete(userID, id string) (int64, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(content *domain.Content) error {
	return r.db.Create(content).Error
}

func (r *contentRepository) FindByID(userID, id string) (*domain.Content, error) {
	var content domain.Content
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) FindByIDs(userID string, ids []string) ([]*domain.Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var contents []*domain.Content
	err := r.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&contents).Error
	return contents, err
}

func (r *contentRepository) List(userID string, kind string, page, limit int) ([]*domain.Content, int64, error) {
	query := r.db.Model(&domain.Content{}).Where("user_id = ?", userID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contents []*domain.Content
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&contents).Error
	return contents, total, err
}

func (r *contentRepository) UpdateFields(userID, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&domain.Content{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *contentRepository) Delete(userID, id string) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Content{})
	return result.RowsAffected, result.Error
}
