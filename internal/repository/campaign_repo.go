package repository

import (
	"github.com/questforge/questforge-backend/internal/domain"
	"gorm.io/gorm"
)

// CampaignRepository campaign data access
type CampaignRepository interface {
	Create(campaign *domain.Campaign) error
	FindByID(userID, id string) (*domain.Campaign, error)
	List(userID string, page, limit int) ([]*domain.Campaign, int64, error)
	UpdateFields(userID, id string, fields map[string]interface{}) (int64, error)
	Delete(userID, id string) (int64, error)
}

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(campaign *domain.Campaign) error {
	return r.db.Create(campaign).Error
}

func (r *campaignRepository) FindByID(userID, id string) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) List(userID string, page, limit int) ([]*domain.Campaign, int64, error) {
	query := r.db.Model(&domain.Campaign{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []*domain.Campaign
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&campaigns).Error
	return campaigns, total, err
}

func (r *campaignRepository) UpdateFields(userID, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&domain.Campaign{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *campaignRepository) Delete(userID, id string) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Campaign{})
	return result.RowsAffected, result.Error
}
