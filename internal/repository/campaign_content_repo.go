package repository

import (
	"github.com/questforge/questforge-backend/internal/domain"
	"gorm.io/gorm"
)

// CampaignContentRepository campaign-content entry data access
type CampaignContentRepository interface {
	Create(entry *domain.CampaignContent) error
	ListByCampaign(userID, campaignID string) ([]*domain.CampaignContent, error)
	MaxSequence(userID, campaignID string) (*int, error)
	UpdateFields(userID, campaignID, contentID string, fields map[string]interface{}) (int64, error)
	Delete(userID, campaignID, contentID string) (int64, error)
	DeleteByCampaignID(userID, campaignID string) error
	DeleteByContentID(userID, contentID string) error
}

type campaignContentRepository struct {
	db *gorm.DB
}

// NewCampaignContentRepository creates a new CampaignContentRepository
func NewCampaignContentRepository(db *gorm.DB) CampaignContentRepository {
	return &campaignContentRepository{db: db}
}

func (r *campaignContentRepository) Create(entry *domain.CampaignContent) error {
	return r.db.Create(entry).Error
}

func (r *campaignContentRepository) ListByCampaign(userID, campaignID string) ([]*domain.CampaignContent, error) {
	var entries []*domain.CampaignContent
	err := r.db.Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Order("sequence ASC").
		Find(&entries).Error
	return entries, err
}

// MaxSequence returns the highest sequence in the campaign, or nil when
// the campaign has no entries. Read-then-write like version numbering;
// a concurrent attach can assign the same sequence, which is tolerated
// because only relative order matters.
func (r *campaignContentRepository) MaxSequence(userID, campaignID string) (*int, error) {
	var maxSeq *int
	err := r.db.Model(&domain.CampaignContent{}).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Select("MAX(sequence)").
		Scan(&maxSeq).Error
	return maxSeq, err
}

func (r *campaignContentRepository) UpdateFields(userID, campaignID, contentID string, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&domain.CampaignContent{}).
		Where("campaign_id = ? AND content_id = ? AND user_id = ?", campaignID, contentID, userID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *campaignContentRepository) Delete(userID, campaignID, contentID string) (int64, error) {
	result := r.db.Where("campaign_id = ? AND content_id = ? AND user_id = ?", campaignID, contentID, userID).
		Delete(&domain.CampaignContent{})
	return result.RowsAffected, result.Error
}

func (r *campaignContentRepository) DeleteByCampaignID(userID, campaignID string) error {
	return r.db.Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Delete(&domain.CampaignContent{}).Error
}

func (r *campaignContentRepository) DeleteByContentID(userID, contentID string) error {
	return r.db.Where("content_id = ? AND user_id = ?", contentID, userID).
		Delete(&domain.CampaignContent{}).Error
}
