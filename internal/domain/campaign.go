package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign groups content records into an ordered collection.
type Campaign struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Name        string    `gorm:"column:name;type:varchar(255)" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Campaign) TableName() string { return "campaigns" }

func (c *Campaign) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CampaignContent attaches a content record to a campaign at an ordering
// position. Sequence values need not be contiguous; only relative order
// matters. One entry per (campaign, content) pair.
type CampaignContent struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CampaignID string    `gorm:"column:campaign_id;type:uuid;uniqueIndex:idx_campaign_contents_pair;index" json:"campaign_id"`
	ContentID  string    `gorm:"column:content_id;type:uuid;uniqueIndex:idx_campaign_contents_pair" json:"content_id"`
	UserID     string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Sequence   int       `gorm:"column:sequence;default:0" json:"sequence"`
	Notes      string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CampaignContent) TableName() string { return "campaign_contents" }

func (e *CampaignContent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// CreateCampaignRequest creates a campaign.
type CreateCampaignRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateCampaignRequest carries a partial campaign update.
type UpdateCampaignRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddCampaignContentRequest attaches content to a campaign. When Sequence
// is omitted the next position after the campaign's current maximum is
// assigned.
type AddCampaignContentRequest struct {
	ContentID string `json:"content_id" binding:"required"`
	Sequence  *int   `json:"sequence,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateCampaignContentRequest reorders or annotates an entry; at least
// one field must be supplied.
type UpdateCampaignContentRequest struct {
	Sequence *int    `json:"sequence,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// CampaignEntry is a campaign-content row joined with its content record.
// Content is nil when the record has since been deleted.
type CampaignEntry struct {
	CampaignContent
	Content *Content `json:"content"`
}
