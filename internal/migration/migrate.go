package migration

import (
	"github.com/questforge/questforge-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates all tables via AutoMigrate, including the composite unique
// indexes that back conflict detection: (content_id, version) on
// content_versions, (source_id, target_id) on content_links and
// (campaign_id, content_id) on campaign_contents. Safe to run multiple
// times (AutoMigrate is idempotent).
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Content{},
		&domain.ContentVersion{},
		&domain.ContentLink{},
		&domain.Campaign{},
		&domain.CampaignContent{},
	)
}
