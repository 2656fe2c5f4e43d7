package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentVersion is an immutable snapshot of a content payload, written
// when an update actually changed the payload. Rows are append-only; this
// service never updates or deletes individual versions. The composite
// unique index serializes concurrent version-number assignment: the loser
// of a read-max-then-insert race gets a duplicate-key error instead of a
// duplicate version.
type ContentVersion struct {
	ID            string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ContentID     string            `gorm:"column:content_id;type:uuid;uniqueIndex:idx_content_versions_content_version" json:"content_id"`
	UserID        string            `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Version       int               `gorm:"column:version;uniqueIndex:idx_content_versions_content_version" json:"version"`
	Data          datatypes.JSONMap `gorm:"column:data;type:jsonb" json:"data"`
	ChangeSummary string            `gorm:"column:change_summary;type:text" json:"change_summary"`
	ChangedBy     string            `gorm:"column:changed_by;type:uuid" json:"changed_by"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentVersion) TableName() string { return "content_versions" }

func (v *ContentVersion) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
