package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link types
const (
	LinkRelated   = "related"
	LinkPartOf    = "part_of"
	LinkUses      = "uses"
	LinkLocatedIn = "located_in"
	LinkInvolves  = "involves"
)

// IsValidLinkType reports whether linkType is one of the supported types.
func IsValidLinkType(linkType string) bool {
	switch linkType {
	case LinkRelated, LinkPartOf, LinkUses, LinkLocatedIn, LinkInvolves:
		return true
	}
	return false
}

// ContentLink is a directed typed edge between two content records of the
// same owner. Only one edge may exist per ordered (source, target) pair,
// whatever its type; the reverse edge is a distinct permitted edge.
// Edges are never retyped in place, only deleted and recreated.
type ContentLink struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	SourceID  string    `gorm:"column:source_id;type:uuid;uniqueIndex:idx_content_links_pair;index" json:"source_id"`
	TargetID  string    `gorm:"column:target_id;type:uuid;uniqueIndex:idx_content_links_pair;index" json:"target_id"`
	LinkType  string    `gorm:"column:link_type;type:varchar(20)" json:"link_type"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentLink) TableName() string { return "content_links" }

func (l *ContentLink) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// CreateLinkRequest creates an edge from the content in the URL to TargetID.
type CreateLinkRequest struct {
	TargetID string `json:"target_id" binding:"required"`
	LinkType string `json:"link_type" binding:"required"`
}

// LinkWithContent is an edge joined with its counterpart record. Content
// is nil when the counterpart was deleted between the edge read and the
// batch content fetch.
type LinkWithContent struct {
	ContentLink
	Content *Content `json:"content"`
}

// ContentLinks groups a record's edges by direction.
type ContentLinks struct {
	Outgoing []LinkWithContent `json:"outgoing"`
	Incoming []LinkWithContent `json:"incoming"`
}
