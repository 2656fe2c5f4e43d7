package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content kinds
const (
	KindCharacter   = "character"
	KindEnvironment = "environment"
	KindMission     = "mission"
)

// IsValidKind reports whether kind is one of the supported content kinds.
func IsValidKind(kind string) bool {
	switch kind {
	case KindCharacter, KindEnvironment, KindMission:
		return true
	}
	return false
}

// Content represents a generated RPG artifact owned by a user.
// Data is an open JSON payload whose shape depends on Kind; everything
// downstream of the handlers treats it as an opaque structured value.
type Content struct {
	ID         string                     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     string                     `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Kind       string                     `gorm:"column:kind;type:varchar(20);index" json:"kind"`
	Prompt     string                     `gorm:"column:prompt;type:text" json:"prompt"`
	Data       datatypes.JSONMap          `gorm:"column:data;type:jsonb" json:"data"`
	IsFavorite bool                       `gorm:"column:is_favorite;default:false" json:"is_favorite"`
	Tags       datatypes.JSONSlice[string] `gorm:"column:tags;type:jsonb" json:"tags"`
	Notes      string                     `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt  time.Time                  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time                  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Content) TableName() string { return "contents" }

// BeforeCreate assigns a UUID when the caller did not supply one.
func (c *Content) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CreateContentRequest creates new content. When Data is omitted the
// payload is produced by the text generator from Kind and Prompt.
type CreateContentRequest struct {
	Kind   string                 `json:"kind" binding:"required"`
	Prompt string                 `json:"prompt" binding:"required"`
	Data   map[string]interface{} `json:"data,omitempty"`
	Tags   []string               `json:"tags,omitempty"`
	Notes  string                 `json:"notes,omitempty"`
}

// UpdateContentRequest carries a partial update; nil pointers mean
// "leave untouched". ChangeSummary overrides the derived summary when
// the payload changed.
type UpdateContentRequest struct {
	IsFavorite    *bool                  `json:"is_favorite,omitempty"`
	Tags          *[]string              `json:"tags,omitempty"`
	Notes         *string                `json:"notes,omitempty"`
	Data          map[string]interface{} `json:"data,omitempty"`
	ChangeSummary string                 `json:"change_summary,omitempty"`
}

// IsEmpty reports whether the request carries no updatable field.
func (r *UpdateContentRequest) IsEmpty() bool {
	return r.IsFavorite == nil && r.Tags == nil && r.Notes == nil && r.Data == nil
}
