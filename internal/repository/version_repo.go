package repository

import (
	"github.com/questforge/questforge-backend/internal/domain"
	"gorm.io/gorm"
)

// VersionRepository content version data access. Versions are append-only;
// deletion exists only for the cascade when a content record is removed.
type VersionRepository interface {
	Create(version *domain.ContentVersion) error
	ListByContentID(userID, contentID string) ([]*domain.ContentVersion, error)
	FindByContentIDAndVersion(userID, contentID string, version int) (*domain.ContentVersion, error)
	NextVersion(contentID string) (int, error)
	DeleteByContentID(userID, contentID string) error
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *domain.ContentVersion) error {
	return r.db.Create(version).Error
}

func (r *versionRepository) ListByContentID(userID, contentID string) ([]*domain.ContentVersion, error) {
	var versions []*domain.ContentVersion
	err := r.db.Where("content_id = ? AND user_id = ?", contentID, userID).
		Order("version DESC").
		Find(&versions).Error
	return versions, err
}

func (r *versionRepository) FindByContentIDAndVersion(userID, contentID string, version int) (*domain.ContentVersion, error) {
	var v domain.ContentVersion
	err := r.db.Where("content_id = ? AND user_id = ? AND version = ?", contentID, userID, version).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// NextVersion returns MAX(version)+1 for the content id, or 1 when no
// versions exist yet. Read-then-write; the unique index on
// (content_id, version) catches concurrent assignments.
func (r *versionRepository) NextVersion(contentID string) (int, error) {
	var maxVersion *int
	err := r.db.Model(&domain.ContentVersion{}).
		Where("content_id = ?", contentID).
		Select("MAX(version)").
		Scan(&maxVersion).Error
	if err != nil {
		return 1, err
	}
	if maxVersion == nil {
		return 1, nil
	}
	return *maxVersion + 1, nil
}

func (r *versionRepository) DeleteByContentID(userID, contentID string) error {
	return r.db.Where("content_id = ? AND user_id = ?", contentID, userID).
		Delete(&domain.ContentVersion{}).Error
}
