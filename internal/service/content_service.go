package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/questforge/questforge-backend/internal/common"
	"github.com/questforge/questforge-backend/internal/domain"
	"github.com/questforge/questforge-backend/internal/repository"
	"github.com/questforge/questforge-backend/pkg/cache"
	"github.com/questforge/questforge-backend/pkg/diff"
	"github.com/questforge/questforge-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxSummaryKeys caps the key list in an auto-generated change summary.
const maxSummaryKeys = 6

// ContentService business logic for content records and their version
// history.
type ContentService interface {
	Create(ctx context.Context, userID string, req *domain.CreateContentRequest) (*domain.Content, error)
	Get(ctx context.Context, userID, id string) (*domain.Content, error)
	List(ctx context.Context, userID, kind string, page, limit int) ([]*domain.Content, *common.Meta, error)
	Update(userID, id string, req *domain.UpdateContentRequest) (*domain.Content, error)
	Delete(ctx context.Context, userID, id string) error
	ListVersions(userID, contentID string) ([]*domain.ContentVersion, error)
}

type contentService struct {
	repo      repository.ContentRepository
	versions  repository.VersionRepository
	links     repository.LinkRepository
	entries   repository.CampaignContentRepository
	generator TextGenerator
	cache     cache.Service
}

// NewContentService creates a new ContentService
func NewContentService(
	repo repository.ContentRepository,
	versions repository.VersionRepository,
	links repository.LinkRepository,
	entries repository.CampaignContentRepository,
	generator TextGenerator,
	cacheService cache.Service,
) ContentService {
	return &contentService{
		repo:      repo,
		versions:  versions,
		links:     links,
		entries:   entries,
		generator: generator,
		cache:     cacheService,
	}
}

// Create stores a new content record. When no payload is supplied the
// text generator produces one from the kind and prompt.
func (s *contentService) Create(ctx context.Context, userID string, req *domain.CreateContentRequest) (*domain.Content, error) {
	if !domain.IsValidKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown kind %q", common.ErrInvalidInput, req.Kind)
	}

	data := req.Data
	if data == nil {
		if s.generator == nil {
			return nil, fmt.Errorf("%w: data is required when generation is disabled", common.ErrInvalidInput)
		}
		generated, err := s.generator.Generate(ctx, req.Kind, req.Prompt)
		if err != nil {
			return nil, err
		}
		data = generated
	}

	content := &domain.Content{
		UserID: userID,
		Kind:   req.Kind,
		Prompt: req.Prompt,
		Data:   datatypes.JSONMap(data),
		Tags:   datatypes.JSONSlice[string](req.Tags),
		Notes:  req.Notes,
	}
	if err := s.repo.Create(content); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx, userID)
	return content, nil
}

func (s *contentService) Get(ctx context.Context, userID, id string) (*domain.Content, error) {
	if s.cache != nil {
		var cached domain.Content
		if err := s.cache.Get(ctx, cache.ContentKey(userID, id), &cached); err == nil {
			return &cached, nil
		}
	}

	content, err := s.repo.FindByID(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		//nolint:errcheck // cache population is best effort
		s.cache.Set(ctx, cache.ContentKey(userID, id), content, cache.TTLContent)
	}
	return content, nil
}

// contentPage is the cached representation of one list page.
type contentPage struct {
	Items []*domain.Content `json:"items"`
	Total int64             `json:"total"`
}

func (s *contentService) List(ctx context.Context, userID, kind string, page, limit int) ([]*domain.Content, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if kind != "" && !domain.IsValidKind(kind) {
		return nil, nil, fmt.Errorf("%w: unknown kind %q", common.ErrInvalidInput, kind)
	}

	key := cache.ContentsKey(userID, kind, page, limit)
	if s.cache != nil {
		var cached contentPage
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Items, &common.Meta{Page: page, Limit: limit, Total: cached.Total}, nil
		}
	}

	contents, total, err := s.repo.List(userID, kind, page, limit)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		//nolint:errcheck // cache population is best effort
		s.cache.Set(ctx, key, contentPage{Items: contents, Total: total}, cache.TTLContents)
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return contents, meta, nil
}

// Update applies a partial update to an owned content record. Only the
// supplied fields are written. When the payload actually changed (per
// structural diff) an immutable version snapshot is recorded with a
// derived summary; the snapshot write is best effort and never rolls
// back the record update.
func (s *contentService) Update(userID, id string, req *domain.UpdateContentRequest) (*domain.Content, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no valid fields to update", common.ErrInvalidInput)
	}

	existing, err := s.repo.FindByID(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	var favoriteChanged, tagsChanged, notesChanged, dataChanged bool
	var changedKeys []string

	if req.IsFavorite != nil {
		favoriteChanged = *req.IsFavorite != existing.IsFavorite
		updates["is_favorite"] = *req.IsFavorite
	}
	if req.Tags != nil {
		tagsChanged = !diff.TagsEqual(*req.Tags, []string(existing.Tags))
		updates["tags"] = datatypes.JSONSlice[string](*req.Tags)
	}
	if req.Notes != nil {
		notesChanged = *req.Notes != existing.Notes
		updates["notes"] = *req.Notes
	}
	if req.Data != nil {
		prev := map[string]interface{}(existing.Data)
		dataChanged = !diff.DeepEqual(prev, req.Data)
		if dataChanged {
			changedKeys = diff.TopLevelChanges(prev, req.Data)
		}
		updates["data"] = datatypes.JSONMap(req.Data)
	}

	rows, err := s.repo.UpdateFields(userID, id, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Row vanished between the read and the write.
		return nil, common.ErrNotFound
	}

	if dataChanged {
		summary := req.ChangeSummary
		if summary == "" {
			summary = buildChangeSummary(dataChanged, changedKeys, notesChanged, tagsChanged, favoriteChanged)
		}
		s.recordVersion(existing.ID, userID, req.Data, summary)
	}

	s.invalidate(userID, id)

	// Reflect the update on the already-fetched row instead of a second
	// read.
	if req.IsFavorite != nil {
		existing.IsFavorite = *req.IsFavorite
	}
	if req.Tags != nil {
		existing.Tags = datatypes.JSONSlice[string](*req.Tags)
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}
	if req.Data != nil {
		existing.Data = datatypes.JSONMap(req.Data)
	}
	return existing, nil
}

// Delete removes a content record along with its versions, links and
// campaign entries.
func (s *contentService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.FindByID(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound
		}
		return err
	}

	if err := s.versions.DeleteByContentID(userID, id); err != nil {
		return err
	}
	if err := s.links.DeleteByContentID(userID, id); err != nil {
		return err
	}
	if err := s.entries.DeleteByContentID(userID, id); err != nil {
		return err
	}

	rows, err := s.repo.Delete(userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrNotFound
	}

	s.invalidate(userID, id)
	return nil
}

func (s *contentService) ListVersions(userID, contentID string) ([]*domain.ContentVersion, error) {
	if _, err := s.repo.FindByID(userID, contentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return s.versions.ListByContentID(userID, contentID)
}

// recordVersion appends a snapshot with the next version number for the
// content id. The record update has already been committed; a failure
// here is logged and swallowed so history bookkeeping never blocks the
// user's edit. A duplicate version number (concurrent edit) is retried
// once with a re-read number.
func (s *contentService) recordVersion(contentID, userID string, data map[string]interface{}, summary string) {
	log := logger.WithUserID(userID)

	next, err := s.versions.NextVersion(contentID)
	if err != nil {
		log.Error().Err(err).
			Str("content_id", contentID).
			Msg("failed to read next content version")
		return
	}

	version := &domain.ContentVersion{
		ContentID:     contentID,
		UserID:        userID,
		Version:       next,
		Data:          datatypes.JSONMap(data),
		ChangeSummary: summary,
		ChangedBy:     userID,
	}
	err = s.versions.Create(version)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the numbering race; take the freshly observed number.
		if retryNext, retryErr := s.versions.NextVersion(contentID); retryErr == nil {
			version.ID = ""
			version.Version = retryNext
			err = s.versions.Create(version)
		}
	}
	if err != nil {
		log.Error().Err(err).
			Str("content_id", contentID).
			Int("version", version.Version).
			Msg("failed to record content version")
	}
}

func (s *contentService) invalidate(userID, id string) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	//nolint:errcheck // cache invalidation is best effort
	s.cache.Delete(ctx, cache.ContentKey(userID, id))
	s.invalidateLists(ctx, userID)
}

// invalidateLists drops every cached list page of the user. Creates,
// updates and deletes all change what list pages contain.
func (s *contentService) invalidateLists(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	//nolint:errcheck // cache invalidation is best effort
	s.cache.DeleteByPrefix(ctx, cache.ContentsPrefix(userID))
}

// buildChangeSummary derives a human-readable summary from what changed,
// in the fixed order content, notes, tags, favorite. Key names are taken
// verbatim; at most maxSummaryKeys keys are listed, with a trailing
// ", ..." marker beyond that.
func buildChangeSummary(dataChanged bool, changedKeys []string, notesChanged, tagsChanged, favoriteChanged bool) string {
	var parts []string

	if dataChanged {
		if len(changedKeys) > 0 {
			keys := changedKeys
			suffix := ""
			if len(keys) > maxSummaryKeys {
				keys = keys[:maxSummaryKeys]
				suffix = ", ..."
			}
			parts = append(parts, fmt.Sprintf("content (%s%s)", strings.Join(keys, ", "), suffix))
		} else {
			parts = append(parts, "content")
		}
	}
	if notesChanged {
		parts = append(parts, "notes")
	}
	if tagsChanged {
		parts = append(parts, "tags")
	}
	if favoriteChanged {
		parts = append(parts, "favorite")
	}

	if len(parts) == 0 {
		return "Content updated"
	}
	return "Updated " + strings.Join(parts, ", ")
}
