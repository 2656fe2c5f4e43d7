package service

import (
	"errors"
	"fmt"

	"github.com/questforge/questforge-backend/internal/common"
	"github.com/questforge/questforge-backend/internal/domain"
	"github.com/questforge/questforge-backend/internal/repository"
	"gorm.io/gorm"
)

// CampaignService business logic for campaigns and the ordering of
// content attached to them.
type CampaignService interface {
	Create(userID string, req *domain.CreateCampaignRequest) (*domain.Campaign, error)
	Get(userID, id string) (*domain.Campaign, error)
	List(userID string, page, limit int) ([]*domain.Campaign, *common.Meta, error)
	Update(userID, id string, req *domain.UpdateCampaignRequest) (*domain.Campaign, error)
	Delete(userID, id string) error

	AddContent(userID, campaignID string, req *domain.AddCampaignContentRequest) (*domain.CampaignContent, error)
	ListContent(userID, campaignID string) ([]domain.CampaignEntry, error)
	UpdateEntry(userID, campaignID, contentID string, req *domain.UpdateCampaignContentRequest) error
	RemoveContent(userID, campaignID, contentID string) error
}

type campaignService struct {
	repo     repository.CampaignRepository
	entries  repository.CampaignContentRepository
	contents repository.ContentRepository
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(
	repo repository.CampaignRepository,
	entries repository.CampaignContentRepository,
	contents repository.ContentRepository,
) CampaignService {
	return &campaignService{repo: repo, entries: entries, contents: contents}
}

func (s *campaignService) Create(userID string, req *domain.CreateCampaignRequest) (*domain.Campaign, error) {
	campaign := &domain.Campaign{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *campaignService) Get(userID, id string) (*domain.Campaign, error) {
	campaign, err := s.repo.FindByID(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return campaign, nil
}

func (s *campaignService) List(userID string, page, limit int) ([]*domain.Campaign, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	campaigns, total, err := s.repo.List(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return campaigns, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

func (s *campaignService) Update(userID, id string, req *domain.UpdateCampaignRequest) (*domain.Campaign, error) {
	if req.Name == nil && req.Description == nil {
		return nil, fmt.Errorf("%w: no valid fields to update", common.ErrInvalidInput)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	rows, err := s.repo.UpdateFields(userID, id, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, common.ErrNotFound
	}
	return s.Get(userID, id)
}

// Delete removes the campaign and its content entries. The content
// records themselves are untouched.
func (s *campaignService) Delete(userID, id string) error {
	if _, err := s.repo.FindByID(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound
		}
		return err
	}

	if err := s.entries.DeleteByCampaignID(userID, id); err != nil {
		return err
	}

	rows, err := s.repo.Delete(userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

// AddContent attaches a content record to a campaign. Without an explicit
// sequence the entry goes after the campaign's current maximum (0 for an
// empty campaign). Sequence values may repeat or leave gaps; only
// relative order matters.
func (s *campaignService) AddContent(userID, campaignID string, req *domain.AddCampaignContentRequest) (*domain.CampaignContent, error) {
	if req.Sequence != nil && *req.Sequence < 0 {
		return nil, fmt.Errorf("%w: sequence must be a non-negative integer", common.ErrInvalidInput)
	}

	if _, err := s.repo.FindByID(userID, campaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.contents.FindByID(userID, req.ContentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	sequence := 0
	if req.Sequence != nil {
		sequence = *req.Sequence
	} else {
		maxSeq, err := s.entries.MaxSequence(userID, campaignID)
		if err != nil {
			return nil, err
		}
		if maxSeq != nil {
			sequence = *maxSeq + 1
		}
	}

	entry := &domain.CampaignContent{
		CampaignID: campaignID,
		ContentID:  req.ContentID,
		UserID:     userID,
		Sequence:   sequence,
		Notes:      req.Notes,
	}
	if err := s.entries.Create(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: content already in campaign", common.ErrConflict)
		}
		return nil, err
	}
	return entry, nil
}

// ListContent returns the campaign's entries in ascending sequence order,
// each joined with its content record. Entries whose content has since
// been deleted keep a nil content field instead of erroring.
func (s *campaignService) ListContent(userID, campaignID string) ([]domain.CampaignEntry, error) {
	if _, err := s.repo.FindByID(userID, campaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	entries, err := s.entries.ListByCampaign(userID, campaignID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ContentID)
	}
	contents, err := s.contents.FindByIDs(userID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Content, len(contents))
	for _, c := range contents {
		byID[c.ID] = c
	}

	result := make([]domain.CampaignEntry, len(entries))
	for i, entry := range entries {
		result[i] = domain.CampaignEntry{CampaignContent: *entry, Content: byID[entry.ContentID]}
	}
	return result, nil
}

// UpdateEntry changes the sequence and/or notes of an existing entry.
func (s *campaignService) UpdateEntry(userID, campaignID, contentID string, req *domain.UpdateCampaignContentRequest) error {
	if req.Sequence == nil && req.Notes == nil {
		return fmt.Errorf("%w: no valid fields to update", common.ErrInvalidInput)
	}
	if req.Sequence != nil && *req.Sequence < 0 {
		return fmt.Errorf("%w: sequence must be a non-negative integer", common.ErrInvalidInput)
	}

	updates := make(map[string]interface{})
	if req.Sequence != nil {
		updates["sequence"] = *req.Sequence
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	rows, err := s.entries.UpdateFields(userID, campaignID, contentID, updates)
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

// RemoveContent detaches a content record from the campaign.
func (s *campaignService) RemoveContent(userID, campaignID, contentID string) error {
	rows, err := s.entries.Delete(userID, campaignID, contentID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
