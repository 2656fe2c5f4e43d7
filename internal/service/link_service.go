package service

import (
	"errors"
	"fmt"

	"github.com/questforge/questforge-backend/internal/common"
	"github.com/questforge/questforge-backend/internal/domain"
	"github.com/questforge/questforge-backend/internal/repository"
	"gorm.io/gorm"
)

// LinkService business logic for the typed directed graph between
// content records. The graph is unconstrained beyond edge uniqueness:
// cycles, diamonds and disconnected components are all fine, and no
// traversal is performed here.
type LinkService interface {
	CreateLink(userID, sourceID string, req *domain.CreateLinkRequest) (*domain.ContentLink, error)
	ListLinks(userID, contentID string) (*domain.ContentLinks, error)
	DeleteLink(userID, linkID string) error
}

type linkService struct {
	repo     repository.LinkRepository
	contents repository.ContentRepository
}

// NewLinkService creates a new LinkService
func NewLinkService(repo repository.LinkRepository, contents repository.ContentRepository) LinkService {
	return &linkService{repo: repo, contents: contents}
}

// CreateLink adds an edge from sourceID to req.TargetID. Only one edge
// may exist per ordered pair regardless of type; the reverse direction
// is a separate edge.
func (s *linkService) CreateLink(userID, sourceID string, req *domain.CreateLinkRequest) (*domain.ContentLink, error) {
	if sourceID == req.TargetID {
		return nil, fmt.Errorf("%w: cannot link content to itself", common.ErrInvalidInput)
	}
	if !domain.IsValidLinkType(req.LinkType) {
		return nil, fmt.Errorf("%w: unknown link type %q", common.ErrInvalidInput, req.LinkType)
	}

	// Both endpoints must exist and belong to the caller.
	endpoints, err := s.contents.FindByIDs(userID, []string{sourceID, req.TargetID})
	if err != nil {
		return nil, err
	}
	if len(endpoints) != 2 {
		return nil, common.ErrNotFound
	}

	exists, err := s.repo.Exists(userID, sourceID, req.TargetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: link already exists", common.ErrConflict)
	}

	link := &domain.ContentLink{
		UserID:   userID,
		SourceID: sourceID,
		TargetID: req.TargetID,
		LinkType: req.LinkType,
	}
	if err := s.repo.Create(link); err != nil {
		// The unique index on (source_id, target_id) catches a
		// concurrent create that slipped past the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: link already exists", common.ErrConflict)
		}
		return nil, err
	}
	return link, nil
}

// ListLinks returns the record's outgoing and incoming edges, each joined
// with its counterpart content record. Counterparts are fetched in one
// batch and resolved through a map, so the cost stays linear in the
// number of edges. An edge whose counterpart vanished keeps its place in
// the list with a nil content field.
func (s *linkService) ListLinks(userID, contentID string) (*domain.ContentLinks, error) {
	if _, err := s.contents.FindByID(userID, contentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	outgoing, err := s.repo.FindBySource(userID, contentID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.repo.FindByTarget(userID, contentID)
	if err != nil {
		return nil, err
	}

	idSet := make(map[string]struct{}, len(outgoing)+len(incoming))
	for _, link := range outgoing {
		idSet[link.TargetID] = struct{}{}
	}
	for _, link := range incoming {
		idSet[link.SourceID] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	counterparts, err := s.contents.FindByIDs(userID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Content, len(counterparts))
	for _, c := range counterparts {
		byID[c.ID] = c
	}

	result := &domain.ContentLinks{
		Outgoing: make([]domain.LinkWithContent, len(outgoing)),
		Incoming: make([]domain.LinkWithContent, len(incoming)),
	}
	for i, link := range outgoing {
		result.Outgoing[i] = domain.LinkWithContent{ContentLink: *link, Content: byID[link.TargetID]}
	}
	for i, link := range incoming {
		result.Incoming[i] = domain.LinkWithContent{ContentLink: *link, Content: byID[link.SourceID]}
	}
	return result, nil
}

// DeleteLink removes an edge owned by the caller. Content records are
// untouched.
func (s *linkService) DeleteLink(userID, linkID string) error {
	rows, err := s.repo.Delete(userID, linkID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
