package service

import (
	"context"
	"errors"
	"testing"

	"github.com/questforge/questforge-backend/internal/common"
	"github.com/questforge/questforge-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- Mock ContentRepository ---

type mockContentRepo struct {
	mock.Mock
}

func (m *mockContentRepo) Create(content *domain.Content) error {
	return m.Called(content).Error(0)
}

func (m *mockContentRepo) FindByID(userID, id string) (*domain.Content, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Content), args.Error(1)
}

func (m *mockContentRepo) FindByIDs(userID string, ids []string) ([]*domain.Content, error) {
	args := m.Called(userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Content), args.Error(1)
}

func (m *mockContentRepo) List(userID string, kind string, page, limit int) ([]*domain.Content, int64, error) {
	args := m.Called(userID, kind, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Content), args.Get(1).(int64), args.Error(2)
}

func (m *mockContentRepo) UpdateFields(userID, id string, fields map[string]interface{}) (int64, error) {
	args := m.Called(userID, id, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockContentRepo) Delete(userID, id string) (int64, error) {
	args := m.Called(userID, id)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock VersionRepository ---

type mockVersionRepo struct {
	mock.Mock
}

func (m *mockVersionRepo) Create(version *domain.ContentVersion) error {
	return m.Called(version).Error(0)
}

func (m *mockVersionRepo) ListByContentID(userID, contentID string) ([]*domain.ContentVersion, error) {
	args := m.Called(userID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) FindByContentIDAndVersion(userID, contentID string, version int) (*domain.ContentVersion, error) {
	args := m.Called(userID, contentID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) NextVersion(contentID string) (int, error) {
	args := m.Called(contentID)
	return args.Int(0), args.Error(1)
}

func (m *mockVersionRepo) DeleteByContentID(userID, contentID string) error {
	return m.Called(userID, contentID).Error(0)
}

// --- Mock LinkRepository ---

type mockLinkRepo struct {
	mock.Mock
}

func (m *mockLinkRepo) Create(link *domain.ContentLink) error {
	return m.Called(link).Error(0)
}

func (m *mockLinkRepo) Exists(userID, sourceID, targetID string) (bool, error) {
	args := m.Called(userID, sourceID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLinkRepo) FindBySource(userID, sourceID string) ([]*domain.ContentLink, error) {
	args := m.Called(userID, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentLink), args.Error(1)
}

func (m *mockLinkRepo) FindByTarget(userID, targetID string) ([]*domain.ContentLink, error) {
	args := m.Called(userID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentLink), args.Error(1)
}

func (m *mockLinkRepo) Delete(userID, id string) (int64, error) {
	args := m.Called(userID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLinkRepo) DeleteByContentID(userID, contentID string) error {
	return m.Called(userID, contentID).Error(0)
}

// --- Mock CampaignContentRepository ---

type mockEntryRepo struct {
	mock.Mock
}

func (m *mockEntryRepo) Create(entry *domain.CampaignContent) error {
	return m.Called(entry).Error(0)
}

func (m *mockEntryRepo) ListByCampaign(userID, campaignID string) ([]*domain.CampaignContent, error) {
	args := m.Called(userID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CampaignContent), args.Error(1)
}

func (m *mockEntryRepo) MaxSequence(userID, campaignID string) (*int, error) {
	args := m.Called(userID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

func (m *mockEntryRepo) UpdateFields(userID, campaignID, contentID string, fields map[string]interface{}) (int64, error) {
	args := m.Called(userID, campaignID, contentID, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEntryRepo) Delete(userID, campaignID, contentID string) (int64, error) {
	args := m.Called(userID, campaignID, contentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEntryRepo) DeleteByCampaignID(userID, campaignID string) error {
	return m.Called(userID, campaignID).Error(0)
}

func (m *mockEntryRepo) DeleteByContentID(userID, contentID string) error {
	return m.Called(userID, contentID).Error(0)
}

// --- Stub TextGenerator ---

type stubGenerator struct {
	payload map[string]interface{}
	err     error
}

func (g *stubGenerator) Generate(_ context.Context, _, _ string) (map[string]interface{}, error) {
	return g.payload, g.err
}

func newContentService(repo *mockContentRepo, versions *mockVersionRepo, gen TextGenerator) ContentService {
	return NewContentService(repo, versions, new(mockLinkRepo), new(mockEntryRepo), gen, nil)
}

func existingContent() *domain.Content {
	return &domain.Content{
		ID:     "c1",
		UserID: "user1",
		Kind:   domain.KindCharacter,
		Data:   datatypes.JSONMap{"a": 1.0, "b": 2.0},
		Tags:   datatypes.JSONSlice[string]{"npc"},
		Notes:  "old notes",
	}
}

// --- Tests ---

func TestUpdate_PayloadChange_RecordsVersionWithDerivedSummary(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	repo.On("FindByID", "user1", "c1").Return(existingContent(), nil)
	repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(1), nil)
	versions.On("NextVersion", "c1").Return(1, nil)
	versions.On("Create", mock.MatchedBy(func(v *domain.ContentVersion) bool {
		return v.ContentID == "c1" &&
			v.Version == 1 &&
			v.ChangedBy == "user1" &&
			v.ChangeSummary == "Updated content (b, c)" &&
			v.Data["b"] == 3.0 && v.Data["c"] == 4.0
	})).Return(nil)

	updated, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Data: map[string]interface{}{"a": 1.0, "b": 3.0, "c": 4.0},
	})

	assert.NoError(t, err)
	assert.Equal(t, 3.0, updated.Data["b"])
	repo.AssertExpectations(t)
	versions.AssertExpectations(t)
}

func TestUpdate_NotesOnly_NoVersion(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	repo.On("FindByID", "user1", "c1").Return(existingContent(), nil)
	repo.On("UpdateFields", "user1", "c1", mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, hasNotes := fields["notes"]
		return hasNotes && len(fields) == 1
	})).Return(int64(1), nil)

	updated, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Notes: strPtr("new notes"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "new notes", updated.Notes)
	versions.AssertNotCalled(t, "Create", mock.Anything)
	repo.AssertExpectations(t)
}

func TestUpdate_IdenticalPayload_NoVersion(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	repo.On("FindByID", "user1", "c1").Return(existingContent(), nil)
	repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(1), nil)

	// Same payload, different literal types; structural diff must see no
	// change.
	_, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Data: map[string]interface{}{"b": 2, "a": 1},
	})

	assert.NoError(t, err)
	versions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpdate_ReorderedTags_NotAChange(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	existing := existingContent()
	existing.Tags = datatypes.JSONSlice[string]{"b", "a"}
	repo.On("FindByID", "user1", "c1").Return(existing, nil)
	repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(1), nil)

	_, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Tags: &[]string{" a ", "b"},
	})

	assert.NoError(t, err)
	versions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpdate_ExplicitSummaryWins(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	repo.On("FindByID", "user1", "c1").Return(existingContent(), nil)
	repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(1), nil)
	versions.On("NextVersion", "c1").Return(4, nil)
	versions.On("Create", mock.MatchedBy(func(v *domain.ContentVersion) bool {
		return v.Version == 4 && v.ChangeSummary == "reworked the villain"
	})).Return(nil)

	_, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Data:          map[string]interface{}{"a": 2.0, "b": 2.0},
		ChangeSummary: "reworked the villain",
	})

	assert.NoError(t, err)
	versions.AssertExpectations(t)
}

func TestUpdate_VersionMonotonicity(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	payloads := []map[string]interface{}{
		{"a": 10.0},
		{"a": 20.0},
		{"a": 30.0},
	}

	current := existingContent()
	for i, payload := range payloads {
		repo.On("FindByID", "user1", "c1").Return(current, nil).Once()
		repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(1), nil).Once()
		versions.On("NextVersion", "c1").Return(i+1, nil).Once()
		versions.On("Create", mock.MatchedBy(func(v *domain.ContentVersion) bool {
			return v.Version == i+1
		})).Return(nil).Once()

		updated, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{Data: payload})
		assert.NoError(t, err)
		current = updated
	}

	versions.AssertExpectations(t)
}

func TestUpdate_VersionWriteFailure_Swallowed(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	repo.On("FindByID", "user1", "c1").Return(existingContent(), nil)
	repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(1), nil)
	versions.On("NextVersion", "c1").Return(1, nil)
	versions.On("Create", mock.Anything).Return(errors.New("insert failed"))

	// The record update is the durable side effect; history is best
	// effort.
	updated, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Data: map[string]interface{}{"a": 9.0},
	})

	assert.NoError(t, err)
	assert.NotNil(t, updated)
}

func TestUpdate_VersionNumberRace_RetriedOnce(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	repo.On("FindByID", "user1", "c1").Return(existingContent(), nil)
	repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(1), nil)
	versions.On("NextVersion", "c1").Return(3, nil).Once()
	versions.On("Create", mock.MatchedBy(func(v *domain.ContentVersion) bool {
		return v.Version == 3
	})).Return(gorm.ErrDuplicatedKey).Once()
	versions.On("NextVersion", "c1").Return(4, nil).Once()
	versions.On("Create", mock.MatchedBy(func(v *domain.ContentVersion) bool {
		return v.Version == 4
	})).Return(nil).Once()

	_, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Data: map[string]interface{}{"a": 9.0},
	})

	assert.NoError(t, err)
	versions.AssertExpectations(t)
}

func TestUpdate_EmptyRequest(t *testing.T) {
	svc := newContentService(new(mockContentRepo), new(mockVersionRepo), nil)

	_, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUpdate_WrongOwner_NotFound(t *testing.T) {
	repo := new(mockContentRepo)
	svc := newContentService(repo, new(mockVersionRepo), nil)

	// Ownership filter makes another user's record indistinguishable
	// from a missing one.
	repo.On("FindByID", "intruder", "c1").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Update("intruder", "c1", &domain.UpdateContentRequest{
		Notes: strPtr("x"),
	})

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_RowVanishedBetweenReadAndWrite(t *testing.T) {
	repo := new(mockContentRepo)
	svc := newContentService(repo, new(mockVersionRepo), nil)

	repo.On("FindByID", "user1", "c1").Return(existingContent(), nil)
	repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(0), nil)

	_, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Notes: strPtr("x"),
	})

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreate_InvalidKind(t *testing.T) {
	svc := newContentService(new(mockContentRepo), new(mockVersionRepo), nil)

	_, err := svc.Create(context.Background(), "user1", &domain.CreateContentRequest{
		Kind:   "vehicle",
		Prompt: "a fast one",
	})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreate_GeneratesPayloadWhenMissing(t *testing.T) {
	repo := new(mockContentRepo)
	gen := &stubGenerator{payload: map[string]interface{}{"name": "Kara"}}
	svc := newContentService(repo, new(mockVersionRepo), gen)

	repo.On("Create", mock.MatchedBy(func(c *domain.Content) bool {
		return c.UserID == "user1" && c.Kind == domain.KindCharacter && c.Data["name"] == "Kara"
	})).Return(nil)

	content, err := svc.Create(context.Background(), "user1", &domain.CreateContentRequest{
		Kind:   domain.KindCharacter,
		Prompt: "a ranger from the north",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Kara", content.Data["name"])
	repo.AssertExpectations(t)
}

func TestCreate_NoDataAndNoGenerator(t *testing.T) {
	svc := newContentService(new(mockContentRepo), new(mockVersionRepo), nil)

	_, err := svc.Create(context.Background(), "user1", &domain.CreateContentRequest{
		Kind:   domain.KindMission,
		Prompt: "rescue the caravan",
	})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestDelete_CascadesVersionsLinksAndEntries(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	links := new(mockLinkRepo)
	entries := new(mockEntryRepo)
	svc := NewContentService(repo, versions, links, entries, nil, nil)

	repo.On("FindByID", "user1", "c1").Return(existingContent(), nil)
	versions.On("DeleteByContentID", "user1", "c1").Return(nil)
	links.On("DeleteByContentID", "user1", "c1").Return(nil)
	entries.On("DeleteByContentID", "user1", "c1").Return(nil)
	repo.On("Delete", "user1", "c1").Return(int64(1), nil)

	err := svc.Delete(context.Background(), "user1", "c1")

	assert.NoError(t, err)
	versions.AssertExpectations(t)
	links.AssertExpectations(t)
	entries.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	repo := new(mockContentRepo)
	svc := newContentService(repo, new(mockVersionRepo), nil)

	repo.On("FindByID", "user1", "missing").Return(nil, gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), "user1", "missing")

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListVersions_OwnershipChecked(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	svc := newContentService(repo, versions, nil)

	repo.On("FindByID", "intruder", "c1").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ListVersions("intruder", "c1")

	assert.ErrorIs(t, err, common.ErrNotFound)
	versions.AssertNotCalled(t, "ListByContentID", mock.Anything, mock.Anything)
}

// Lifecycle: generate a character, rework its payload (snapshot 1),
// annotate it (no snapshot), then read the history back.
func TestContentLifecycle(t *testing.T) {
	repo := new(mockContentRepo)
	versions := new(mockVersionRepo)
	gen := &stubGenerator{payload: map[string]interface{}{"name": "Kara", "class": "ranger"}}
	svc := newContentService(repo, versions, gen)

	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.Content).ID = "c1"
	}).Return(nil)

	created, err := svc.Create(context.Background(), "user1", &domain.CreateContentRequest{
		Kind:   domain.KindCharacter,
		Prompt: "a ranger from the north",
	})
	assert.NoError(t, err)

	repo.On("FindByID", "user1", "c1").Return(created, nil)
	repo.On("UpdateFields", "user1", "c1", mock.Anything).Return(int64(1), nil)
	versions.On("NextVersion", "c1").Return(1, nil).Once()
	versions.On("Create", mock.MatchedBy(func(v *domain.ContentVersion) bool {
		return v.Version == 1 && v.ChangeSummary == "Updated content (class)"
	})).Return(nil).Once()

	updated, err := svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Data: map[string]interface{}{"name": "Kara", "class": "beastmaster"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "beastmaster", updated.Data["class"])

	_, err = svc.Update("user1", "c1", &domain.UpdateContentRequest{
		Notes: strPtr("met the party in session 2"),
	})
	assert.NoError(t, err)

	versions.On("ListByContentID", "user1", "c1").Return([]*domain.ContentVersion{
		{ContentID: "c1", Version: 1, ChangeSummary: "Updated content (class)"},
	}, nil)

	history, err := svc.ListVersions("user1", "c1")
	assert.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Version)
	versions.AssertExpectations(t)
}

func TestBuildChangeSummary(t *testing.T) {
	tests := []struct {
		name        string
		dataChanged bool
		keys        []string
		notes       bool
		tags        bool
		favorite    bool
		want        string
	}{
		{"content keys only", true, []string{"b", "c"}, false, false, false, "Updated content (b, c)"},
		{"content without resolvable keys", true, nil, false, false, false, "Updated content"},
		{"everything", true, []string{"a"}, true, true, true, "Updated content (a), notes, tags, favorite"},
		{
			"key cap at six",
			true, []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8"},
			false, false, false,
			"Updated content (k1, k2, k3, k4, k5, k6, ...)",
		},
		{"nothing qualifies", false, nil, false, false, false, "Content updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildChangeSummary(tt.dataChanged, tt.keys, tt.notes, tt.tags, tt.favorite)
			assert.Equal(t, tt.want, got)
		})
	}
}

func strPtr(s string) *string { return &s }
