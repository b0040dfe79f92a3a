package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spshpau/project-service/internal/domain"
)

type fakeMembers struct {
	members map[uuid.UUID]bool
}

func (f fakeMembers) VerifyMember(_ context.Context, _ uuid.UUID, userID uuid.UUID) error {
	if f.members[userID] {
		return nil
	}
	return domain.ErrNotProjectMember
}

type fakeRepo struct {
	items map[uuid.UUID]*domain.Milestone
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]*domain.Milestone{}}
}

func (f *fakeRepo) Create(_ context.Context, projectID uuid.UUID, title, description string, dueDate *time.Time) (*domain.Milestone, error) {
	m := &domain.Milestone{ID: uuid.New(), ProjectID: projectID, Title: title, Description: description, DueDate: dueDate}
	f.items[m.ID] = m
	return m, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Milestone, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, domain.ErrMilestoneNotFound
	}
	out := *m
	return &out, nil
}

func (f *fakeRepo) ListByProject(_ context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Milestone], error) {
	var items []domain.Milestone
	for _, m := range f.items {
		if m.ProjectID == projectID {
			items = append(items, *m)
		}
	}
	return domain.NewPage(items, page.Normalize(), int64(len(items))), nil
}

func (f *fakeRepo) Update(_ context.Context, m *domain.Milestone) (*domain.Milestone, error) {
	if _, ok := f.items[m.ID]; !ok {
		return nil, domain.ErrMilestoneNotFound
	}
	stored := *m
	f.items[m.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrMilestoneNotFound
	}
	delete(f.items, id)
	return nil
}

func setup() (*MilestoneService, *fakeRepo, uuid.UUID, uuid.UUID) {
	member := uuid.New()
	projectID := uuid.New()
	repo := newFakeRepo()
	svc := NewMilestoneService(repo, fakeMembers{members: map[uuid.UUID]bool{member: true}})
	return svc, repo, member, projectID
}

func TestCreateMilestoneRequiresMembership(t *testing.T) {
	svc, _, _, projectID := setup()

	_, err := svc.Create(context.Background(), uuid.New(), projectID, "mix", "", nil)
	assert.ErrorIs(t, err, domain.ErrNotProjectMember)
}

func TestCreateMilestoneRequiresTitle(t *testing.T) {
	svc, _, member, projectID := setup()

	_, err := svc.Create(context.Background(), member, projectID, "   ", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateOmittedDueDateKeepsCurrent(t *testing.T) {
	svc, _, member, projectID := setup()
	due := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	m, err := svc.Create(context.Background(), member, projectID, "master", "", &due)
	require.NoError(t, err)

	title := "mastering"
	updated, err := svc.Update(context.Background(), member, projectID, m.ID, MilestonePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "mastering", updated.Title)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))
}

func TestUpdateNullDueDateClearsIt(t *testing.T) {
	svc, _, member, projectID := setup()
	due := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	m, err := svc.Create(context.Background(), member, projectID, "master", "", &due)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), member, projectID, m.ID, MilestonePatch{DueDate: domain.NullPatch[time.Time]()})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestUpdateDueDateWithValue(t *testing.T) {
	svc, _, member, projectID := setup()
	m, err := svc.Create(context.Background(), member, projectID, "master", "", nil)
	require.NoError(t, err)

	due := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(context.Background(), member, projectID, m.ID, MilestonePatch{DueDate: domain.NewPatch(due)})
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))
}

func TestGetFromWrongProjectIsAccessViolation(t *testing.T) {
	svc, _, member, projectID := setup()
	m, err := svc.Create(context.Background(), member, projectID, "master", "", nil)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), member, uuid.New(), m.ID)
	assert.ErrorIs(t, err, domain.ErrNotProjectMember)
}

func TestDeleteMilestone(t *testing.T) {
	svc, repo, member, projectID := setup()
	m, err := svc.Create(context.Background(), member, projectID, "master", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), member, projectID, m.ID))
	assert.Empty(t, repo.items)

	err = svc.Delete(context.Background(), member, projectID, m.ID)
	assert.ErrorIs(t, err, domain.ErrMilestoneNotFound)
}
