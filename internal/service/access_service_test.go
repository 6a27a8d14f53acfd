package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
)

type memAccessRepo struct {
	items map[uuid.UUID]*model.AccessRequest
}

func newMemAccessRepo() *memAccessRepo {
	return &memAccessRepo{items: make(map[uuid.UUID]*model.AccessRequest)}
}

func (r *memAccessRepo) Create(_ context.Context, req *model.AccessRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	clone := *req
	r.items[req.ID] = &clone
	return nil
}

func (r *memAccessRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AccessRequest, error) {
	req, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *memAccessRepo) FindByOwner(_ context.Context, userID uuid.UUID) ([]model.AccessRequest, error) {
	var out []model.AccessRequest
	for _, req := range r.items {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *memAccessRepo) FindPending(_ context.Context) ([]model.AccessRequest, error) {
	var out []model.AccessRequest
	for _, req := range r.items {
		if req.ReviewedAt == nil {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *memAccessRepo) Save(_ context.Context, req *model.AccessRequest) error {
	clone := *req
	r.items[req.ID] = &clone
	return nil
}

type memLibraryRepo struct {
	items map[uuid.UUID]*model.Library
}

func newMemLibraryRepo() *memLibraryRepo {
	return &memLibraryRepo{items: make(map[uuid.UUID]*model.Library)}
}

func (r *memLibraryRepo) Create(_ context.Context, l *model.Library) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	clone := *l
	r.items[l.ID] = &clone
	return nil
}

func (r *memLibraryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Library, error) {
	l, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *memLibraryRepo) FindAll(_ context.Context) ([]model.Library, error) {
	var out []model.Library
	for _, l := range r.items {
		out = append(out, *l)
	}
	return out, nil
}

type recordingAuditService struct {
	entries []string
}

func (a *recordingAuditService) Record(_ context.Context, _ uuid.UUID, activityType, _ string, _ any) error {
	a.entries = append(a.entries, activityType)
	return nil
}

func (a *recordingAuditService) ListRecent(context.Context, int) ([]model.ActivityLog, error) {
	return nil, nil
}

func newAccessFixture(t *testing.T) (AccessService, *memAccessRepo, *memLibraryRepo, *recordingAuditService, *recordingNotificationService) {
	t.Helper()
	repo := newMemAccessRepo()
	libs := newMemLibraryRepo()
	audit := &recordingAuditService{}
	rec := &recordingNotificationService{}
	dispatcher := NewNotificationDispatcher(rec, zap.NewNop())
	svc := NewAccessService(repo, libs, dispatcher, audit, zap.NewNop())
	return svc, repo, libs, audit, rec
}

func TestBulkApproveIsolatesPerRecordFailures(t *testing.T) {
	svc, repo, libs, audit, rec := newAccessFixture(t)
	ctx := context.Background()
	reviewer := uuid.New()

	library := &model.Library{Name: "Main Library"}
	require.NoError(t, libs.Create(ctx, library))

	// Three requests: two against the real branch, one pointing at a
	// library id that no longer exists.
	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		req := &model.AccessRequest{UserID: uuid.New(), LibraryID: library.ID}
		require.NoError(t, repo.Create(ctx, req))
		ids = append(ids, req.ID)
	}
	orphan := &model.AccessRequest{UserID: uuid.New(), LibraryID: uuid.New()}
	require.NoError(t, repo.Create(ctx, orphan))
	ids = append(ids, orphan.ID)

	// Plus one id that matches no request at all.
	ids = append(ids, uuid.New())

	res, err := svc.BulkApprove(ctx, reviewer, dto.BulkReviewRequest{IDs: ids})
	require.NoError(t, err)

	// The missing request is skipped; the orphaned library only costs the
	// notification, not the mutation.
	assert.Equal(t, 3, res.Processed)
	assert.Len(t, audit.entries, 3)
	assert.Len(t, rec.created, 2)
	for _, entry := range audit.entries {
		assert.Equal(t, "access_approved", entry)
	}

	saved, err := repo.FindByID(ctx, orphan.ID)
	require.NoError(t, err)
	assert.True(t, saved.IsActive)
	require.NotNil(t, saved.ReviewedBy)
	assert.Equal(t, reviewer, *saved.ReviewedBy)
	assert.NotNil(t, saved.ReviewedAt)
}

func TestBulkRejectAppendsNotes(t *testing.T) {
	svc, repo, libs, audit, rec := newAccessFixture(t)
	ctx := context.Background()
	reviewer := uuid.New()

	library := &model.Library{Name: "Main Library"}
	require.NoError(t, libs.Create(ctx, library))

	req := &model.AccessRequest{
		UserID:    uuid.New(),
		LibraryID: library.ID,
		Notes:     "submitted from kiosk",
	}
	require.NoError(t, repo.Create(ctx, req))

	res, err := svc.BulkReject(ctx, reviewer, dto.BulkReviewRequest{
		IDs:    []uuid.UUID{req.ID},
		Reason: "membership expired",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)

	saved, err := repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.False(t, saved.IsActive)
	assert.Contains(t, saved.Notes, "submitted from kiosk")
	assert.Contains(t, saved.Notes, "membership expired")
	assert.Contains(t, saved.Notes, "Rejected by "+reviewer.String())

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "access_rejected", audit.entries[0])

	require.Len(t, rec.created, 1)
	assert.Equal(t, "Library Access Rejected", rec.created[0].Title)
	assert.Equal(t, req.UserID, rec.created[0].UserID)
}

func TestRequestRejectsUnknownLibrary(t *testing.T) {
	svc, _, _, _, _ := newAccessFixture(t)

	_, err := svc.Request(context.Background(), uuid.New(), dto.CreateAccessRequest{
		LibraryID: uuid.New(),
	})
	assert.Error(t, err)
}
