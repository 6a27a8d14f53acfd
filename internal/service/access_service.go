package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/repository"
	"smartlib.id/backend/pkg/apperror"
)

type AccessService interface {
	CreateLibrary(ctx context.Context, req dto.CreateLibraryRequest) (*model.Library, error)
	ListLibraries(ctx context.Context) ([]model.Library, error)
	Request(ctx context.Context, userID uuid.UUID, req dto.CreateAccessRequest) (*model.AccessRequest, error)
	ListMyRequests(ctx context.Context, userID uuid.UUID) ([]model.AccessRequest, error)
	ListPending(ctx context.Context) ([]model.AccessRequest, error)
	BulkApprove(ctx context.Context, reviewerID uuid.UUID, req dto.BulkReviewRequest) (*dto.BulkReviewResponse, error)
	BulkReject(ctx context.Context, reviewerID uuid.UUID, req dto.BulkReviewRequest) (*dto.BulkReviewResponse, error)
}

type accessService struct {
	repo       repository.AccessRequestRepository
	libraries  repository.LibraryRepository
	dispatcher *NotificationDispatcher
	audit      AuditService
	logger     *zap.Logger
}

func NewAccessService(repo repository.AccessRequestRepository, libraries repository.LibraryRepository, dispatcher *NotificationDispatcher, audit AuditService, logger *zap.Logger) AccessService {
	return &accessService{
		repo:       repo,
		libraries:  libraries,
		dispatcher: dispatcher,
		audit:      audit,
		logger:     logger,
	}
}

func (s *accessService) CreateLibrary(ctx context.Context, req dto.CreateLibraryRequest) (*model.Library, error) {
	library := &model.Library{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.libraries.Create(ctx, library); err != nil {
		return nil, err
	}
	return library, nil
}

func (s *accessService) ListLibraries(ctx context.Context) ([]model.Library, error) {
	return s.libraries.FindAll(ctx)
}

func (s *accessService) Request(ctx context.Context, userID uuid.UUID, req dto.CreateAccessRequest) (*model.AccessRequest, error) {
	if _, err := s.libraries.FindByID(ctx, req.LibraryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "library not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	request := &model.AccessRequest{
		UserID:    userID,
		LibraryID: req.LibraryID,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *accessService) ListMyRequests(ctx context.Context, userID uuid.UUID) ([]model.AccessRequest, error) {
	return s.repo.FindByOwner(ctx, userID)
}

func (s *accessService) ListPending(ctx context.Context) ([]model.AccessRequest, error) {
	return s.repo.FindPending(ctx)
}

func (s *accessService) BulkApprove(ctx context.Context, reviewerID uuid.UUID, req dto.BulkReviewRequest) (*dto.BulkReviewResponse, error) {
	return s.bulkReview(ctx, reviewerID, req, true)
}

func (s *accessService) BulkReject(ctx context.Context, reviewerID uuid.UUID, req dto.BulkReviewRequest) (*dto.BulkReviewResponse, error) {
	return s.bulkReview(ctx, reviewerID, req, false)
}

// bulkReview processes each record independently. A failure on one record
// never aborts the batch, and a failed notification or audit write never
// undoes the grant mutation itself. Processed counts successful mutations.
func (s *accessService) bulkReview(ctx context.Context, reviewerID uuid.UUID, req dto.BulkReviewRequest, approved bool) (*dto.BulkReviewResponse, error) {
	processed := 0

	for _, id := range req.IDs {
		request, err := s.repo.FindByID(ctx, id)
		if err != nil {
			s.logger.Warn("bulk review skipped missing request",
				zap.String("request_id", id.String()), zap.Error(err))
			continue
		}

		now := time.Now()
		request.IsActive = approved
		request.ReviewedBy = &reviewerID
		request.ReviewedAt = &now
		if !approved && req.Reason != "" {
			note := fmt.Sprintf("[%s] Rejected by %s: %s",
				now.Format(time.RFC3339), reviewerID, req.Reason)
			if request.Notes != "" {
				request.Notes += "\n"
			}
			request.Notes += note
		}

		if err := s.repo.Save(ctx, request); err != nil {
			s.logger.Error("bulk review failed to save request",
				zap.String("request_id", id.String()), zap.Error(err))
			continue
		}
		processed++

		activityType := "access_rejected"
		verb := "rejected"
		status := "REJECTED"
		if approved {
			activityType = "access_approved"
			verb = "approved"
			status = "APPROVED"
		}
		if err := s.audit.Record(ctx, reviewerID, activityType,
			fmt.Sprintf("Access request %s %s", request.ID, verb),
			AccessGrantRef{
				RequestID: request.ID,
				LibraryID: request.LibraryID,
				Status:    status,
			}); err != nil {
			s.logger.Error("failed to record audit entry",
				zap.String("request_id", request.ID.String()), zap.Error(err))
		}

		library, err := s.libraries.FindByID(ctx, request.LibraryID)
		if err != nil {
			// The grant stands; the member just gets no notification.
			s.logger.Warn("skipping notification for request with missing library",
				zap.String("request_id", request.ID.String()),
				zap.String("library_id", request.LibraryID.String()))
			continue
		}

		if err := s.dispatcher.AccessReviewed(ctx, request, library, approved); err != nil {
			s.logger.Error("failed to notify reviewed access request",
				zap.String("request_id", request.ID.String()), zap.Error(err))
		}
	}

	return &dto.BulkReviewResponse{Processed: processed}, nil
}
