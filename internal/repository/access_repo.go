package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/model"
)

type LibraryRepository interface {
	Create(ctx context.Context, library *model.Library) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Library, error)
	FindAll(ctx context.Context) ([]model.Library, error)
}

type libraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) Create(ctx context.Context, library *model.Library) error {
	return r.db.WithContext(ctx).Create(library).Error
}

func (r *libraryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Library, error) {
	var library model.Library
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&library).Error; err != nil {
		return nil, err
	}
	return &library, nil
}

func (r *libraryRepository) FindAll(ctx context.Context) ([]model.Library, error) {
	var libraries []model.Library
	err := r.db.WithContext(ctx).Order("name asc").Find(&libraries).Error
	return libraries, err
}

type AccessRequestRepository interface {
	Create(ctx context.Context, request *model.AccessRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AccessRequest, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]model.AccessRequest, error)
	FindPending(ctx context.Context) ([]model.AccessRequest, error)
	Save(ctx context.Context, request *model.AccessRequest) error
}

type accessRequestRepository struct {
	db *gorm.DB
}

func NewAccessRequestRepository(db *gorm.DB) AccessRequestRepository {
	return &accessRequestRepository{db: db}
}

func (r *accessRequestRepository) Create(ctx context.Context, request *model.AccessRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *accessRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AccessRequest, error) {
	var request model.AccessRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *accessRequestRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]model.AccessRequest, error) {
	var requests []model.AccessRequest
	err := r.db.WithContext(ctx).
		Preload("Library").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

func (r *accessRequestRepository) FindPending(ctx context.Context) ([]model.AccessRequest, error) {
	var requests []model.AccessRequest
	err := r.db.WithContext(ctx).
		Preload("Library").
		Where("reviewed_at IS NULL").
		Order("created_at asc").
		Find(&requests).Error
	return requests, err
}

func (r *accessRequestRepository) Save(ctx context.Context, request *model.AccessRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}
