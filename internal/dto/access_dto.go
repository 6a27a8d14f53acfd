package dto

import "github.com/google/uuid"

type CreateAccessRequest struct {
	LibraryID uuid.UUID `json:"library_id" binding:"required"`
}

// BulkReviewRequest is the admin bulk approve/reject payload.
type BulkReviewRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
	Reason string      `json:"reason" binding:"omitempty,max=500"`
}

// Processed counts records whose entity mutation succeeded, independent of
// notification delivery.
type BulkReviewResponse struct {
	Processed int `json:"processed"`
}

type CreateLibraryRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Address string `json:"address"`
}
