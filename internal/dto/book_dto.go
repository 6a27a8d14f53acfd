package dto

import "github.com/google/uuid"

type CreateBookRequest struct {
	Title         string `json:"title" binding:"required,max=255"`
	Author        string `json:"author" binding:"required,max=255"`
	ISBN          string `json:"isbn" binding:"required,max=20"`
	Publisher     string `json:"publisher" binding:"omitempty,max=255"`
	PublishedYear int    `json:"published_year"`
	TotalCopies   int    `json:"total_copies" binding:"required,min=1"`
}

type UpdateBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=255"`
	Author        *string `json:"author" binding:"omitempty,max=255"`
	Publisher     *string `json:"publisher" binding:"omitempty,max=255"`
	PublishedYear *int    `json:"published_year"`
	TotalCopies   *int    `json:"total_copies" binding:"omitempty,min=1"`
}

type CreateReservationRequest struct {
	BookID uuid.UUID `json:"book_id" binding:"required"`
}

type BookSearchResult struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}
