package service

import (
	"context"

	"github.com/google/uuid"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/repository"
	"smartlib.id/backend/pkg/apperror"
)

// BookService is the librarian-facing catalog surface. Every catalog
// write is mirrored into the search index.
type BookService interface {
	CreateBook(ctx context.Context, req dto.CreateBookRequest) (*model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req dto.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	SearchBooks(query string, limit int) ([]dto.BookSearchResult, error)
}

type bookService struct {
	repo   repository.BookRepository
	search SearchService
}

func NewBookService(repo repository.BookRepository, search SearchService) BookService {
	return &bookService{
		repo:   repo,
		search: search,
	}
}

func (s *bookService) CreateBook(ctx context.Context, req dto.CreateBookRequest) (*model.Book, error) {
	book := &model.Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Publisher:       req.Publisher,
		PublishedYear:   req.PublishedYear,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	s.search.IndexBook(book)
	return book, nil
}

func (s *bookService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return book, nil
}

func (s *bookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.FindAll(ctx)
}

func (s *bookService) UpdateBook(ctx context.Context, id uuid.UUID, req dto.UpdateBookRequest) (*model.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PublishedYear != nil {
		book.PublishedYear = *req.PublishedYear
	}
	if req.TotalCopies != nil {
		// Shrinking the total below the number of copies currently out
		// would make available go negative.
		out := book.TotalCopies - book.AvailableCopies
		if *req.TotalCopies < out {
			return nil, apperror.New(409, "total copies cannot be lower than copies on loan", apperror.ErrConflict)
		}
		book.AvailableCopies += *req.TotalCopies - book.TotalCopies
		book.TotalCopies = *req.TotalCopies
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return nil, err
	}

	s.search.IndexBook(book)
	return book, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.search.RemoveBook(id.String())
	return nil
}

func (s *bookService) SearchBooks(query string, limit int) ([]dto.BookSearchResult, error) {
	return s.search.SearchBooks(query, limit)
}
