package service

import (
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
)

const booksIndex = "books"

// SearchService keeps the catalog index in sync and serves full-text
// queries. Indexing errors are logged but never fail the write path that
// triggered them; the index is a cache of the database, not the truth.
type SearchService interface {
	IndexBook(book *model.Book)
	RemoveBook(id string)
	SearchBooks(query string, limit int) ([]dto.BookSearchResult, error)
}

type searchService struct {
	client meilisearch.ServiceManager
	logger *zap.Logger
}

func NewSearchService(client meilisearch.ServiceManager, logger *zap.Logger) SearchService {
	s := &searchService{
		client: client,
		logger: logger,
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	sortableAttrs := []string{"published_year"}
	if _, err := s.client.Index(booksIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		s.logger.Warn("failed to update books sortable attributes", zap.Error(err))
	}

	searchableAttrs := []string{"title", "author", "isbn", "publisher"}
	if _, err := s.client.Index(booksIndex).UpdateSearchableAttributes(&searchableAttrs); err != nil {
		s.logger.Warn("failed to update books searchable attributes", zap.Error(err))
	}
}

type meiliBookDoc struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	Publisher     string `json:"publisher"`
	PublishedYear int    `json:"published_year"`
}

func (s *searchService) IndexBook(book *model.Book) {
	doc := meiliBookDoc{
		ID:            book.ID.String(),
		Title:         book.Title,
		Author:        book.Author,
		ISBN:          book.ISBN,
		Publisher:     book.Publisher,
		PublishedYear: book.PublishedYear,
	}

	task, err := s.client.Index(booksIndex).AddDocuments([]meiliBookDoc{doc}, strPtr("id"))
	if err != nil {
		s.logger.Error("failed to index book", zap.String("book_id", doc.ID), zap.Error(err))
		return
	}
	s.logger.Debug("indexed book", zap.String("book_id", doc.ID), zap.Int64("task_id", task.TaskUID))
}

func (s *searchService) RemoveBook(id string) {
	if _, err := s.client.Index(booksIndex).DeleteDocument(id); err != nil {
		s.logger.Error("failed to remove book from index", zap.String("book_id", id), zap.Error(err))
	}
}

func (s *searchService) SearchBooks(query string, limit int) ([]dto.BookSearchResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	resp, err := s.client.Index(booksIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	results := make([]dto.BookSearchResult, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		var doc meiliBookDoc
		if err := hit.Decode(&doc); err != nil {
			s.logger.Warn("failed to decode search hit", zap.Error(err))
			continue
		}
		results = append(results, dto.BookSearchResult{
			ID:     doc.ID,
			Title:  doc.Title,
			Author: doc.Author,
			ISBN:   doc.ISBN,
		})
	}
	return results, nil
}

func strPtr(s string) *string {
	return &s
}
