package service

import (
	"strings"

	"go.uber.org/zap"

	"bookstore/internal/apperr"
	"bookstore/internal/domain"
	"bookstore/pkg/utils"
)

type BookService struct {
	books domain.BookRepository
	log   *zap.Logger
}

func NewBookService(books domain.BookRepository, log *zap.Logger) *BookService {
	return &BookService{books: books, log: log}
}

func (s *BookService) List(page, pageSize int, search, sort string) ([]domain.Book, int64, int, int, error) {
	p, size, offset := NormalizePage(page, pageSize)
	books, total, err := s.books.List(offset, size, search, sort)
	if err != nil {
		return nil, 0, 0, 0, apperr.Internal("list books failed", err)
	}
	return books, total, TotalPages(total, size), p, nil
}

func (s *BookService) GetByID(id string) (*domain.Book, error) {
	if !utils.IsValidID(id) {
		return nil, apperr.NotFound("book not found")
	}
	b, err := s.books.FindByID(id)
	if err != nil {
		return nil, apperr.Internal("lookup book failed", err)
	}
	if b == nil {
		return nil, apperr.NotFound("book not found")
	}
	return b, nil
}

type CreateBookInput struct {
	Title       string
	Description string
	Amount      int
	CreatorID   string
}

func (s *BookService) Create(in CreateBookInput) (*domain.Book, error) {
	title := strings.TrimSpace(in.Title)
	dup, err := s.books.FindByTitle(title, "")
	if err != nil {
		return nil, apperr.Internal("lookup book failed", err)
	}
	if dup != nil {
		return nil, apperr.Conflict("book with this title already exists")
	}
	b := &domain.Book{
		ID:          utils.NewID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		CreatedBy:   in.CreatorID,
	}
	if err := s.books.Create(b); err != nil {
		return nil, apperr.Internal("create book failed", err)
	}
	s.log.Info("book created", zap.String("book_id", b.ID), zap.String("title", b.Title))
	return b, nil
}

type UpdateBookInput struct {
	Title       *string
	Description *string
	Amount      *int
}

// Update changes only the supplied fields.
func (s *BookService) Update(id string, in UpdateBookInput) (*domain.Book, error) {
	b, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if !strings.EqualFold(title, b.Title) {
			dup, err := s.books.FindByTitle(title, id)
			if err != nil {
				return nil, apperr.Internal("lookup book failed", err)
			}
			if dup != nil {
				return nil, apperr.Conflict("book with this title already exists")
			}
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Amount != nil {
		fields["amount"] = *in.Amount
	}
	if len(fields) == 0 {
		return b, nil
	}

	rows, err := s.books.Update(id, fields)
	if err != nil {
		return nil, apperr.Internal("update book failed", err)
	}
	if rows == 0 {
		return nil, apperr.NotFound("book not found")
	}
	return s.GetByID(id)
}

func (s *BookService) SoftDelete(id string) error {
	if !utils.IsValidID(id) {
		return apperr.NotFound("book not found")
	}
	rows, err := s.books.SoftDelete(id)
	if err != nil {
		return apperr.Internal("delete book failed", err)
	}
	if rows == 0 {
		return apperr.NotFound("book not found")
	}
	return nil
}

func (s *BookService) MyBooks(creatorID string, page, pageSize int) ([]domain.Book, int64, int, int, error) {
	p, size, offset := NormalizePage(page, pageSize)
	books, total, err := s.books.ListByCreator(creatorID, offset, size)
	if err != nil {
		return nil, 0, 0, 0, apperr.Internal("list books failed", err)
	}
	return books, total, TotalPages(total, size), p, nil
}
