package service

import (
	"context"
	"time"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/errs"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/queue"
	bookRepo "github.com/Astemirdum/bookshelf-service/bookshelf/internal/repository"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/Astemirdum/bookshelf-service/pkg/pagination"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	repo  bookRepo.Repository
	queue queue.Enqueuer
	now   func() time.Time
}

func NewService(repo bookRepo.Repository, q queue.Enqueuer, log *zap.Logger) *Service {
	return &Service{
		log:   log.Named("service"),
		repo:  repo,
		queue: q,
		now:   time.Now,
	}
}

// ListBooks returns one page of the whole shelf ordered by id.
// An empty page is ErrNotFound unless the shelf itself is empty and page is the first one.
func (s *Service) ListBooks(ctx context.Context, page int) (model.BookPage, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return model.BookPage{}, errors.Wrap(err, "list books")
	}
	res := shelfPage(books, page)
	if len(res.Books) == 0 && !(res.Total == 0 && page == pagination.DefaultPage) {
		return model.BookPage{}, errs.ErrNotFound
	}
	return res, nil
}

// SearchBooks pages through books whose title contains term, ignoring case.
// An empty page is not an error.
func (s *Service) SearchBooks(ctx context.Context, term string, page int) (model.BookPage, error) {
	books, err := s.repo.SearchBooks(ctx, term)
	if err != nil {
		return model.BookPage{}, errors.Wrap(err, "search books")
	}
	return shelfPage(books, page), nil
}

// CreateBook stores book and returns it with its id together with the
// requested page of the updated shelf.
func (s *Service) CreateBook(ctx context.Context, book model.Book, page int) (model.Book, model.BookPage, error) {
	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return model.Book{}, model.BookPage{}, errors.Wrap(err, "create book")
	}
	s.publish(kafka.EventBookCreated, created)

	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return model.Book{}, model.BookPage{}, errors.Wrap(err, "list books")
	}
	return created, shelfPage(books, page), nil
}

// UpdateRating sets the rating of an existing book. A missing book is reported
// before a missing rating.
func (s *Service) UpdateRating(ctx context.Context, id int, rating *int) (model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, errors.Wrapf(err, "get book %d", id)
	}
	if rating == nil {
		return model.Book{}, errors.Wrap(errs.ErrBadRequest, "rating is required")
	}
	book.Rating = *rating
	if err = s.repo.UpdateBook(ctx, book); err != nil {
		return model.Book{}, errors.Wrapf(err, "update book %d", id)
	}
	s.publish(kafka.EventBookUpdated, book)
	return book, nil
}

// DeleteBook removes the book and returns the requested page of what is left.
func (s *Service) DeleteBook(ctx context.Context, id, page int) (model.BookPage, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.BookPage{}, errors.Wrapf(err, "get book %d", id)
	}
	if err = s.repo.DeleteBook(ctx, id); err != nil {
		return model.BookPage{}, errors.Wrapf(err, "delete book %d", id)
	}
	s.publish(kafka.EventBookDeleted, book)

	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return model.BookPage{}, errors.Wrap(err, "list books")
	}
	return shelfPage(books, page), nil
}

func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) publish(typ kafka.EventType, book model.Book) {
	event := kafka.EventBook{
		Type:      typ,
		BookID:    book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Rating:    book.Rating,
		Timestamp: s.now().UTC(),
	}
	if err := s.queue.Enqueue(event); err != nil {
		s.log.Warn("publish book event", zap.Error(err))
	}
}

func shelfPage(books []model.Book, page int) model.BookPage {
	return model.BookPage{
		Books: pagination.Paginate(books, page, model.BooksPerShelf),
		Total: len(books),
	}
}
