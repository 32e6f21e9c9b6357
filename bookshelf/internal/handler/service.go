package handler

import (
	"context"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	ListBooks(ctx context.Context, page int) (model.BookPage, error)
	SearchBooks(ctx context.Context, term string, page int) (model.BookPage, error)
	CreateBook(ctx context.Context, book model.Book, page int) (model.Book, model.BookPage, error)
	UpdateRating(ctx context.Context, id int, rating *int) (model.Book, error)
	DeleteBook(ctx context.Context, id, page int) (model.BookPage, error)
	Ready(ctx context.Context) error
}

var _ BookService = (*service.Service)(nil)
