package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/errs"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/Astemirdum/bookshelf-service/pkg/pagination"
	"github.com/Astemirdum/bookshelf-service/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ListBooks
// @Summary List books
// @Description One page of books ordered by id, 8 per page
// @Tags books
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} model.ListBooksResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	page, err := pagination.ParsePage(c.QueryParam("page"))
	if err != nil {
		return httpError(err)
	}
	res, err := h.bookSvc.ListBooks(c.Request().Context(), page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.ListBooksResponse{
		Success:    true,
		Books:      res.Books,
		TotalBooks: res.Total,
	})
}

// PostBooks creates a book when the body carries a title and searches by title otherwise.
// @Summary Create or search books
// @Tags books
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param request body model.BooksRequest true "title, author and rating to create; search to look up titles"
// @Success 200 {object} model.CreateBookResponse
// @Success 200 {object} model.ListBooksResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /books [post]
func (h *Handler) PostBooks(c echo.Context) error {
	page, err := pagination.ParsePage(c.QueryParam("page"))
	if err != nil {
		return httpError(err)
	}
	var req model.BooksRequest
	if err = c.Bind(&req); err != nil {
		return httpError(errors.Wrap(errs.ErrBadRequest, err.Error()))
	}

	if req.IsCreate() {
		return h.createBook(c, req.CreateRequest(), page)
	}
	if req.Search == nil {
		return httpError(errors.Wrap(errs.ErrBadRequest, "title or search is required"))
	}
	return h.searchBooks(c, *req.Search, page)
}

func (h *Handler) createBook(c echo.Context, req model.CreateBookRequest, page int) error {
	if err := c.Validate(req); err != nil {
		return httpError(&errs.ValidationError{Fields: validate.Fields(err)})
	}
	created, res, err := h.bookSvc.CreateBook(c.Request().Context(), req.Book(), page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.CreateBookResponse{
		Success:    true,
		Created:    created.ID,
		Books:      res.Books,
		TotalBooks: res.Total,
	})
}

func (h *Handler) searchBooks(c echo.Context, term string, page int) error {
	res, err := h.bookSvc.SearchBooks(c.Request().Context(), term, page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.ListBooksResponse{
		Success:    true,
		Books:      res.Books,
		TotalBooks: res.Total,
	})
}

// UpdateBook
// @Summary Change the rating of a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book id"
// @Param request body model.UpdateBookRequest true "new rating"
// @Success 200 {object} model.UpdateBookResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /books/{id} [patch]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return httpError(err)
	}
	var req model.UpdateBookRequest
	if err = c.Bind(&req); err != nil {
		return httpError(errors.Wrap(errs.ErrBadRequest, err.Error()))
	}

	book, err := h.bookSvc.UpdateRating(c.Request().Context(), id, req.Rating)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.UpdateBookResponse{
		Success: true,
		Updated: book.ID,
	})
}

// DeleteBook
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param id path int true "Book id"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} model.DeleteBookResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return httpError(err)
	}
	page, err := pagination.ParsePage(c.QueryParam("page"))
	if err != nil {
		return httpError(err)
	}
	res, err := h.bookSvc.DeleteBook(c.Request().Context(), id, page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.DeleteBookResponse{
		Success:    true,
		Deleted:    id,
		Books:      res.Books,
		TotalBooks: res.Total,
	})
}

// bookID reads the :id path parameter. Anything but an integer names no book.
func bookID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errors.Wrapf(errs.ErrNotFound, "book %q", c.Param("id"))
	}
	return id, nil
}
