package model

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BooksPerShelf is the fixed page size of every book listing.
const BooksPerShelf = 8

type Book struct {
	ID     int    `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
	Rating int    `json:"rating" db:"rating"`
}

// NewBook builds an unsaved book; the store assigns ID on insert.
func NewBook(title, author string, rating int) Book {
	return Book{
		Title:  title,
		Author: author,
		Rating: rating,
	}
}

// BookPage is one page of an ordered selection plus the size of the whole selection.
type BookPage struct {
	Books []Book
	Total int
}

// BooksRequest is the body of POST /books. A present title selects creation,
// otherwise search is required.
type BooksRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Rating *int    `json:"rating"`
	Search *string `json:"search"`

	hasTitle bool
}

// UnmarshalJSON records whether the title key was sent, even as null.
func (r *BooksRequest) UnmarshalJSON(data []byte) error {
	type plain BooksRequest
	var keys map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	_, r.hasTitle = keys["title"]
	return nil
}

func (r BooksRequest) IsCreate() bool {
	return r.hasTitle || r.Title != nil
}

func (r BooksRequest) CreateRequest() CreateBookRequest {
	return CreateBookRequest{
		Title:  r.Title,
		Author: r.Author,
		Rating: r.Rating,
	}
}

type CreateBookRequest struct {
	Title  *string `json:"title" validate:"required"`
	Author *string `json:"author" validate:"required"`
	Rating *int    `json:"rating" validate:"required"`
}

// Book must only be called after validation.
func (r CreateBookRequest) Book() Book {
	return NewBook(*r.Title, *r.Author, *r.Rating)
}

type UpdateBookRequest struct {
	Rating *int `json:"rating" validate:"required"`
}

type ListBooksResponse struct {
	Success    bool   `json:"success"`
	Books      []Book `json:"books"`
	TotalBooks int    `json:"total_books"`
}

type CreateBookResponse struct {
	Success    bool   `json:"success"`
	Created    int    `json:"created"`
	Books      []Book `json:"books"`
	TotalBooks int    `json:"total_books"`
}

type UpdateBookResponse struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}

type DeleteBookResponse struct {
	Success    bool   `json:"success"`
	Deleted    int    `json:"deleted"`
	Books      []Book `json:"books"`
	TotalBooks int    `json:"total_books"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}
