package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/errs"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/handler"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/queue"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/bookshelf-service/bookshelf/internal/handler/mocks"
	repo_mocks "github.com/Astemirdum/bookshelf-service/bookshelf/internal/repository/mocks"
)

const (
	allowHeaders = "Content-Type,Authorization,true"
	allowMethods = "GET,PUT,POST,DELETE,OPTIONS"

	notFoundBody    = `{"success":false,"error":404,"message":"Not found"}`
	badRequestBody  = `{"success":false,"error":400,"message":"Bad request"}`
	unprocessedBody = `{"success":false,"error":422,"message":"Unprocessable entity"}`
)

var (
	anansi  = model.Book{ID: 1, Title: "Anansi Boys", Author: "Neil Gaiman", Rating: 5}
	anansiJ = `{"id":1,"title":"Anansi Boys","author":"Neil Gaiman","rating":5}`
	nan     = model.Book{ID: 4, Title: "NAN", Author: "Unknown", Rating: 2}
	nanJ    = `{"id":4,"title":"NAN","author":"Unknown","rating":2}`
)

func ptr[T any](v T) *T { return &v }

type request struct {
	method string
	target string
	body   string
}

type response struct {
	expectedCode int
	expectedBody string
}

type mockBehavior func(r *service_mocks.MockBookService)

type testCase struct {
	name         string
	mockBehavior mockBehavior
	request      request
	response     response
}

func runCases(t *testing.T, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)
			e := h.NewRouter()

			var body io.Reader = http.NoBody
			if tt.request.body != "" {
				body = strings.NewReader(tt.request.body)
			}
			r := httptest.NewRequest(tt.request.method, tt.request.target, body)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			require.Contains(t, w.Header().Values(echo.HeaderAccessControlAllowHeaders), allowHeaders)
			require.Contains(t, w.Header().Values(echo.HeaderAccessControlAllowMethods), allowMethods)
		})
	}
}

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	runCases(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().ListBooks(gomock.Any(), 1).
					Return(model.BookPage{Books: []model.Book{anansi, nan}, Total: 10}, nil)
			},
			request: request{method: http.MethodGet, target: "/books"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"books":[` + anansiJ + `,` + nanJ + `],"total_books":10}`,
			},
		},
		{
			name: "ok. explicit page",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().ListBooks(gomock.Any(), 2).
					Return(model.BookPage{Books: []model.Book{nan}, Total: 9}, nil)
			},
			request: request{method: http.MethodGet, target: "/books?page=2"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"books":[` + nanJ + `],"total_books":9}`,
			},
		},
		{
			name: "ok. empty shelf",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().ListBooks(gomock.Any(), 1).
					Return(model.BookPage{Books: []model.Book{}, Total: 0}, nil)
			},
			request: request{method: http.MethodGet, target: "/books?page=1"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"books":[],"total_books":0}`,
			},
		},
		{
			name: "err. page out of range",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().ListBooks(gomock.Any(), 1000).Return(model.BookPage{}, errs.ErrNotFound)
			},
			request:  request{method: http.MethodGet, target: "/books?page=1000"},
			response: response{expectedCode: http.StatusNotFound, expectedBody: notFoundBody},
		},
		{
			name: "err. huge page",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().ListBooks(gomock.Any(), 2305843009213693953).Return(model.BookPage{}, errs.ErrNotFound)
			},
			request:  request{method: http.MethodGet, target: "/books?page=2305843009213693953"},
			response: response{expectedCode: http.StatusNotFound, expectedBody: notFoundBody},
		},
		{
			name:         "err. page not a number",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodGet, target: "/books?page=abc"},
			response:     response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
		{
			name:         "err. page zero",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodGet, target: "/books?page=0"},
			response:     response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
		{
			name: "err. store unavailable",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().ListBooks(gomock.Any(), 1).
					Return(model.BookPage{}, errors.Wrap(&errs.PersistenceError{Op: "ListBooks", Kind: errs.ErrUnavailable, Err: errors.New("dial tcp")}, "list books"))
			},
			request: request{method: http.MethodGet, target: "/books"},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"success":false,"error":503,"message":"Service unavailable"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().ListBooks(gomock.Any(), 1).Return(model.BookPage{}, errors.New("db internal"))
			},
			request: request{method: http.MethodGet, target: "/books"},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"success":false,"error":500,"message":"Internal server error"}`,
			},
		},
	})
}

func TestHandler_PostBooks(t *testing.T) {
	t.Parallel()
	neverwhere := model.Book{ID: 11, Title: "Neverwhere", Author: "Neil Gaiman", Rating: 4}

	runCases(t, []testCase{
		{
			name: "ok. create",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().CreateBook(gomock.Any(), model.NewBook("Neverwhere", "Neil Gaiman", 4), 1).
					Return(neverwhere, model.BookPage{Books: []model.Book{anansi}, Total: 11}, nil)
			},
			request: request{
				method: http.MethodPost,
				target: "/books",
				body:   `{"title":"Neverwhere","author":"Neil Gaiman","rating":4}`,
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"created":11,"books":[` + anansiJ + `],"total_books":11}`,
			},
		},
		{
			name: "ok. create with page",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().CreateBook(gomock.Any(), gomock.Any(), 2).
					Return(neverwhere, model.BookPage{Books: []model.Book{}, Total: 11}, nil)
			},
			request: request{
				method: http.MethodPost,
				target: "/books?page=2",
				body:   `{"title":"Neverwhere","author":"Neil Gaiman","rating":4}`,
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"created":11,"books":[],"total_books":11}`,
			},
		},
		{
			name:         "err. create without author",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request: request{
				method: http.MethodPost,
				target: "/books",
				body:   `{"title":"Neverwhere","rating":4}`,
			},
			response: response{expectedCode: http.StatusUnprocessableEntity, expectedBody: unprocessedBody},
		},
		{
			name: "err. create rejected by store",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().CreateBook(gomock.Any(), gomock.Any(), 1).
					Return(model.Book{}, model.BookPage{}, &errs.PersistenceError{Op: "CreateBook", Kind: errs.ErrUnprocessable, Err: errors.New("check")})
			},
			request: request{
				method: http.MethodPost,
				target: "/books",
				body:   `{"title":"Neverwhere","author":"Neil Gaiman","rating":4}`,
			},
			response: response{expectedCode: http.StatusUnprocessableEntity, expectedBody: unprocessedBody},
		},
		{
			name:         "err. null title with search",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodPost, target: "/books", body: `{"title":null,"search":"nan"}`},
			response:     response{expectedCode: http.StatusUnprocessableEntity, expectedBody: unprocessedBody},
		},
		{
			name: "ok. search",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().SearchBooks(gomock.Any(), "nan", 1).
					Return(model.BookPage{Books: []model.Book{anansi, nan}, Total: 2}, nil)
			},
			request: request{method: http.MethodPost, target: "/books", body: `{"search":"nan"}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"books":[` + anansiJ + `,` + nanJ + `],"total_books":2}`,
			},
		},
		{
			name: "ok. search empty page",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().SearchBooks(gomock.Any(), "nan", 5).
					Return(model.BookPage{Books: []model.Book{}, Total: 2}, nil)
			},
			request: request{method: http.MethodPost, target: "/books?page=5", body: `{"search":"nan"}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"books":[],"total_books":2}`,
			},
		},
		{
			name:         "err. neither title nor search",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodPost, target: "/books", body: `{"author":"Neil Gaiman"}`},
			response:     response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
		{
			name:         "err. empty body",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodPost, target: "/books"},
			response:     response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
		{
			name:         "err. malformed json",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodPost, target: "/books", body: `{"title":`},
			response:     response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
		{
			name:         "err. rating not a number",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request: request{
				method: http.MethodPost,
				target: "/books",
				body:   `{"title":"Neverwhere","author":"Neil Gaiman","rating":"four"}`,
			},
			response: response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
	})
}

func TestHandler_UpdateBook(t *testing.T) {
	t.Parallel()
	runCases(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().UpdateRating(gomock.Any(), 5, ptr(1)).
					Return(model.Book{ID: 5, Title: "Stardust", Author: "Neil Gaiman", Rating: 1}, nil)
			},
			request: request{method: http.MethodPatch, target: "/books/5", body: `{"rating":1}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"updated":5}`,
			},
		},
		{
			name: "err. rating missing",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().UpdateRating(gomock.Any(), 5, gomock.Nil()).
					Return(model.Book{}, errors.Wrap(errs.ErrBadRequest, "rating is required"))
			},
			request:  request{method: http.MethodPatch, target: "/books/5", body: `{"title":"x"}`},
			response: response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
		{
			name: "err. no body",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().UpdateRating(gomock.Any(), 5, gomock.Nil()).
					Return(model.Book{}, errors.Wrap(errs.ErrBadRequest, "rating is required"))
			},
			request:  request{method: http.MethodPatch, target: "/books/5"},
			response: response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
		{
			name: "err. missing book wins over missing rating",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().UpdateRating(gomock.Any(), 1000, gomock.Nil()).
					Return(model.Book{}, errors.Wrap(errs.ErrNotFound, "get book 1000"))
			},
			request:  request{method: http.MethodPatch, target: "/books/1000", body: `{}`},
			response: response{expectedCode: http.StatusNotFound, expectedBody: notFoundBody},
		},
		{
			name:         "err. malformed body",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodPatch, target: "/books/5", body: `{"rating":`},
			response:     response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
		{
			name: "err. book not found",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().UpdateRating(gomock.Any(), 1000, ptr(3)).
					Return(model.Book{}, errors.Wrap(errs.ErrNotFound, "get book 1000"))
			},
			request:  request{method: http.MethodPatch, target: "/books/1000", body: `{"rating":3}`},
			response: response{expectedCode: http.StatusNotFound, expectedBody: notFoundBody},
		},
		{
			name:         "err. id not a number",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodPatch, target: "/books/abc", body: `{"rating":3}`},
			response:     response{expectedCode: http.StatusNotFound, expectedBody: notFoundBody},
		},
	})
}

func TestHandler_DeleteBook(t *testing.T) {
	t.Parallel()
	runCases(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().DeleteBook(gomock.Any(), 2, 1).
					Return(model.BookPage{Books: []model.Book{anansi, nan}, Total: 2}, nil)
			},
			request: request{method: http.MethodDelete, target: "/books/2"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"deleted":2,"books":[` + anansiJ + `,` + nanJ + `],"total_books":2}`,
			},
		},
		{
			name: "err. already deleted",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().DeleteBook(gomock.Any(), 1000, 1).
					Return(model.BookPage{}, errors.Wrap(errs.ErrNotFound, "get book 1000"))
			},
			request:  request{method: http.MethodDelete, target: "/books/1000"},
			response: response{expectedCode: http.StatusNotFound, expectedBody: notFoundBody},
		},
		{
			name:         "err. bad page",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodDelete, target: "/books/2?page=-1"},
			response:     response{expectedCode: http.StatusBadRequest, expectedBody: badRequestBody},
		},
	})
}

func TestHandler_Routing(t *testing.T) {
	t.Parallel()
	runCases(t, []testCase{
		{
			name:         "unknown route",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodGet, target: "/authors"},
			response:     response{expectedCode: http.StatusNotFound, expectedBody: notFoundBody},
		},
		{
			name:         "method not allowed",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodPut, target: "/books"},
			response: response{
				expectedCode: http.StatusMethodNotAllowed,
				expectedBody: `{"success":false,"error":405,"message":"Method not allowed"}`,
			},
		},
		{
			name:         "health",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			request:      request{method: http.MethodGet, target: "/manage/health"},
			response:     response{expectedCode: http.StatusOK, expectedBody: "OK"},
		},
		{
			name: "ready",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().Ready(gomock.Any()).Return(nil)
			},
			request:  request{method: http.MethodGet, target: "/manage/ready"},
			response: response{expectedCode: http.StatusOK, expectedBody: "OK"},
		},
		{
			name: "not ready",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().Ready(gomock.Any()).
					Return(&errs.PersistenceError{Op: "Ping", Kind: errs.ErrUnavailable, Err: errors.New("refused")})
			},
			request: request{method: http.MethodGet, target: "/manage/ready"},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"success":false,"error":503,"message":"Service unavailable"}`,
			},
		},
	})
}

func TestHandler_ListBooks_PageBeyondShelf(t *testing.T) {
	t.Parallel()
	shelf := make([]model.Book, 0, 10)
	for i := 1; i <= 10; i++ {
		shelf = append(shelf, model.Book{ID: i, Title: "Book", Author: "Author", Rating: 3})
	}

	for _, page := range []string{"3", "1000", "2305843009213693953", "9223372036854775807"} {
		page := page
		t.Run(page, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			repo := repo_mocks.NewMockRepository(c)
			repo.EXPECT().ListBooks(gomock.Any()).Return(shelf, nil)

			log := zap.NewExample().Named("test")
			svc := service.NewService(repo, queue.NewEnqueuer(nil, log), log)
			e := handler.New(svc, log).NewRouter()

			w := httptest.NewRecorder()
			e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books?page="+page, http.NoBody))

			require.Equal(t, http.StatusNotFound, w.Code)
			require.Equal(t, notFoundBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_RateLimits(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockBookService(c)
	svc.EXPECT().ListBooks(gomock.Any(), 1).Return(model.BookPage{Books: []model.Book{anansi}, Total: 1}, nil)

	e := handler.New(svc, zap.NewExample().Named("test"), handler.WithRateLimits(0, 1)).NewRouter()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", http.NoBody))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, `{"success":false,"error":429,"message":"Too many requests"}`, strings.Trim(w.Body.String(), "\n"))

	// management routes are unlimited when their rate is zero
	for i := 0; i < 50; i++ {
		w = httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manage/health", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
	}
}
