package handler

import (
	"net/http"

	_ "github.com/Astemirdum/bookshelf-service/bookshelf/swagger"
	md "github.com/Astemirdum/bookshelf-service/pkg/middleware"
	"github.com/Astemirdum/bookshelf-service/pkg/serializer"
	"github.com/Astemirdum/bookshelf-service/pkg/validate"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseRPS rate.Limit = 10
	defaultAPIRPS  rate.Limit = 100
)

type Handler struct {
	bookSvc BookService
	log     *zap.Logger
	baseRPS rate.Limit
	apiRPS  rate.Limit
}

type Option func(*Handler)

// WithRateLimits sets per client request rates for the management and book routes.
// A non-positive rate turns the limiter off.
func WithRateLimits(baseRPS, apiRPS rate.Limit) Option {
	return func(h *Handler) {
		h.baseRPS = baseRPS
		h.apiRPS = apiRPS
	}
}

func New(bookSvc BookService, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		bookSvc: bookSvc,
		log:     log,
		baseRPS: defaultBaseRPS,
		apiRPS:  defaultAPIRPS,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// corsHeaders go out on every response, preflight or not.
var corsHeaders = http.Header{
	echo.HeaderAccessControlAllowHeaders: []string{"Content-Type,Authorization,true"},
	echo.HeaderAccessControlAllowMethods: []string{"GET,PUT,POST,DELETE,OPTIONS"},
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = serializer.JSONSerializer{}
	e.Validator = validate.NewCustomValidator()
	e.HTTPErrorHandler = h.ErrorHandler

	e.Use(md.ResponseHeaders(corsHeaders))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	// route level middleware: a root prefix group registers a catch-all 404 route that masks 405
	base := rateLimit(nil, h.baseRPS)
	e.GET("/manage/health", h.Health, base...)
	e.GET("/manage/ready", h.Ready, base...)
	e.GET("/swagger/*", echoSwagger.WrapHandler, base...)

	api := rateLimit([]echo.MiddlewareFunc{
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator: uuid.NewString,
		}),
	}, h.apiRPS)
	e.GET("/books", h.ListBooks, api...)
	e.POST("/books", h.PostBooks, api...)
	e.PATCH("/books/:id", h.UpdateBook, api...)
	e.DELETE("/books/:id", h.DeleteBook, api...)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Ready reports whether the book store answers.
func (h *Handler) Ready(c echo.Context) error {
	if err := h.bookSvc.Ready(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.String(http.StatusOK, "OK")
}

func rateLimit(chain []echo.MiddlewareFunc, rps rate.Limit) []echo.MiddlewareFunc {
	if rps <= 0 {
		return chain
	}
	return append(chain, md.NewRateLimiter(rps))
}
