// Package pagination slices already ordered result sets into fixed-size pages.
package pagination

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const DefaultPage = 1

var ErrInvalidPage = errors.New("page is invalid")

// ParsePage reads a 1-based page number. Empty input means DefaultPage.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPage, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, ErrInvalidPage
	}
	return page, nil
}

// Paginate returns items[(page-1)*size : page*size] clamped to len(items).
// Out of range pages yield an empty, non-nil slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	// compare against the page count before multiplying, (page-1)*size may overflow
	pages := (len(items) + size - 1) / size
	if page-1 >= pages {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
