package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin/binding"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// storeErr turns store sentinels into typed errors naming what was missing
// or duplicated. Anything else is wrapped with op and surfaces as a 500.
func storeErr(err error, op, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return response.NewNotFound(what + " not found")
	case errors.Is(err, store.ErrConflict):
		return response.NewConflict(what + " already exists")
	}
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validate runs the binding tags of in, the same rules ShouldBindJSON
// enforces in the handlers, after the caller has trimmed its input.
func validate(in interface{}) error {
	if err := binding.Validator.ValidateStruct(in); err != nil {
		return response.BindError(err)
	}
	return nil
}

// normalizePage clamps page and pageSize to sane bounds.
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// trimPtr trims *p in place when p is set.
func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

// cleanList trims entries, drops blanks and duplicates, keeping order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// '!' rather than backslash, which mysql treats as a string escape.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern builds a LIKE pattern matching s literally anywhere. Use it
// with "LIKE ? ESCAPE '!'".
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
