package handler

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// FieldError is one rejected field of a request body.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// fields collects validation problems of one payload.
type fields []FieldError

func (f *fields) required(name, v string) {
	if strings.TrimSpace(v) == "" {
		*f = append(*f, FieldError{name, "required"})
	}
}

func (f *fields) maxLen(name, v string, n int) {
	if utf8.RuneCountInString(v) > n {
		*f = append(*f, FieldError{name, fmt.Sprintf("max length %d", n)})
	}
}

func (f *fields) check(ok bool, name, msg string) {
	if !ok {
		*f = append(*f, FieldError{name, msg})
	}
}

// reject writes a 400 listing every failed field, or returns false when
// there is nothing to report.
func (f fields) reject(c echo.Context) (bool, error) {
	if len(f) == 0 {
		return false, nil
	}
	return true, c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": []FieldError(f)})
}
