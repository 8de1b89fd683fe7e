package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"SpeedReaderwebserver/internal/domain"
)

// queryInt reads a non-negative integer query parameter. Absent means 0 so
// the store applies its default.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(map[string]string{name: "must be a non-negative integer"})
	}
	return n, nil
}

// queryLimit reads a page size. Absent yields def; an explicit value must be
// at least 1 so a caller never gets more rows than asked for.
func queryLimit(r *http.Request, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domain.NewValidationError(map[string]string{"limit": "must be a positive integer"})
	}
	return n, nil
}
