package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParseOptionalInt parses an optional integer query parameter.
// Returns (nil, true) when the parameter is absent and (nil, false) after
// responding with 400 when the value is not a valid integer.
func ParseOptionalInt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (*int, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, true
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return nil, false
	}
	return &intValue, true
}
