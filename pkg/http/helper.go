package http

import (
	"encoding/json"
	"net/http"
	apperrors "staybook/pkg/errors"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerToken returns the token from the Authorization header, or "" when absent.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

func DecodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}
