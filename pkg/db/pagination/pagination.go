// Package pagination implements opaque token pagination for list endpoints.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 200
)

var ErrInvalidPageToken = errors.New("invalid_page_token")

// Pagination carries the page window requested by a caller. It binds directly
// from query parameters.
type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

// Limit clamps the requested page size into [1, MaxPageSize].
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// EncodeToken builds an opaque page token from the last seen row ID.
func EncodeToken(lastID string) string {
	lastID = strings.TrimSpace(lastID)
	if lastID == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte("id:" + lastID))
}

// DecodeToken resolves a page token back into a row ID boundary.
func DecodeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidPageToken
	}
	value, ok := strings.CutPrefix(string(raw), "id:")
	if !ok || strings.TrimSpace(value) == "" {
		return "", ErrInvalidPageToken
	}
	return value, nil
}
