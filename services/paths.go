package services

import (
	"net/url"
	"strings"

	"github.com/unitrack/unitrack/validation"
)

// idPath appends one escaped path segment to base. Empty segments are
// rejected so that "/portfolio/" never turns into a list call.
func idPath(base, field, id string, rest ...string) (string, error) {
	id = strings.TrimSpace(id)
	if err := validation.New().Required(field, id).Err(); err != nil {
		return "", err
	}
	p := base + "/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p, nil
}

func ptr[T any](v T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	return &v, nil
}
