// Package media turns stored slip and campaign image refs into URLs that a
// client can fetch. Objects themselves live in an external store.
package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Resolver maps a stored ref to a fetchable URL. An empty ref resolves to "".
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// BaseURL joins refs onto a public base such as a CDN origin. Refs that are
// already absolute URLs are returned unchanged.
type BaseURL struct {
	base *url.URL
}

func NewBaseURL(raw string) (*BaseURL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing media base url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing media base url: %q is not absolute", raw)
	}

	return &BaseURL{base: u}, nil
}

func (b *BaseURL) Resolve(_ context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	if isAbsolute(ref) {
		return ref, nil
	}

	return b.base.JoinPath(strings.TrimPrefix(ref, "/")).String(), nil
}

// Passthrough returns refs as they are.
type Passthrough struct{}

func (Passthrough) Resolve(_ context.Context, ref string) (string, error) {
	return strings.TrimSpace(ref), nil
}

func isAbsolute(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.Scheme != "" && u.Host != ""
}
