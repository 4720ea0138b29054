package loader

import (
	"context"
	"fmt"
	"io/fs"

	apierrors "github.com/diogo/startychat/internal/errors"
	"github.com/diogo/startychat/internal/models"
	"github.com/diogo/startychat/web"
)

// Source fetches the markup of a named component.
type Source interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// FragmentFetcher is the part of the api client an HTTPSource needs.
type FragmentFetcher interface {
	FetchFragment(ctx context.Context, name string) (string, error)
	ComponentsURL() string
}

// HTTPSource fetches components from the configured components server.
type HTTPSource struct {
	Client FragmentFetcher
}

// Fetch implements Source.
func (s HTTPSource) Fetch(ctx context.Context, name string) (string, error) {
	return s.Client.FetchFragment(ctx, name)
}

// String names the components server.
func (s HTTPSource) String() string {
	return s.Client.ComponentsURL()
}

// EmbedSource reads components/<name>.html from a file system.
type EmbedSource struct {
	FS fs.FS
}

// Fetch implements Source.
func (s EmbedSource) Fetch(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(s.FS, fmt.Sprintf(models.ComponentPathFormat, name))
	if err != nil {
		return "", apierrors.NewFragmentError(name, 0, err)
	}
	return string(data), nil
}

// String implements fmt.Stringer.
func (s EmbedSource) String() string {
	return "bundled"
}

// NewSource picks the components server when one is configured and the
// bundled components otherwise.
func NewSource(client FragmentFetcher) Source {
	if client != nil && client.ComponentsURL() != "" {
		return HTTPSource{Client: client}
	}
	return EmbedSource{FS: web.Files()}
}
