package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hospos/hospos-client/internal/core/ports"
)

// Resource is a REST collection at path (e.g. /api/products).
type Resource[T any] struct {
	c    *Client
	path string
}

func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

var _ ports.Collection[struct{}] = (*Resource[struct{}])(nil)

func (r *Resource[T]) List(ctx context.Context, q ports.ListQuery) (ports.ListResult[T], error) {
	path := r.path
	if q.Search != "" {
		path += "?" + url.Values{"q": {q.Search}}.Encode()
	}
	data, err := r.c.call(ctx, http.MethodGet, path, r.path, nil)
	if err != nil {
		return ports.ListResult[T]{}, err
	}
	return DecodeList[T](data), nil
}

// Get fetches one item. A missing item is a status failure wrapping
// domain.ErrNotFound.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.c.do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), r.path+"/:id", nil, &item)
	return item, err
}

func (r *Resource[T]) Create(ctx context.Context, item T) error {
	return r.c.do(ctx, http.MethodPost, r.path, r.path, item, nil)
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), r.path+"/:id", nil, nil)
}
