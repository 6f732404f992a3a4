package storage

import (
	"context"
	"github.com/pkg/errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("image not found")
var ErrAccessDenied = errors.New("image access denied")
var ErrIOFailure = errors.New("image read failed")

// Object is an opened image. Body must be closed by the caller on every path.
type Object struct {
	Body io.ReadCloser
	// Size is -1 when the backend does not know it
	Size    int64
	ModTime time.Time
}

// Storage opens images by their slash separated key relative to the images root
type Storage interface {
	Open(ctx context.Context, key string) (*Object, error)
}

type contextReader struct {
	ctx context.Context
	rc  io.ReadCloser
}

// NewContextReader stops reading as soon as ctx is done
func NewContextReader(ctx context.Context, rc io.ReadCloser) io.ReadCloser {
	return &contextReader{ctx: ctx, rc: rc}
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	return r.rc.Read(p)
}

func (r *contextReader) Close() error {
	return r.rc.Close()
}
