package proxy

import (
	"context"
	"github.com/denismitr/imageserver/internal/media"
	"github.com/denismitr/imageserver/internal/registry"
	"github.com/denismitr/imageserver/internal/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Target is a validated request ready to be opened
type Target struct {
	Identifier *media.Identifier
	Location   media.Location
}

func (t *Target) ContentType() string {
	return t.Identifier.Extension().Mime()
}

type ImageProxy interface {
	// Prepare validates the raw filename and locates the file. It never touches storage.
	Prepare(filename string, variant media.Variant) (*Target, error)
	// Open opens the located file for streaming, the caller closes the body
	Open(ctx context.Context, target *Target) (*storage.Object, error)
}

// missingImageError carries the registry verdict about a file that was not found
type missingImageError struct {
	cause  error
	status registry.Status
}

func (e *missingImageError) Error() string {
	return e.cause.Error()
}

func (e *missingImageError) Unwrap() error {
	return e.cause
}

type ShardedImageProxy struct {
	storage  storage.Storage
	registry registry.Registry
	scheme   media.ShardScheme
	logger   *logrus.Logger
}

func NewShardedImageProxy(
	l *logrus.Logger,
	s storage.Storage,
	r registry.Registry,
	scheme media.ShardScheme,
) *ShardedImageProxy {
	if r == nil {
		r = registry.Nop{}
	}

	return &ShardedImageProxy{
		storage:  s,
		registry: r,
		scheme:   scheme,
		logger:   l,
	}
}

func (p *ShardedImageProxy) Prepare(filename string, variant media.Variant) (*Target, error) {
	id, err := media.ParseFilename(filename)
	if err != nil {
		return nil, err
	}

	loc, err := media.Locate(id, variant, p.scheme)
	if err != nil {
		return nil, err
	}

	return &Target{Identifier: id, Location: loc}, nil
}

func (p *ShardedImageProxy) Open(ctx context.Context, target *Target) (*storage.Object, error) {
	obj, err := p.storage.Open(ctx, target.Location.Key())
	if err == nil {
		return obj, nil
	}

	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	status, rErr := p.registry.Classify(ctx, target.Identifier.ID().String())
	if rErr != nil {
		p.logger.WithError(rErr).WithField("image_id", target.Identifier.ID().String()).
			Errorln("could not classify missing image")
		status = registry.Unknown
	}

	return nil, &missingImageError{cause: err, status: status}
}
