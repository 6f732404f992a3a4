package fsstorage

import (
	"context"
	"github.com/denismitr/imageserver/internal/storage"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

var ErrInvalidRoot = errors.New("invalid images root")

// FileStorage serves images from a directory tree under a fixed root.
// The root is set once by New and never changes afterwards.
type FileStorage struct {
	root string
}

func New(root string) (*FileStorage, error) {
	if !filepath.IsAbs(root) {
		return nil, errors.Wrapf(ErrInvalidRoot, "root %q must be an absolute path", root)
	}

	return &FileStorage{root: filepath.Clean(root)}, nil
}

func (fs *FileStorage) Root() string {
	return fs.root
}

// Path resolves a storage key to an absolute path that is always a descendant of the root
func (fs *FileStorage) Path(key string) (string, error) {
	p := filepath.Join(fs.root, filepath.FromSlash(key))

	rel, err := filepath.Rel(fs.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(storage.ErrNotFound, "key %q resolves outside of the images root", key)
	}

	return p, nil
}

// Open opens the file read-only. Only regular files are served.
func (fs *FileStorage) Open(ctx context.Context, key string) (*storage.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := fs.Path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, classifyError(err, key)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, classifyError(err, key)
	}

	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, errors.Wrapf(storage.ErrNotFound, "%s is not a regular file", key)
	}

	return &storage.Object{
		Body:    storage.NewContextReader(ctx, f),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func classifyError(err error, key string) error {
	switch {
	case os.IsNotExist(err), errors.Is(err, syscall.ENOTDIR):
		return errors.Wrapf(storage.ErrNotFound, "%s: %v", key, err)
	case os.IsPermission(err):
		return errors.Wrapf(storage.ErrAccessDenied, "%s: %v", key, err)
	default:
		return errors.Wrapf(storage.ErrIOFailure, "%s: %v", key, err)
	}
}
