package registry

import (
	"context"
	"github.com/pkg/errors"
)

var ErrRegistryReadFailed = errors.New("registry read error")

// Status tells why an image file may be missing from storage
type Status string

const (
	// Unknown means the registry has no record of the image
	Unknown Status = "unknown"
	// Referenced means a live record points to a file that is not there
	Referenced Status = "referenced"
	// Deleted means the record was soft-deleted
	Deleted Status = "deleted"
)

// Registry knows which images the image-management pipeline has created.
// It is consulted only after a file turned out to be missing.
type Registry interface {
	Classify(ctx context.Context, imageID string) (Status, error)
}

// Nop is used when no registry is configured
type Nop struct{}

func (Nop) Classify(context.Context, string) (Status, error) {
	return Unknown, nil
}
