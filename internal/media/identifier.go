package media

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"strings"
)

var ErrMalformedFilename = errors.New("malformed image filename")
var ErrInvalidIdentifier = errors.New("image filename is not a valid UUID")

// canonical 8-4-4-4-12 form, uuid.Parse alone also accepts braces, urn prefix and bare hex
const canonicalUUIDLength = 36

// Identifier is a validated image filename: a UUID and an allow-listed extension.
// It can only be obtained from ParseFilename.
type Identifier struct {
	id        uuid.UUID
	extension Extension
	raw       string
}

func (i *Identifier) ID() uuid.UUID {
	return i.id
}

func (i *Identifier) Extension() Extension {
	return i.extension
}

// Raw is the filename exactly as it was requested
func (i *Identifier) Raw() string {
	return i.raw
}

// Filename is the on-disk name: lowercase canonical UUID and extension
func (i *Identifier) Filename() string {
	return i.id.String() + "." + i.extension.String()
}

// ParseFilename turns an untrusted filename parameter into an Identifier.
// The trailing extension is advisory and replaced by DefaultExtension when not allowed,
// a second extension fails with ErrMalformedFilename and anything but a canonical UUID
// left after stripping the extension fails with ErrInvalidIdentifier.
func ParseFilename(raw string) (*Identifier, error) {
	base, ext := splitExtension(raw)

	if _, nested := splitExtension(base); nested != "" {
		return nil, errors.Wrapf(ErrMalformedFilename, "filename %q has more than one extension", raw)
	}

	if len(base) != canonicalUUIDLength {
		return nil, errors.Wrapf(ErrInvalidIdentifier, "filename %q", raw)
	}

	id, err := uuid.Parse(base)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidIdentifier, "filename %q: %v", raw, err)
	}

	return &Identifier{
		id:        id,
		extension: NormalizeExtension(ext),
		raw:       raw,
	}, nil
}

func splitExtension(name string) (string, string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return name, ""
	}

	return name[:i], name[i+1:]
}
