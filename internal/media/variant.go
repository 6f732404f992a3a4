package media

import "github.com/pkg/errors"

var ErrUnknownVariant = errors.New("unknown image variant")

// Variant selects the top level directory of an image and nothing else
type Variant int

const (
	Full Variant = iota + 1
	Thumbnail
)

var variantDirs = map[Variant]string{
	Full:      "full",
	Thumbnail: "thumb",
}

// Dir returns the fixed directory literal of the variant
func (v Variant) Dir() (string, error) {
	if d, ok := variantDirs[v]; ok {
		return d, nil
	}

	return "", errors.Wrapf(ErrUnknownVariant, "variant %d", int(v))
}

func (v Variant) String() string {
	if d, ok := variantDirs[v]; ok {
		return d
	}

	return "unknown"
}
