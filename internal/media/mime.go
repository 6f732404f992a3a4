package media

import "github.com/pkg/errors"

var ErrInvalidExtension = errors.New("invalid extension")

type Extension string

const (
	BMP  Extension = "bmp"
	GIF  Extension = "gif"
	JPEG Extension = "jpg"
	PNG  Extension = "png"
	TIFF Extension = "tiff"
	WBMP Extension = "wbmp"
	WEBP Extension = "webp"
)

// DefaultExtension is used whenever the requested extension is absent or not allowed
const DefaultExtension = JPEG

var mimes = map[Extension]string{
	BMP:  "image/bmp",
	GIF:  "image/gif",
	JPEG: "image/jpeg",
	PNG:  "image/png",
	TIFF: "image/tiff",
	WBMP: "image/vnd.wap.wbmp",
	WEBP: "image/webp",
}

func (e Extension) String() string {
	return string(e)
}

// Mime returns the media type served for the extension. The bytes on disk are never inspected.
func (e Extension) Mime() string {
	if m, ok := mimes[e]; ok {
		return m
	}

	return mimes[DefaultExtension]
}

// ParseExtension checks membership in the allow-list. Matching is case-sensitive.
func ParseExtension(ext string) (Extension, error) {
	if _, ok := mimes[Extension(ext)]; ok {
		return Extension(ext), nil
	}

	return "", errors.Wrapf(ErrInvalidExtension, "extension unsupported: %s", ext)
}

// NormalizeExtension falls back to DefaultExtension instead of failing
func NormalizeExtension(ext string) Extension {
	if e, err := ParseExtension(ext); err == nil {
		return e
	}

	return DefaultExtension
}
