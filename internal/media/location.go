package media

import (
	"github.com/pkg/errors"
	"path"
)

// Location is the place of an image relative to the images root:
// {variant}/{shard}/{uuid}.{ext}
type Location struct {
	Variant  Variant
	Shard    string
	Filename string
}

// Locate builds the location exclusively from validated or fixed components
func Locate(id *Identifier, v Variant, scheme ShardScheme) (Location, error) {
	if _, err := v.Dir(); err != nil {
		return Location{}, err
	}

	shard, err := scheme.Key(id)
	if err != nil {
		return Location{}, errors.Wrapf(err, "could not shard %s", id.Filename())
	}

	return Location{
		Variant:  v,
		Shard:    shard,
		Filename: id.Filename(),
	}, nil
}

// Key is the slash separated storage key
func (l Location) Key() string {
	return path.Join(l.Variant.String(), l.Shard, l.Filename)
}

// ETag is stable because files never change once written
func (l Location) ETag() string {
	return `"` + l.Variant.String() + "-" + l.Filename + `"`
}
