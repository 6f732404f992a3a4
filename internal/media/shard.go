package media

import (
	"github.com/pkg/errors"
	"strings"
)

var ErrUnknownShardScheme = errors.New("unknown shard scheme")

// ShardScheme is the contract shared with whatever writes the image tree.
// Writer and reader must agree on it or lookups miss files that exist.
type ShardScheme string

const (
	// RawPrefixShard (v1) takes the first two characters of the filename as requested
	RawPrefixShard ShardScheme = "raw"
	// CanonicalShard (v2) takes the first two characters of the lowercase canonical UUID
	CanonicalShard ShardScheme = "canonical"
)

const shardKeyLength = 2

func ParseShardScheme(s string) (ShardScheme, error) {
	switch ShardScheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", CanonicalShard:
		return CanonicalShard, nil
	case RawPrefixShard:
		return RawPrefixShard, nil
	}

	return "", errors.Wrapf(ErrUnknownShardScheme, "%q", s)
}

// Key computes the shard directory for an identifier
func (s ShardScheme) Key(id *Identifier) (string, error) {
	switch s {
	case CanonicalShard:
		return id.id.String()[:shardKeyLength], nil
	case RawPrefixShard:
		// a validated raw filename always starts with eight hex digits
		return id.raw[:shardKeyLength], nil
	}

	return "", errors.Wrapf(ErrUnknownShardScheme, "%q", string(s))
}
