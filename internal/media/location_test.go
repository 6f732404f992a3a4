package media

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestLocate(t *testing.T) {
	tt := []struct {
		name    string
		raw     string
		variant Variant
		scheme  ShardScheme
		key     string
	}{
		{
			name:    "full canonical",
			raw:     testUUID + ".png",
			variant: Full,
			scheme:  CanonicalShard,
			key:     "full/3f/" + testUUID + ".png",
		},
		{
			name:    "thumb canonical",
			raw:     testUUID + ".webp",
			variant: Thumbnail,
			scheme:  CanonicalShard,
			key:     "thumb/3f/" + testUUID + ".webp",
		},
		{
			name:    "uppercase request canonical",
			raw:     "3F2504E0-4F89-11D3-9A0C-0305E82C3301.gif",
			variant: Full,
			scheme:  CanonicalShard,
			key:     "full/3f/" + testUUID + ".gif",
		},
		{
			name:    "uppercase request raw prefix",
			raw:     "3F2504E0-4F89-11D3-9A0C-0305E82C3301.gif",
			variant: Full,
			scheme:  RawPrefixShard,
			key:     "full/3F/" + testUUID + ".gif",
		},
		{
			name:    "unsupported extension",
			raw:     testUUID + ".php",
			variant: Thumbnail,
			scheme:  RawPrefixShard,
			key:     "thumb/3f/" + testUUID + ".jpg",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseFilename(tc.raw)
			require.NoError(t, err)

			loc, err := Locate(id, tc.variant, tc.scheme)
			require.NoError(t, err)

			assert.Equal(t, tc.key, loc.Key())
		})
	}
}

func TestLocate_Errors(t *testing.T) {
	id, err := ParseFilename(testUUID + ".png")
	require.NoError(t, err)

	_, err = Locate(id, Variant(0), CanonicalShard)
	assert.True(t, errors.Is(err, ErrUnknownVariant))

	_, err = Locate(id, Full, ShardScheme("md5"))
	assert.True(t, errors.Is(err, ErrUnknownShardScheme))
}

func TestLocation_ETag(t *testing.T) {
	id, err := ParseFilename(testUUID + ".png")
	require.NoError(t, err)

	full, err := Locate(id, Full, CanonicalShard)
	require.NoError(t, err)
	thumb, err := Locate(id, Thumbnail, CanonicalShard)
	require.NoError(t, err)

	assert.Equal(t, `"full-`+testUUID+`.png"`, full.ETag())
	assert.NotEqual(t, full.ETag(), thumb.ETag())
}

func TestParseShardScheme(t *testing.T) {
	tt := map[string]ShardScheme{
		"":          CanonicalShard,
		"canonical": CanonicalShard,
		" RAW ":     RawPrefixShard,
		"raw":       RawPrefixShard,
	}

	for in, expected := range tt {
		s, err := ParseShardScheme(in)
		assert.NoError(t, err)
		assert.Equal(t, expected, s)
	}

	_, err := ParseShardScheme("hash")
	assert.True(t, errors.Is(err, ErrUnknownShardScheme))
}
