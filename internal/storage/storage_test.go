package storage

import (
	"context"
	"github.com/stretchr/testify/assert"
	"io"
	"io/ioutil"
	"strings"
	"testing"
)

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestContextReader(t *testing.T) {
	t.Run("reads everything while the context is alive", func(t *testing.T) {
		src := &closeRecorder{Reader: strings.NewReader("image bytes")}
		r := NewContextReader(context.Background(), src)

		b, err := ioutil.ReadAll(r)
		assert.NoError(t, err)
		assert.Equal(t, "image bytes", string(b))

		assert.NoError(t, r.Close())
		assert.True(t, src.closed)
	})

	t.Run("stops once the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		src := &closeRecorder{Reader: strings.NewReader("image bytes")}
		r := NewContextReader(ctx, src)

		buf := make([]byte, 5)
		n, err := r.Read(buf)
		assert.NoError(t, err)
		assert.Equal(t, 5, n)

		cancel()

		n, err = r.Read(buf)
		assert.Equal(t, 0, n)
		assert.Equal(t, context.Canceled, err)
	})
}
