package persist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress_RoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("hierarchical clustering forest snapshot "), 200)

	compressed, err := Compress(original)
	require.NoError(t, err)
	assert.NotEmpty(t, compressed)

	restored, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestCompress_EmptyInput(t *testing.T) {
	compressed, err := Compress(nil)
	require.NoError(t, err)

	restored, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, restored)
}
