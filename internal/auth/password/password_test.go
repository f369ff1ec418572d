package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashProducesDifferentDigests(t *testing.T) {
	first, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	second, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "salt must be random per call")
	assert.True(t, Verify("correct horse battery staple", first))
	assert.True(t, Verify("correct horse battery staple", second))
}

func TestVerify(t *testing.T) {
	digest, err := Hash("s3cret-pass")
	require.NoError(t, err)

	t.Run("accepts matching plaintext", func(t *testing.T) {
		assert.True(t, Verify("s3cret-pass", digest))
	})

	t.Run("rejects wrong plaintext", func(t *testing.T) {
		assert.False(t, Verify("wrong-pass", digest))
	})

	t.Run("rejects malformed digest without panicking", func(t *testing.T) {
		assert.False(t, Verify("s3cret-pass", "not-a-bcrypt-digest"))
		assert.False(t, Verify("s3cret-pass", ""))
	})
}
