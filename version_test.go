package zktoolkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionIsValidSemver(t *testing.T) {
	assert := require.New(t)
	assert.NoError(Version.Validate())
	assert.NotEqual("0.0.0", Version.String())
}

func TestHashesAreConstructible(t *testing.T) {
	assert := require.New(t)
	hashes := Hashes()
	assert.NotEmpty(hashes)
	for _, h := range hashes {
		o, err := h.New()
		assert.NoError(err)
		assert.NotNil(o)
		assert.NotEmpty(h.String())
		assert.Positive(h.Size())
	}
}
