package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReference(t *testing.T) {
	t.Parallel()

	ref, err := GenerateReference("MBR", 12)
	require.NoError(t, err)
	assert.Len(t, ref, 12)
	assert.Equal(t, "MBR", ref[:3])
	for _, ch := range ref[3:] {
		assert.True(t, ch >= '0' && ch <= '9', "unexpected character %q", ch)
	}
}

func TestGenerateReference_InvalidLength(t *testing.T) {
	t.Parallel()

	_, err := GenerateReference("MBR", 2)
	assert.Error(t, err)

	_, err = GenerateReference("", 25)
	assert.Error(t, err)
}
