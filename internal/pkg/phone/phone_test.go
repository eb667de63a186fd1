package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("national number with default region", func(t *testing.T) {
		got, err := Normalize("77 123 45 67", "SN")
		require.NoError(t, err)
		assert.Equal(t, "+221771234567", got)
	})

	t.Run("international prefix overrides region", func(t *testing.T) {
		got, err := Normalize("+225 07 08 09 1011", "SN")
		require.NoError(t, err)
		assert.Equal(t, "+2250708091011", got)
	})

	t.Run("lowercase region accepted", func(t *testing.T) {
		got, err := Normalize("771234567", "sn")
		require.NoError(t, err)
		assert.Equal(t, "+221771234567", got)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := Normalize("not a number", "SN")
		assert.Error(t, err)
	})
}

func TestNormalizeOrKeep(t *testing.T) {
	assert.Equal(t, "+221771234567", NormalizeOrKeep("77 123 45 67", "SN"))
	assert.Equal(t, "not a number", NormalizeOrKeep("  not a number ", "SN"))
	assert.Equal(t, "", NormalizeOrKeep("   ", "SN"))
}
