package randcode

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode_Format(t *testing.T) {
	t.Parallel()

	for range 1000 {
		code, err := GenerateNumericCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		assert.NotEqual(t, byte('0'), code[0])
	}
}

func TestGenerateNumericCode_NotConstant(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 50 {
		code, err := GenerateNumericCode()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}

	// 50 draws from a 900k space collapsing to one value means a broken generator.
	assert.Greater(t, len(seen), 1)
}
