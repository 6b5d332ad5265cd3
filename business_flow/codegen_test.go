package businessflow

import (
	"testing"

	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShortCode(t *testing.T) {
	t.Run("LengthAndAlphabet", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code, err := GenerateShortCode()
			require.NoError(t, err)
			assert.Len(t, code, utils.ShortCodeLength)

			for _, ch := range code {
				isDigit := ch >= '0' && ch <= '9'
				isLower := ch >= 'a' && ch <= 'z'
				assert.True(t, isDigit || isLower, "unexpected character %q in code %q", ch, code)
			}
		}
	})

	t.Run("NotObviouslyRepeating", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			code, err := GenerateShortCode()
			require.NoError(t, err)
			seen[code] = true
		}

		// Collisions are possible in a 36^6 namespace but a run of 1000
		// should come out essentially unique.
		assert.Greater(t, len(seen), 990)
	})
}
