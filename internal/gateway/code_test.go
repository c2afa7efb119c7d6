package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCodeShapeAndCharset(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		for _, ch := range code {
			require.Contains(t, codeCharset, string(ch))
		}
		seen[code] = true
	}
	// 36^5 codes; 100 draws colliding would point at broken randomness.
	require.Greater(t, len(seen), 90)
}

func TestValidUsernameBounds(t *testing.T) {
	cases := []struct {
		name     string
		username string
		ok       bool
	}{
		{"empty", "", false},
		{"too short", "ab", false},
		{"lower bound", "abc", true},
		{"upper bound", "abcdefghij", true},
		{"too long", "abcdefghijk", false},
		{"multibyte too short", "ñé", false},
		{"multibyte within bounds", "ñññññññññ", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := validUsername(tc.username)
			require.Equal(t, tc.ok, ok)
		})
	}
}
