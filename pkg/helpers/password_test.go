package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("correct horse 1")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse 1", hash)

	assert.True(t, CompareHashAndPassword(hash, "correct horse 1"))
	assert.False(t, CompareHashAndPassword(hash, "wrong horse 1"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "correct horse 1"))
}

func TestStrongEnough(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"longenough99", true},
		{"short1", false},
		{"onlyletterslong", false},
		{"1234567890123", false},
		{"exactly10c1", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StrongEnough(tc.in), "password %q", tc.in)
	}
}

func TestTempPassword(t *testing.T) {
	a, err := TempPassword(9)
	require.NoError(t, err)
	b, err := TempPassword(9)
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	// zero falls back to a sane length
	c, err := TempPassword(0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(c), 16)
}
