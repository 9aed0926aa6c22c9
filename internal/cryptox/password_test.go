package cryptox

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var recordPattern = regexp.MustCompile(`^[0-9a-f]{16}\.[0-9a-f]{64}$`)

func TestHashPassword_RecordFormat(t *testing.T) {
	rec, err := HashPassword("Str0ng!!Pw")
	require.NoError(t, err)
	require.Regexp(t, recordPattern, rec)
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	a, err := HashPassword("same password")
	require.NoError(t, err)
	b, err := HashPassword("same password")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "two records for the same password must differ")

	saltA, _, _ := strings.Cut(a, ".")
	saltB, _, _ := strings.Cut(b, ".")
	require.NotEqual(t, saltA, saltB)
}

func TestVerifyPassword_RoundTrip(t *testing.T) {
	rec, err := HashPassword("Str0ng!!Pw")
	require.NoError(t, err)

	require.True(t, VerifyPassword("Str0ng!!Pw", rec))
	require.False(t, VerifyPassword("Str0ng!!Pw2", rec))
	require.False(t, VerifyPassword("", rec))
}

func TestVerifyPassword_MalformedRecord(t *testing.T) {
	require.False(t, VerifyPassword("whatever", "no-dot-here"))
	require.False(t, VerifyPassword("whatever", "salt.not-hex!"))
	require.False(t, VerifyPassword("whatever", ""))
}
