package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	got := Digest("guest:7b0f8a4e")
	assert.Equal(t, got, Digest("guest:7b0f8a4e"))
	assert.Len(t, got, 64)
	assert.NotEqual(t, Digest("ab", "c"), Digest("a", "bc"))
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"letter.txt":      "letter.txt",
		"  cv/final.pdf ": "cv_final.pdf",
		"a\\b\tc.docx":    "a_bc.docx",
		"résumé 2026.pdf": "résumé 2026.pdf",
	}
	for in, want := range cases {
		got, err := SanitizeFileName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "   ", "../etc/passwd", ".", "a/../b"} {
		_, err := SanitizeFileName(bad)
		assert.ErrorIs(t, err, ErrInvalidFileName, bad)
	}

	long, err := SanitizeFileName(strings.Repeat("x", 200) + ".pdf")
	require.NoError(t, err)
	assert.Len(t, long, maxFileNameLen)
	assert.True(t, strings.HasSuffix(long, ".pdf"))
}
