package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

const maxFileNameLen = 128

// ErrInvalidFileName is returned for names that are empty or try to escape their directory.
var ErrInvalidFileName = errors.New("invalid file name")

// Digest hashes the parts into a hex key. Parts are NUL-separated so ("ab","c") and ("a","bc") differ.
func Digest(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// SanitizeFileName flattens a client-supplied name into one safe path segment.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	if r := []rune(s); len(r) > maxFileNameLen {
		s = string(r[len(r)-maxFileNameLen:])
	}
	return s, nil
}
