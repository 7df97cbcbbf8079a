package ps

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertString(t *testing.T) {
	tests := []struct {
		Input string
		Want  string
	}{
		{Input: "plain", Want: "plain"},
		{Input: "déjà vu", Want: "déjà vu"},
		{Input: "\xe9t\xe9", Want: "été"},
		{Input: "\xfe\xff\x00A\x00b", Want: "Ab"},
		{Input: "\xff\xfeA\x00b\x00", Want: "Ab"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.Want, convertString(tt.Input), "%q", tt.Input)
	}
}

func TestTextValue(t *testing.T) {
	tests := []struct {
		Input string
		Want  string
	}{
		{Input: "(Hello)", Want: "Hello"},
		{Input: "  (Hello \\(world\\))  ", Want: "Hello (world)"},
		{Input: "(caf\\351)", Want: "café"},
		{Input: "(a\\\\b\\nc)", Want: "a\\b\nc"},
		{Input: "no parens", Want: "no parens"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.Want, textValue(tt.Input), "%q", tt.Input)
	}
}

func TestParsePageComment(t *testing.T) {
	label, ordinal, err := parsePageComment([]byte(" (1,2) 7"))
	require.NoError(t, err)
	require.Equal(t, "(1,2)", label)
	require.Equal(t, 7, ordinal)

	label, ordinal, err = parsePageComment([]byte("iv"))
	require.NoError(t, err)
	require.Equal(t, "iv", label)
	require.Equal(t, 0, ordinal)

	_, _, err = parsePageComment([]byte("(open 3"))
	require.ErrorIs(t, err, ErrIO)
}
