package shared

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "brackets removed spacing preserved", input: "Foo (bar) [baz]", want: "Foo bar baz"},
		{name: "shell metacharacters", input: `a|b^c$d\e#f`, want: "abcdef"},
		{name: "quotes and backticks", input: "say 'hi' \"there\" `now`", want: "say hi there now"},
		{name: "control whitespace", input: "line1\nline2\ttab", want: "line1line2tab"},
		{name: "clean text untouched", input: "The foo package.", want: "The foo package."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SanitizeDescription(tt.input))
		})
	}
}

func TestTrimDescription(t *testing.T) {
	short := "short description"
	require.Equal(t, short, TrimDescription(short))

	long := strings.Repeat("x", 200)
	trimmed := TrimDescription(long)
	require.Len(t, trimmed, DescriptionMaxLength)
	require.True(t, strings.HasSuffix(trimmed, "[...]"))

	exact := strings.Repeat("y", DescriptionMaxLength)
	require.Equal(t, exact, TrimDescription(exact))
}
