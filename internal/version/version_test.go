package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFirstLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"major only", "[DIRCONTXT_LLM_SNAPSHOT_V1]\nrest\n", "V1"},
		{"major minor", "[DIRCONTXT_LLM_SNAPSHOT_V3.7]\n", "V3.7"},
		{"empty input", "", Initial},
		{"unrecognized prelude", "not a manifest\n", Initial},
		{"empty token", "[DIRCONTXT_LLM_SNAPSHOT_]\n", Initial},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseFirstLine(strings.NewReader(tc.input))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIncrement(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  string
	}{
		{"V1", "V1.1"},
		{"V3.7", "V3.8"},
		{"V0", "V0.1"},
		{"garbage", Initial},
		{"V", Initial},
		{"Vx.y", Initial},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Increment(tc.input), "input=%s", tc.input)
	}
}
