package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern_EscapaComodines(t *testing.T) {
	cases := []struct {
		term string
		want string
	}{
		{"lido", `%lido%`},
		{"100%", `%100\%%`},
		{"N_01", `%N\_01%`},
		{`a\b`, `%a\\b%`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, containsPattern(tc.term), tc.term)
	}
}
