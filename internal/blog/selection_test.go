package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: []string{}},
		{name: "blanks dropped", in: []string{"", "  ", "go"}, want: []string{"go"}},
		{name: "trimmed", in: []string{" go ", "rust"}, want: []string{"go", "rust"}},
		{name: "dedup keeps first", in: []string{"rust", "go", "rust"}, want: []string{"rust", "go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSelection(tt.in))
		})
	}
}

func TestToggle(t *testing.T) {
	sel := []string{"go", "rust"}

	assert.Equal(t, []string{"go", "rust", "zig"}, Toggle(sel, "zig"))
	assert.Equal(t, []string{"rust"}, Toggle(sel, "go"))
	assert.Equal(t, []string{"go", "rust"}, sel, "input must not change")
	assert.Equal(t, []string{"go"}, Toggle(nil, "go"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"go"}, "go"))
	assert.False(t, Contains([]string{"go"}, "Go"))
	assert.False(t, Contains(nil, "go"))
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "", Query(nil))
	assert.Equal(t, "tag=go&tag=c%2B%2B", Query([]string{"go", "c++"}))
}
