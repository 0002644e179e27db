package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCamel(t *testing.T) {
	tests := map[string]string{
		"text":            "text",
		"slider-neighbor": "sliderNeighbor",
		"ali-richtext":    "aliRichtext",
		"a-b-c":           "aBC",
		"x-2d":            "x2d",
		"trailing-":       "trailing-",
		"a-.b":            "a-.b",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToCamel(in), in)
	}
}
