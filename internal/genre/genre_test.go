package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Science Fiction":  "science-fiction",
		"Sci-Fi & Fantasy": "sci-fi-fantasy",
		"Comédie":          "comedie",
		"  Film-Noir  ":    "film-noir",
		"&&":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugs(t *testing.T) {
	got := Slugs([]string{"Sci-Fi & Fantasy", "Science Fiction", "Drama", "Soap"})
	assert.Equal(t, []string{"science-fiction", "fantasy", "drama"}, got)

	assert.Empty(t, Slugs(nil))
}
