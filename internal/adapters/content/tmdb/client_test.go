package tmdb

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateOverview(t *testing.T) {
	short := "A quiet film about rain."
	assert.Equal(t, short, truncateOverview(short, 150))

	long := strings.Repeat("x", 200)
	got := truncateOverview(long, 150)
	assert.Equal(t, strings.Repeat("x", 150)+"...", got)

	// Multi-byte overviews must not be cut mid-rune.
	multibyte := strings.Repeat("Petualangan séru di Jakarta! ", 10)
	got = truncateOverview(multibyte, 150)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 153, utf8.RuneCountInString(got))
}
