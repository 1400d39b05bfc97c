package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUBOList(t *testing.T) {
	t.Run("parses well-formed entries", func(t *testing.T) {
		entries := ParseUBOList("Alice Smith | 1980-01-01 | 60%\nBob Jones | 1990-05-05 | 40%")

		require.Len(t, entries, 2)
		assert.Equal(t, UBOEntry{Name: "Alice Smith", DateOfBirth: "1980-01-01", Ownership: 60}, entries[0])
		assert.Equal(t, UBOEntry{Name: "Bob Jones", DateOfBirth: "1990-05-05", Ownership: 40}, entries[1])
	})

	t.Run("drops malformed lines silently", func(t *testing.T) {
		entries := ParseUBOList("Alice | 1980-01-01 | 50%\nmalformed-line\nBob | 1990-01-01 | 50%")

		require.Len(t, entries, 2)
		assert.Equal(t, "Alice", entries[0].Name)
		assert.Equal(t, "Bob", entries[1].Name)
	})

	t.Run("drops non-numeric percentages", func(t *testing.T) {
		entries := ParseUBOList("Alice | 1980-01-01 | half\nBob | 1990-01-01 | 50%")

		require.Len(t, entries, 1)
		assert.Equal(t, "Bob", entries[0].Name)
	})

	t.Run("handles percentage without suffix and fractional values", func(t *testing.T) {
		entries := ParseUBOList("Alice | 1980-01-01 | 33.5\nBob | 1990-01-01 | 66.5%")

		require.Len(t, entries, 2)
		assert.InDelta(t, 33.5, entries[0].Ownership, 0.001)
		assert.InDelta(t, 66.5, entries[1].Ownership, 0.001)
	})

	t.Run("empty and whitespace-only input yields no entries", func(t *testing.T) {
		assert.Empty(t, ParseUBOList(""))
		assert.Empty(t, ParseUBOList("   \n\t\n"))
	})

	t.Run("drops lines with blank fields", func(t *testing.T) {
		entries := ParseUBOList(" | 1980-01-01 | 50%\nAlice |  | 50%\nAlice | 1980-01-01 | ")
		assert.Empty(t, entries)
	})

	t.Run("parse is idempotent", func(t *testing.T) {
		input := "Alice | 1980-01-01 | 50%\nBob | 1990-01-01 | 50%"
		assert.Equal(t, ParseUBOList(input), ParseUBOList(input))
	})
}

func TestTotalOwnership(t *testing.T) {
	entries := []UBOEntry{{Ownership: 60}, {Ownership: 10.5}}
	assert.InDelta(t, 70.5, TotalOwnership(entries), 0.001)
	assert.Zero(t, TotalOwnership(nil))
}
