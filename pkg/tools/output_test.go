package tools

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func manyLines(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func TestTruncateHead(t *testing.T) {
	t.Run("under caps is unchanged", func(t *testing.T) {
		out, truncated := truncateHead("a\nb\nc", maxOutputLines, maxOutputBytes)
		assert.False(t, truncated)
		assert.Equal(t, "a\nb\nc", out)
	})

	t.Run("line cap keeps the head", func(t *testing.T) {
		out, truncated := truncateHead(manyLines(3000), 2000, maxOutputBytes)
		assert.True(t, truncated)
		assert.Contains(t, out, "line 1\n")
		assert.Contains(t, out, "line 2000")
		assert.NotContains(t, out, "line 2001\n")
		assert.Contains(t, out, "[Output truncated: 2000 of 3000 lines shown]")
	})

	t.Run("byte cap cuts a single giant line", func(t *testing.T) {
		out, truncated := truncateHead(strings.Repeat("x", 80_000), maxOutputLines, maxOutputBytes)
		assert.True(t, truncated)
		assert.LessOrEqual(t, len(out), maxOutputBytes+100)
	})
}

func TestTruncateTail(t *testing.T) {
	out, truncated := truncateTail(manyLines(3000), 2000, maxOutputBytes)
	assert.True(t, truncated)
	assert.True(t, strings.HasPrefix(out, "[Output truncated: last 2000 of 3000 lines shown]"))
	assert.Contains(t, out, "line 3000")
	assert.NotContains(t, out, "line 1\n")
}

func TestCapLine(t *testing.T) {
	assert.Equal(t, "short", capLine("short", 10))

	long := capLine(strings.Repeat("a", 50), 10)
	assert.Equal(t, "aaaaaaaaaa…", long)

	// Never splits a multibyte rune.
	multi := capLine(strings.Repeat("é", 10), 5)
	assert.True(t, utf8.ValidString(multi))
	assert.Equal(t, "éé…", multi)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "532B", formatSize(532))
	assert.Equal(t, "2.0KB", formatSize(2048))
	assert.Equal(t, "1.5MB", formatSize(3*1024*1024/2))
}

func TestNormalizeQuotes(t *testing.T) {
	in := "“path”: ‘a.go’ 「x」"
	assert.Equal(t, `"path": 'a.go' "x"`, NormalizeQuotes(in))

	// Dashes and unicode spaces must survive: they can be part of
	// argument values.
	assert.Equal(t, "a—b", NormalizeQuotes("a—b"))
	assert.Equal(t, "a b", NormalizeQuotes("a b"))
}

func TestNormalizeForMatchMapsIndices(t *testing.T) {
	norm, idx := normalizeForMatch("a“b")
	assert.Equal(t, `a"b`, norm)
	// norm byte 0 -> orig 0, byte 1 -> orig 1 (3-byte quote), byte 2 -> orig 4.
	assert.Equal(t, []int{0, 1, 4, 5}, idx)
}

func TestNormalizeForMatchDropsBOM(t *testing.T) {
	norm, idx := normalizeForMatch("\uFEFFab")
	assert.Equal(t, "ab", norm)
	// The BOM occupies original bytes 0-2 and emits nothing.
	assert.Equal(t, []int{3, 4, 5}, idx)
}
