package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/ssmcp/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(100, 0.0001)

	assert.False(t, f.Seen("https://example.com/page1"))
	assert.True(t, f.Seen("https://example.com/page1"))
	assert.False(t, f.Seen("https://example.com/page2"))
}

func TestFilter_SeenTreatsEquivalentURLsAsEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		first  string
		second string
	}{
		{"host case", "https://Example.com/docs", "https://example.com/docs"},
		{"fragment", "https://example.com/docs#intro", "https://example.com/docs"},
		{"trailing slash", "https://example.com/docs/", "https://example.com/docs"},
		{"root slash", "https://example.com/", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := bloom.NewFilter(10, 0.0001)
			assert.False(t, f.Seen(tt.first))
			assert.True(t, f.Seen(tt.second))
		})
	}
}

func TestFilter_SeenHasNoFalsePositives(t *testing.T) {
	t.Parallel()

	// A one-bit-per-item filter collides constantly.
	f := bloom.NewFilter(1, 0.9)

	for i := range 200 {
		assert.False(t, f.Seen(fmt.Sprintf("https://example.com/page%d", i)), "page%d", i)
	}
	assert.True(t, f.Seen("https://example.com/page7"))
	assert.False(t, f.Test("https://example.com/other"))
}

func TestFilter_TestDoesNotRecord(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10, 0.0001)

	assert.False(t, f.Test("https://example.com/a"))
	assert.False(t, f.Test("https://example.com/a"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Equal(t, uint(0), f.EstimatedCount())

	for i := range 3 {
		f.Seen(fmt.Sprintf("https://example.com/page%d", i))
	}

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/a?b=1", bloom.Normalize("HTTPS://EXAMPLE.com/a/?b=1#x"))
	assert.Equal(t, "not a url", bloom.Normalize("not a url"))
}
