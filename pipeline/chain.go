package pipeline

import "github.com/fwojciec/ssmcp"

// Ensure Chain implements ssmcp.ContentFilter at compile time.
var _ ssmcp.ContentFilter = (*Chain)(nil)

// Chain runs filters in order, feeding each the latest successful output.
// A filter reporting no match leaves the current HTML untouched.
type Chain struct {
	filters []ssmcp.ContentFilter
}

// NewChain creates a Chain of filters.
func NewChain(filters ...ssmcp.ContentFilter) *Chain {
	return &Chain{filters: filters}
}

// Apply returns the final HTML if at least one filter matched.
func (c *Chain) Apply(html string) (string, bool) {
	current := html
	matched := false
	for _, f := range c.filters {
		out, ok := f.Apply(current)
		if !ok {
			continue
		}
		current = out
		matched = true
	}
	if !matched {
		return "", false
	}
	return current, true
}
