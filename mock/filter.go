package mock

import "github.com/fwojciec/ssmcp"

var _ ssmcp.ContentFilter = (*ContentFilter)(nil)

// ContentFilter is a mock implementation of ssmcp.ContentFilter.
type ContentFilter struct {
	ApplyFn func(html string) (string, bool)
}

func (f *ContentFilter) Apply(html string) (string, bool) {
	return f.ApplyFn(html)
}
