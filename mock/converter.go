package mock

import "github.com/fwojciec/ssmcp"

var _ ssmcp.Converter = (*Converter)(nil)

// Converter is a mock implementation of ssmcp.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ ssmcp.Pruner = (*Pruner)(nil)

// Pruner is a mock implementation of ssmcp.Pruner.
type Pruner struct {
	PruneFn func(html string) (string, error)
}

func (p *Pruner) Prune(html string) (string, error) {
	return p.PruneFn(html)
}
