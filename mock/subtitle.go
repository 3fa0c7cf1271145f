package mock

import (
	"context"

	"github.com/fwojciec/ssmcp"
)

var _ ssmcp.SubtitleFetcher = (*SubtitleFetcher)(nil)

// SubtitleFetcher is a mock implementation of ssmcp.SubtitleFetcher.
type SubtitleFetcher struct {
	SubtitlesFn func(ctx context.Context, url string) (string, error)
}

func (f *SubtitleFetcher) Subtitles(ctx context.Context, url string) (string, error) {
	return f.SubtitlesFn(ctx, url)
}
