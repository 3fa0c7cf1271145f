// Package bloom provides URL de-duplication using Bloom filters.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter remembers URLs it has seen. Equivalent spellings of a URL (host
// case, fragment, trailing slash) count as the same URL.
//
// Bloom filter hits are confirmed against the recorded keys, so a distinct
// URL is never reported as seen.
type Filter struct {
	f    *bloom.BloomFilter
	keys map[string]struct{}
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f:    bloom.NewWithEstimates(n, fpRate),
		keys: make(map[string]struct{}, n),
	}
}

// Seen records rawURL and reports whether it was already recorded.
func (f *Filter) Seen(rawURL string) bool {
	key := Normalize(rawURL)
	if f.f.TestAndAddString(key) && f.recorded(key) {
		return true
	}
	f.keys[key] = struct{}{}
	return false
}

// Test reports whether rawURL was recorded, without recording it.
func (f *Filter) Test(rawURL string) bool {
	key := Normalize(rawURL)
	return f.f.TestString(key) && f.recorded(key)
}

func (f *Filter) recorded(key string) bool {
	_, ok := f.keys[key]
	return ok
}

// EstimatedCount returns the approximate number of URLs recorded.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Normalize returns the canonical spelling of rawURL used as the filter key.
// Strings that do not parse as URLs are returned unchanged.
func Normalize(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	} else {
		u.Path = ""
	}
	return u.String()
}
