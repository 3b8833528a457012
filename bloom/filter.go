// Package bloom provides URL deduplication using Bloom filters.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/sitecorpus"
)

// DefaultFalsePositiveRate is the Bloom filter false positive rate used by
// Dedupe. Positives are confirmed exactly, so the rate only affects speed.
const DefaultFalsePositiveRate = 0.01

// Filter tracks seen URLs. A Bloom filter answers the common first-sight
// case; its positives are confirmed against the exact set of seen URLs, so
// a distinct URL is never reported as seen.
type Filter struct {
	f    *bloom.BloomFilter
	seen map[string]struct{}
}

// NewFilter creates a new filter sized for n expected items with the given
// Bloom filter false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f:    bloom.NewWithEstimates(n, fpRate),
		seen: make(map[string]struct{}, n),
	}
}

// Seen reports whether the URL was added before and adds it.
func (f *Filter) Seen(url string) bool {
	if !f.f.TestAndAddString(url) {
		f.seen[url] = struct{}{}
		return false
	}
	if _, ok := f.seen[url]; ok {
		return true
	}
	f.seen[url] = struct{}{}
	return false
}

// Dedupe returns entries with repeated URLs removed, keeping the first
// occurrence of each URL and the original order.
func Dedupe(entries []sitecorpus.SitemapEntry) []sitecorpus.SitemapEntry {
	f := NewFilter(uint(len(entries)), DefaultFalsePositiveRate)
	deduped := make([]sitecorpus.SitemapEntry, 0, len(entries))
	for _, e := range entries {
		if f.Seen(e.URL) {
			continue
		}
		deduped = append(deduped, e)
	}
	return deduped
}
