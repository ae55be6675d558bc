/*
 * @Author:    thepoy
 * @File Name: seenset.go
 */

// Package seenset implements the dedup set that tracks which fingerprints
// have already been enqueued for processing in the current run.
package seenset

// SeenSet stores fingerprints only, never full Transactions, since only
// "have I queued this?" matters (spec design note: SeenSet as a hash-only
// set). It is mutated and read exclusively by the ScrapeWorker goroutine,
// so it needs no lock.
type SeenSet struct {
	seen map[string]struct{}
}

// New returns an empty SeenSet.
func New() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// Contains reports whether fingerprint has already been recorded.
func (s *SeenSet) Contains(fingerprint string) bool {
	_, ok := s.seen[fingerprint]
	return ok
}

// Add records fingerprint as seen. It returns true if this call is the
// first time the fingerprint was added, false if it was already present —
// callers typically use this to decide whether to enqueue a child.
func (s *SeenSet) Add(fingerprint string) bool {
	if _, ok := s.seen[fingerprint]; ok {
		return false
	}
	s.seen[fingerprint] = struct{}{}
	return true
}

// Len returns the number of distinct fingerprints recorded.
func (s *SeenSet) Len() int {
	return len(s.seen)
}
