package partition

import (
	"gocv.io/x/gocv"

	"github.com/ausocean/asift/feature"
)

// Matcher is the public affine descriptor matcher: it partitions a pair
// of view-tagged feature sets by view and dispatches to an underlying
// feature.Matcher only for admissible view pairs. A zero Matcher is not
// usable; construct with New.
type Matcher struct {
	underlying feature.Matcher
	workers    int
}

// Option configures a Matcher constructed via New.
type Option func(*Matcher)

// WithWorkers bounds how many view pairs are dispatched to the
// underlying matcher concurrently. n <= 0 leaves dispatch unbounded,
// matching the zero-value Matcher's historical behavior.
func WithWorkers(n int) Option {
	return func(m *Matcher) { m.workers = n }
}

// New returns a Matcher that dispatches to underlying for every
// admissible view pair.
func New(underlying feature.Matcher, opts ...Option) *Matcher {
	m := &Matcher{underlying: underlying}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match returns a single best match per (admissible view pair, query
// row): the k=1 projection of KNNMatch, dropping entries with no
// neighbor at all.
func (m *Matcher) Match(q, t feature.Set, pairs []feature.ViewPair) ([]feature.DMatch, error) {
	knn, err := m.KNNMatch(q, t, pairs, 1)
	if err != nil {
		return nil, err
	}
	out := make([]feature.DMatch, 0, len(knn))
	for _, row := range knn {
		if len(row) == 0 {
			continue
		}
		out = append(out, row[0])
	}
	return out, nil
}

// KNNMatch returns, for each (admissible view pair, query row), up to k
// nearest train matches.
func (m *Matcher) KNNMatch(q, t feature.Set, pairs []feature.ViewPair, k int) ([][]feature.DMatch, error) {
	if err := checkShapes(q, t); err != nil {
		return nil, err
	}
	return runPairs(q, t, pairs, m.workers, func(query, train gocv.Mat) ([][]feature.DMatch, error) {
		return m.underlying.KNNMatch(query, train, k)
	})
}

// RadiusMatch returns, for each (admissible view pair, query row), every
// train match within descriptor distance radius.
func (m *Matcher) RadiusMatch(q, t feature.Set, pairs []feature.ViewPair, radius float64) ([][]feature.DMatch, error) {
	if err := checkShapes(q, t); err != nil {
		return nil, err
	}
	return runPairs(q, t, pairs, m.workers, func(query, train gocv.Mat) ([][]feature.DMatch, error) {
		return m.underlying.RadiusMatch(query, train, radius)
	})
}
