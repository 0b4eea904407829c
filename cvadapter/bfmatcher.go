/*
DESCRIPTION
  bfmatcher.go adapts gocv's brute-force matcher binding to the
  feature.Matcher capability.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cvadapter

import (
	"sort"

	"gocv.io/x/gocv"

	"github.com/ausocean/asift/feature"
)

// radiusMatchFanout bounds how many neighbors KNNMatch is asked for per
// query row when RadiusMatch emulates radius matching client-side. ORB
// descriptors rarely have more than a handful of near-duplicate
// neighbors in a single train view; this is a pragmatic ceiling, not a
// correctness bound; a query row with more than this many true
// within-radius neighbors silently loses the excess. Documented in
// DESIGN.md as an adapter-level limitation, not a core-package concern.
const radiusMatchFanout = 32

// BFMatcher wraps a gocv brute-force matcher using Hamming distance,
// appropriate for ORB's binary descriptors. A zero-value BFMatcher is not
// usable; construct with NewBFMatcher.
type BFMatcher struct {
	bf gocv.BFMatcher
}

// NewBFMatcher constructs a Hamming-norm, non-crosscheck brute-force
// matcher: crosscheck is left off because the core's own ratio filter
// (package fuse) is the intended post-match quality gate, matching
// OpenCV's own recommendation not to combine crosscheck with a ratio
// test using k=2.
func NewBFMatcher() *BFMatcher {
	return &BFMatcher{bf: gocv.NewBFMatcherWithParams(gocv.NormHamming, false)}
}

// Close releases the underlying gocv matcher instance.
func (b *BFMatcher) Close() error {
	return b.bf.Close()
}

// KNNMatch implements feature.Matcher.
func (b *BFMatcher) KNNMatch(query, train gocv.Mat, k int) ([][]feature.DMatch, error) {
	if query.Empty() || train.Empty() {
		return make([][]feature.DMatch, query.Rows()), nil
	}
	rows := b.bf.KnnMatch(query, train, k)
	return fromGocvMatches(rows), nil
}

// RadiusMatch implements feature.Matcher atop KNNMatch: gocv's BFMatcher
// binding has no radius-match entry point, so this fetches a generous
// fixed number of nearest neighbors per query row via KnnMatch and then
// filters client-side to those within radius.
func (b *BFMatcher) RadiusMatch(query, train gocv.Mat, radius float64) ([][]feature.DMatch, error) {
	knn, err := b.KNNMatch(query, train, radiusMatchFanout)
	if err != nil {
		return nil, err
	}
	return filterByRadius(knn, radius), nil
}

// filterByRadius keeps, from each row of knn, only the matches within
// radius, preserving ascending-distance order.
func filterByRadius(knn [][]feature.DMatch, radius float64) [][]feature.DMatch {
	out := make([][]feature.DMatch, len(knn))
	for i, row := range knn {
		kept := make([]feature.DMatch, 0, len(row))
		for _, m := range row {
			if m.Distance <= radius {
				kept = append(kept, m)
			}
		}
		sort.Slice(kept, func(a, c int) bool { return kept[a].Distance < kept[c].Distance })
		out[i] = kept
	}
	return out
}

func fromGocvMatches(rows [][]gocv.DMatch) [][]feature.DMatch {
	out := make([][]feature.DMatch, len(rows))
	for i, row := range rows {
		conv := make([]feature.DMatch, len(row))
		for j, m := range row {
			conv[j] = feature.DMatch{
				QueryIdx: m.QueryIdx,
				TrainIdx: m.TrainIdx,
				Distance: float64(m.Distance),
			}
		}
		out[i] = conv
	}
	return out
}
