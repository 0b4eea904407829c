/*
DESCRIPTION
  Package partition implements the affine descriptor matcher: splitting a
  pair of view-tagged feature sets by view, running an underlying matcher
  only on admissible view pairs, and reassembling the results into
  original-index DMatch lists in canonical order.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package partition provides the per-view-pair matcher orchestrator
// described in the design as the "affine descriptor matcher": it never
// performs descriptor comparison itself, only partitioning, dispatch to
// an underlying feature.Matcher, and deterministic reassembly.
package partition

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"gocv.io/x/gocv"

	"github.com/ausocean/asift/catalog"
	"github.com/ausocean/asift/feature"
)

// ErrInvalidViewTag is returned when a keypoint carries a ViewID outside
// [0, catalog.MaxViews).
var ErrInvalidViewTag = errors.New("partition: invalid view tag")

// ErrDescriptorShapeMismatch is returned when query and train descriptor
// matrices have different column counts.
var ErrDescriptorShapeMismatch = errors.New("partition: descriptor shape mismatch")

// view is one view's slice of a feature.Set: the keypoints tagged with
// that view id, their descriptor rows stacked into their own dense
// matrix, and the bookkeeping needed to translate local row indices back
// to the owning Set's original ordering. This mirrors the View helper in
// the original affine matcher (aff_matchers.cpp), which also keeps a
// per-view bookkeeping vector alongside a stacked cv::Mat of descriptors.
type view struct {
	bookkeeping []int // local index -> global index in the owning Set.
	keypoints   []feature.Keypoint
	descriptors gocv.Mat // owned; Close() once done.
}

func (v *view) size() int { return len(v.bookkeeping) }

func (v *view) add(k feature.Keypoint, row gocv.Mat, globalIdx int) {
	v.bookkeeping = append(v.bookkeeping, globalIdx)
	v.keypoints = append(v.keypoints, k)
	v.descriptors.PushBack(row)
}

func (v *view) close() {
	v.descriptors.Close()
}

func closeViews(views []view) {
	for i := range views {
		views[i].close()
	}
}

// splitByView partitions s into one view per ViewID in
// 0..s.NumViews()-1; an id that no keypoint carries gets an empty view.
// Keypoints retain their original relative order within their view's
// partition.
func splitByView(s feature.Set) ([]view, error) {
	for _, k := range s.Keypoints {
		if k.ViewID < 0 || k.ViewID >= catalog.MaxViews {
			return nil, fmt.Errorf("view id %d: %w", k.ViewID, ErrInvalidViewTag)
		}
	}

	n := s.NumViews()
	if n < 0 {
		n = 0
	}
	views := make([]view, n)
	for i := range views {
		views[i].descriptors = gocv.NewMat()
	}
	for i, k := range s.Keypoints {
		row := s.Descriptors.RowRange(i, i+1)
		views[k.ViewID].add(k, row, i)
		row.Close()
	}
	return views, nil
}

// allPairs returns the complete Cartesian product of query/train view ids,
// used when S is empty ("all pairs").
func allPairs(nq, nt int) []feature.ViewPair {
	pairs := make([]feature.ViewPair, 0, nq*nt)
	for u := 0; u < nq; u++ {
		for v := 0; v < nt; v++ {
			pairs = append(pairs, feature.ViewPair{Query: u, Train: v})
		}
	}
	return pairs
}

// sortedPairs returns pairs sorted ascending by (Query, Train), the
// canonical merge order required by the deterministic-ordering invariant.
func sortedPairs(pairs []feature.ViewPair) []feature.ViewPair {
	out := append([]feature.ViewPair(nil), pairs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Query != out[j].Query {
			return out[i].Query < out[j].Query
		}
		return out[i].Train < out[j].Train
	})
	return out
}

// op is the underlying-matcher call shape shared by knn and radius
// matching: given two views' stacked descriptor matrices, return one
// result list per query row, indexed locally to those matrices.
type op func(query, train gocv.Mat) ([][]feature.DMatch, error)

// runPairs dispatches op concurrently over pairs, bounded by an errgroup
// with its concurrency capped at workers (workers <= 0 leaves it
// unbounded), then performs the sequential, canonically-ordered merge:
// for each pair in ascending (query view, train view) order, for each
// local query row of that pair's query view (in partition order), emit
// one rewritten-index result. The resulting slice therefore has one
// entry per (admissible view pair, local query row) combination, exactly
// mirroring the merge semantics of the original affine matcher: a single
// original keypoint may appear in several entries if it is matched
// against more than one admissible train view.
func runPairs(q, t feature.Set, pairs []feature.ViewPair, workers int, fn op) ([][]feature.DMatch, error) {
	qViews, err := splitByView(q)
	if err != nil {
		return nil, err
	}
	defer closeViews(qViews)
	tViews, err := splitByView(t)
	if err != nil {
		return nil, err
	}
	defer closeViews(tViews)

	if len(pairs) == 0 {
		pairs = allPairs(len(qViews), len(tViews))
	}
	pairs = sortedPairs(pairs)

	results := make([][][]feature.DMatch, len(pairs))
	g := new(errgroup.Group)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range pairs {
		i, p := i, p
		if p.Query < 0 || p.Query >= len(qViews) || p.Train < 0 || p.Train >= len(tViews) {
			continue
		}
		qv, tv := &qViews[p.Query], &tViews[p.Train]
		if qv.size() == 0 || tv.size() == 0 {
			continue
		}
		g.Go(func() error {
			rows, err := fn(qv.descriptors, tv.descriptors)
			if err != nil {
				return fmt.Errorf("view pair (%d,%d): %w", p.Query, p.Train, err)
			}
			results[i] = rewrite(rows, qv, tv)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged [][]feature.DMatch
	for _, rows := range results {
		merged = append(merged, rows...)
	}
	return merged, nil
}

// rewrite translates local query/train row indices in rows back to the
// original, global indices recorded in qv/tv's bookkeeping.
func rewrite(rows [][]feature.DMatch, qv, tv *view) [][]feature.DMatch {
	out := make([][]feature.DMatch, len(rows))
	for i, row := range rows {
		newRow := make([]feature.DMatch, len(row))
		for j, m := range row {
			newRow[j] = feature.DMatch{
				QueryIdx: qv.bookkeeping[m.QueryIdx],
				TrainIdx: tv.bookkeeping[m.TrainIdx],
				Distance: m.Distance,
			}
		}
		out[i] = newRow
	}
	return out
}

func checkShapes(q, t feature.Set) error {
	if q.Empty() || t.Empty() {
		return nil
	}
	if q.Descriptors.Cols() != t.Descriptors.Cols() {
		return fmt.Errorf("query cols=%d, train cols=%d: %w", q.Descriptors.Cols(), t.Descriptors.Cols(), ErrDescriptorShapeMismatch)
	}
	return nil
}
