/*
DESCRIPTION
  Package fuse applies the two optional cleanup passes to a unified match
  list: Lowe's distance-ratio test, and spatial duplicate suppression.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package fuse filters and deduplicates a unified match list produced by
// package partition. Both passes are optional and are applied in a fixed
// order: ratio filter, then duplicate suppression.
package fuse

import (
	"math"
	"sort"

	"github.com/ausocean/asift/feature"
)

// RatioFilter keeps the first neighbor of each knn-match row only if its
// distance is below ratio times the second neighbor's distance (Lowe's
// test). Rows with fewer than two neighbors are accepted unconditionally;
// an empty row contributes nothing.
func RatioFilter(rows [][]feature.DMatch, ratio float64) []feature.DMatch {
	out := make([]feature.DMatch, 0, len(rows))
	for _, row := range rows {
		switch {
		case len(row) == 0:
			continue
		case len(row) == 1:
			out = append(out, row[0])
		default:
			if row[0].Distance < ratio*row[1].Distance {
				out = append(out, row[0])
			}
		}
	}
	return out
}

// Point is a 2D location used only for duplicate-suppression distance
// checks; callers supply the original-image coordinates of the query and
// train keypoints a DMatch refers to.
type Point struct{ X, Y float64 }

// Locator resolves a DMatch's query/train indices to original-image
// coordinates, so duplicate suppression can compare matches irrespective
// of which simulated view produced them.
type Locator interface {
	QueryPoint(idx int) Point
	TrainPoint(idx int) Point
}

// SuppressDuplicates removes matches that are spatial duplicates of a
// lower-distance match: two matches are duplicates when both their query
// points and their train points lie within cutoff pixels of each other.
// Of two duplicates the one with larger distance is discarded; between
// duplicates of equal distance, the one with lower (QueryIdx, TrainIdx)
// is kept. Survivors are returned sorted by (QueryIdx, TrainIdx) to give
// a deterministic result independent of input order.
func SuppressDuplicates(matches []feature.DMatch, loc Locator, cutoff float64) []feature.DMatch {
	order := make([]int, len(matches))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ma, mb := matches[order[a]], matches[order[b]]
		if ma.Distance != mb.Distance {
			return ma.Distance < mb.Distance
		}
		if ma.QueryIdx != mb.QueryIdx {
			return ma.QueryIdx < mb.QueryIdx
		}
		return ma.TrainIdx < mb.TrainIdx
	})

	kept := make([]feature.DMatch, 0, len(matches))
	for _, i := range order {
		m := matches[i]
		qp, tp := loc.QueryPoint(m.QueryIdx), loc.TrainPoint(m.TrainIdx)
		dup := false
		for _, k := range kept {
			kqp, ktp := loc.QueryPoint(k.QueryIdx), loc.TrainPoint(k.TrainIdx)
			if within(qp, kqp, cutoff) && within(tp, ktp, cutoff) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, m)
		}
	}

	sort.Slice(kept, func(a, b int) bool {
		if kept[a].QueryIdx != kept[b].QueryIdx {
			return kept[a].QueryIdx < kept[b].QueryIdx
		}
		return kept[a].TrainIdx < kept[b].TrainIdx
	})
	return kept
}

func within(a, b Point, cutoff float64) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Hypot(dx, dy) <= cutoff
}
