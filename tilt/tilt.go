/*
DESCRIPTION
  Package tilt implements the incremental-tilt controller: a state machine
  that grows the simulated view catalog level by level until either a
  match-count target is met or a tilt ceiling is reached, re-simulating
  and re-matching only the newly added views at each step.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tilt drives match_with_max_tilt and match_incrementing_tilt: it
// owns the level-by-level catalog growth, delegates simulation and
// matching to the caller-supplied Simulator and Matcher, and applies the ratio
// filter to the cumulative result at each step.
package tilt

import (
	"context"
	"errors"

	"gocv.io/x/gocv"

	"github.com/ausocean/asift/catalog"
	"github.com/ausocean/asift/feature"
	"github.com/ausocean/asift/fuse"
)

// DefaultTargetMatches is the default stopping threshold for the
// progressive controller.
const DefaultTargetMatches = 64

// DefaultMaxLevel is the default tilt-level ceiling (level 5 gives tilt
// up to t = 2^(5/2) ≈ 5.66).
const DefaultMaxLevel = 5

// ErrCancelled is returned when the context passed to
// MatchIncrementingTilt is done at a level boundary.
var ErrCancelled = errors.New("tilt: cancelled")

// Simulator produces a view-tagged feature set for the given catalog
// entries of one image.
type Simulator interface {
	Simulate(ctx context.Context, img gocv.Mat, entries []catalog.Entry) (feature.Set, error)
}

// Matcher performs k-nearest-neighbor matching restricted to the given
// view pairs, returning per-query-row neighbor lists exactly as
// partition.Matcher.KNNMatch does.
type Matcher interface {
	KNNMatch(q, t feature.Set, pairs []feature.ViewPair, k int) ([][]feature.DMatch, error)
}

// Result is the outcome of a single-shot or progressive match.
type Result struct {
	KeypointsA []feature.Keypoint
	KeypointsB []feature.Keypoint
	Matches    []feature.DMatch
	Level      int  // final tilt level reached (progressive only; 0 for single-shot).
	MaxTilt    float64
	Exhausted  bool // true iff the progressive controller hit MAX_LEVEL without meeting the target.
}

// Config bundles the controller's tunables.
type Config struct {
	Ratio         float64 // Lowe's ratio-test threshold.
	TargetMatches int     // progressive stop condition (a); 0 means DefaultTargetMatches.
	MaxLevel      int     // progressive stop condition (b); 0 means DefaultMaxLevel.
}

func (c Config) targetMatches() int {
	if c.TargetMatches <= 0 {
		return DefaultTargetMatches
	}
	return c.TargetMatches
}

func (c Config) maxLevel() int {
	if c.MaxLevel <= 0 {
		return DefaultMaxLevel
	}
	return c.MaxLevel
}

// Controller runs match_with_max_tilt and match_incrementing_tilt against
// caller-supplied simulation and matching capabilities.
type Controller struct {
	Sim Simulator
	Mat Matcher
}

// New returns a Controller driven by sim and mat.
func New(sim Simulator, mat Matcher) *Controller {
	return &Controller{Sim: sim, Mat: mat}
}

// MatchWithMaxTilt builds the full catalog at maxTilt, simulates both
// images, runs partitioned knn (k=2) matching over every view pair, and
// ratio-filters the result. Single shot: no progressive growth.
func (c *Controller) MatchWithMaxTilt(ctx context.Context, a, b gocv.Mat, maxTilt, ratio float64) (Result, error) {
	entries, err := catalog.Catalog(maxTilt)
	if err != nil {
		return Result{}, err
	}

	setA, err := c.Sim.Simulate(ctx, a, entries)
	if err != nil {
		return Result{}, err
	}
	defer setA.Close()
	setB, err := c.Sim.Simulate(ctx, b, entries)
	if err != nil {
		return Result{}, err
	}
	defer setB.Close()

	knn, err := c.Mat.KNNMatch(setA, setB, nil, 2)
	if err != nil {
		return Result{}, err
	}
	filtered := fuse.RatioFilter(knn, ratio)

	return Result{
		KeypointsA: setA.Keypoints,
		KeypointsB: setB.Keypoints,
		Matches:    filtered,
		MaxTilt:    maxTilt,
	}, nil
}

// state names the progressive loop's state-machine positions, kept as an
// explicit enum rather than recursive calls so a single cancellation
// check sits at the LevelStart transition.
type state int

const (
	stateLevelStart state = iota
	stateSimulate
	stateMatch
	stateFilter
	stateEvaluate
	stateDone
)

// MatchIncrementingTilt runs the progressive controller: starting from
// the identity view only, it grows the catalog one tilt level at a time,
// re-simulating and re-matching only the newly introduced views, unions
// new matches with those already retained, ratio-filters the cumulative
// list, and stops once the filtered count reaches cfg.TargetMatches or
// the level reaches cfg.MaxLevel.
func (c *Controller) MatchIncrementingTilt(ctx context.Context, a, b gocv.Mat, cfg Config) (Result, error) {
	var (
		setA, setB   feature.Set
		prevMaxTilt  float64
		prevNumA     int
		prevNumB     int
		level        int
		cumulative   [][]feature.DMatch // raw (pre-filter) knn rows, all levels so far.
		filtered     []feature.DMatch
		st           = stateLevelStart
		reachedLevel int
	)
	setA.Descriptors = gocv.NewMat()
	setB.Descriptors = gocv.NewMat()
	defer setA.Close()
	defer setB.Close()

	for {
		switch st {
		case stateLevelStart:
			if err := ctx.Err(); err != nil {
				return Result{}, ErrCancelled
			}
			if level > cfg.maxLevel() {
				st = stateDone
				reachedLevel = level - 1
				continue
			}
			st = stateSimulate

		case stateSimulate:
			maxTilt := catalog.MaxTiltForLevel(level)
			var newEntries []catalog.Entry
			var err error
			if level == 0 {
				newEntries, err = catalog.Catalog(maxTilt)
			} else {
				newEntries, err = catalog.Increment(prevMaxTilt, maxTilt)
			}
			if err != nil {
				return Result{}, err
			}

			newA, err := c.Sim.Simulate(ctx, a, newEntries)
			if err != nil {
				return Result{}, err
			}
			newB, err := c.Sim.Simulate(ctx, b, newEntries)
			if err != nil {
				newA.Close()
				return Result{}, err
			}

			prevNumA, prevNumB = setA.NumViews(), setB.NumViews()
			setA = appendSet(setA, newA)
			setB = appendSet(setB, newB)

			st = stateMatch
			prevMaxTilt = maxTilt

		case stateMatch:
			pairs := newViewPairs(prevNumA, prevNumB, setA.NumViews(), setB.NumViews())
			knn, err := c.Mat.KNNMatch(setA, setB, pairs, 2)
			if err != nil {
				return Result{}, err
			}
			cumulative = append(cumulative, knn...)
			st = stateFilter

		case stateFilter:
			filtered = fuse.RatioFilter(cumulative, cfg.Ratio)
			st = stateEvaluate

		case stateEvaluate:
			if len(filtered) >= cfg.targetMatches() {
				st = stateDone
				reachedLevel = level
				continue
			}
			level++
			st = stateLevelStart

		case stateDone:
			return Result{
				KeypointsA: setA.Keypoints,
				KeypointsB: setB.Keypoints,
				Matches:    filtered,
				Level:      reachedLevel,
				MaxTilt:    catalog.MaxTiltForLevel(reachedLevel),
				Exhausted:  reachedLevel >= cfg.maxLevel() && len(filtered) < cfg.targetMatches(),
			}, nil
		}
	}
}

// appendSet concatenates newly-simulated keypoints/descriptors onto an
// accumulating set, closing the inputs once absorbed.
func appendSet(acc, add feature.Set) feature.Set {
	out := feature.Set{Keypoints: append(acc.Keypoints, add.Keypoints...)}
	out.Descriptors = acc.Descriptors
	if !add.Descriptors.Empty() {
		out.Descriptors.PushBack(add.Descriptors)
	}
	add.Descriptors.Close()
	return out
}

// newViewPairs returns every (u, v) pair, within the post-append
// [0, newNumA) x [0, newNumB) id ranges, where u or v falls in the range
// newly appended this level (id >= the corresponding prevNum). Catalog
// ids are monotone and Simulate appends in catalog order, so "newly
// appended" is exactly the high end of each range; at level 0,
// prevNumA == prevNumB == 0 and every pair qualifies, since the first
// iteration has nothing old to exclude.
func newViewPairs(prevNumA, prevNumB, newNumA, newNumB int) []feature.ViewPair {
	var pairs []feature.ViewPair
	for u := 0; u < newNumA; u++ {
		for v := 0; v < newNumB; v++ {
			if u >= prevNumA || v >= prevNumB {
				pairs = append(pairs, feature.ViewPair{Query: u, Train: v})
			}
		}
	}
	return pairs
}
