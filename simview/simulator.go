/*
DESCRIPTION
  simulator.go implements the view simulator: for each catalog entry, warp
  the source image, detect and describe keypoints in the warped frame,
  drop keypoints the warp cannot vouch for, map surviving keypoints back
  into the source image's coordinate frame, correct for the view's
  in-plane rotation, and tag each with its originating view id.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package simview

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"gocv.io/x/gocv"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/asift/catalog"
	"github.com/ausocean/asift/feature"
)

// Factory constructs one detector/extractor pair. The simulator calls it
// once per pool slot; the pair must be safe to reuse serially across many
// views but need not be safe for concurrent use by more than one
// goroutine at a time, matching the pooling contract of toolPool.
type Factory func() (feature.Detector, feature.Extractor, error)

// Simulator runs the view simulation step of the matching pipeline: it
// warps an image according to a catalog of (tilt, rotation) entries,
// detects and describes features in each warped view, and reassembles the
// surviving, coordinate-corrected keypoints into one view-tagged
// feature.Set.
type Simulator struct {
	factory Factory
	logger  logging.Logger
	workers int
}

// Option configures a Simulator at construction time.
type Option func(*Simulator)

// WithWorkers bounds the number of views simulated concurrently and, by
// construction, the number of pooled detector/extractor instances. The
// default is 1 (serial).
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger attaches a logger. Without one, Simulate runs silently.
func WithLogger(l logging.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// New returns a Simulator that builds its detector/extractor instances
// from factory.
func New(factory Factory, opts ...Option) *Simulator {
	s := &Simulator{factory: factory, workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) logf(level int8, format string, args ...interface{}) {
	if s.logger == nil {
		return
	}
	s.logger.Log(level, fmt.Sprintf(format, args...))
}

// Simulate runs view simulation over every entry, concurrently up to
// s.workers, and returns the concatenation of all surviving per-view
// feature sets in catalog order — the deterministic-ordering invariant
// partition and fuse both depend on. A view that fails to warp (image too
// small to tilt) or yields no surviving keypoints is skipped, not an
// error; Simulate only fails if every entry failed outright.
func (s *Simulator) Simulate(ctx context.Context, img gocv.Mat, entries []catalog.Entry) (feature.Set, error) {
	if img.Empty() {
		return feature.Set{Descriptors: gocv.NewMat()}, nil
	}
	if len(entries) == 0 {
		return feature.Set{Descriptors: gocv.NewMat()}, nil
	}

	poolSize := s.workers
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := newToolPool(poolSize, s.factory)
	if err != nil {
		return feature.Set{}, fmt.Errorf("simview: building tool pool: %w", err)
	}
	defer pool.drainAndClose(poolSize)

	results := make([]feature.Set, len(entries))
	for i := range results {
		results[i].Descriptors = gocv.NewMat()
	}
	failed := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			set, err := s.simulateOne(gctx, img, e, pool)
			if err != nil {
				s.logf(logging.Debug, "view %d (tilt=%.3f rot=%.1f) skipped: %v", e.ViewID, e.Tilt, e.Rotation, err)
				failed[i] = true
				return nil
			}
			results[i].Descriptors.Close()
			results[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return feature.Set{}, err
	}

	allFailed := true
	for _, f := range failed {
		if !f {
			allFailed = false
			break
		}
	}
	if allFailed {
		return feature.Set{}, fmt.Errorf("simview: every one of %d views failed", len(entries))
	}

	return concat(results), nil
}

// simulateOne runs the full per-view pipeline (warp, detect, compute,
// mask-filter, inverse-map, orientation-correct, tag) for a single
// catalog entry.
func (s *Simulator) simulateOne(ctx context.Context, img gocv.Mat, e catalog.Entry, pool *toolPool) (feature.Set, error) {
	if err := ctx.Err(); err != nil {
		return feature.Set{}, err
	}

	w, err := warpView(img, e)
	if err != nil {
		return feature.Set{}, err
	}
	defer w.Close()

	t := pool.acquire()
	defer pool.release(t)

	kps, err := t.detector.Detect(w.img, w.mask)
	if err != nil {
		return feature.Set{}, fmt.Errorf("detect: %w", err)
	}
	if len(kps) == 0 {
		return feature.Set{Descriptors: gocv.NewMat()}, nil
	}

	kps, desc, err := t.extractor.Compute(w.img, kps)
	if err != nil {
		desc.Close()
		return feature.Set{}, fmt.Errorf("compute: %w", err)
	}
	if len(kps) == 0 {
		desc.Close()
		return feature.Set{Descriptors: gocv.NewMat()}, nil
	}
	defer desc.Close()

	inv, err := w.fwd.Inverse()
	if err != nil {
		return feature.Set{}, fmt.Errorf("inverting view affine: %w", err)
	}

	keep := make([]int, 0, len(kps))
	out := make([]feature.Keypoint, 0, len(kps))
	for i, k := range kps {
		if !maskAllows(w.mask, k.X, k.Y) {
			continue
		}
		x, y := inv.Apply(k.X, k.Y)
		out = append(out, feature.Keypoint{
			X:        x,
			Y:        y,
			Size:     k.Size,
			Angle:    math.Mod(k.Angle-e.Rotation+360, 360),
			Response: k.Response,
			ViewID:   e.ViewID,
		})
		keep = append(keep, i)
	}
	if len(out) == 0 {
		return feature.Set{Descriptors: gocv.NewMat()}, nil
	}

	return feature.Set{Keypoints: out, Descriptors: selectRows(desc, keep)}, nil
}

// maskAllows reports whether mask is nonzero at the (possibly
// fractional) pixel location (x, y), i.e. whether that location in the
// warped view was derived from real source pixels rather than padding.
// Out-of-bounds locations are disallowed.
func maskAllows(mask gocv.Mat, x, y float64) bool {
	xi, yi := int(math.Round(x)), int(math.Round(y))
	if xi < 0 || yi < 0 || xi >= mask.Cols() || yi >= mask.Rows() {
		return false
	}
	return mask.GetUCharAt(yi, xi) != 0
}
