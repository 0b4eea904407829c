/*
DESCRIPTION
  asift.go implements Helper, the package's high-level façade: it wires
  the view simulator, partitioned matcher, and tilt controller together
  behind the two operations external callers actually need.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package asift is the affine-covariant image matching engine's public
// entry point: construct a Helper from an asiftcfg.Config and call
// MatchWithMaxTilt or MatchIncrementingTilt on a pair of images.
package asift

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ausocean/asift/asiftcfg"
	"github.com/ausocean/asift/cvadapter"
	"github.com/ausocean/asift/feature"
	"github.com/ausocean/asift/partition"
	"github.com/ausocean/asift/simview"
	"github.com/ausocean/asift/tilt"
)

// Helper holds the external detector/extractor factory and matcher
// instances, and a logger for the verbosity knob — never package-level
// global state, so two Helpers with different configurations never
// interfere with each other.
type Helper struct {
	cfg asiftcfg.Config
	sim *simview.Simulator
	ctl *tilt.Controller
	bf  *cvadapter.BFMatcher
}

// New validates cfg (defaulting unset fields) and wires a Helper ready to
// match images. cfg.Logger must already be set.
func New(cfg asiftcfg.Config) (*Helper, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("asift: Config.Logger must be set")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("asift: invalid config: %w", err)
	}

	factory := func() (feature.Detector, feature.Extractor, error) {
		orb := cvadapter.NewORB(cfg.ORBFeatures)
		return orb, orb, nil
	}
	sim := simview.New(factory, simview.WithWorkers(cfg.SimWorkers), simview.WithLogger(cfg.Logger))

	bf := cvadapter.NewBFMatcher()
	mat := partition.New(bf, partition.WithWorkers(cfg.MatchWorkers))

	return &Helper{cfg: cfg, sim: sim, ctl: tilt.New(sim, mat), bf: bf}, nil
}

// Close releases the matcher instance the Helper owns. Pooled
// detector/extractor instances are owned and released internally by each
// Simulate call, not by the Helper.
func (h *Helper) Close() error {
	return h.bf.Close()
}

// MatchWithMaxTilt builds the full catalog at h.cfg.MaxTilt, simulates
// both images, matches every admissible view pair, and applies the ratio
// filter: a single shot, no progressive catalog growth.
func (h *Helper) MatchWithMaxTilt(ctx context.Context, a, b gocv.Mat) (tilt.Result, error) {
	res, err := h.ctl.MatchWithMaxTilt(ctx, a, b, h.cfg.MaxTilt, h.cfg.Ratio)
	if err != nil {
		h.cfg.Logger.Error("match_with_max_tilt failed", "error", err)
		return tilt.Result{}, err
	}
	h.cfg.Logger.Info("match_with_max_tilt done", "matches", len(res.Matches))
	return res, nil
}

// MatchIncrementingTilt progressively grows the simulated view set until
// the match-quality target is met or the tilt ceiling is reached.
func (h *Helper) MatchIncrementingTilt(ctx context.Context, a, b gocv.Mat) (tilt.Result, error) {
	res, err := h.ctl.MatchIncrementingTilt(ctx, a, b, tilt.Config{
		Ratio:         h.cfg.Ratio,
		TargetMatches: h.cfg.TargetMatches,
		MaxLevel:      h.cfg.MaxLevel,
	})
	if err != nil {
		h.cfg.Logger.Error("match_incrementing_tilt failed", "error", err)
		return tilt.Result{}, err
	}
	h.cfg.Logger.Info("match_incrementing_tilt done", "matches", len(res.Matches), "level", res.Level, "exhausted", res.Exhausted)
	return res, nil
}
