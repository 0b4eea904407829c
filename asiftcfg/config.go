/*
DESCRIPTION
  config.go holds the user-facing tunables of an affine matching run:
  detector/extractor/matcher sizing, ratio and progressive-controller
  thresholds, worker counts, and the logger every other component routes
  diagnostics through.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package asiftcfg holds the Config struct consumed by package asift's
// Helper, and the validate-and-default pass applied to it, in the same
// style as revid/config.Config.
package asiftcfg

import (
	"github.com/ausocean/utils/logging"
)

// Defaults for fields left unset (zero value) before Validate runs.
const (
	DefaultORBFeatures   = 500
	DefaultMaxTilt       = 5.656854249492381 // 2^(5/2), matching tilt.DefaultMaxLevel.
	DefaultRatio         = 0.8
	DefaultTargetMatches = 64
	DefaultMaxLevel      = 5
	DefaultSimWorkers    = 4
	DefaultMatchWorkers  = 4
)

// Config bundles every tunable of a single match_with_max_tilt or
// match_incrementing_tilt call.
type Config struct {
	// ORBFeatures bounds keypoints returned per detect/compute call.
	ORBFeatures int

	// MaxTilt is the ceiling passed to MatchWithMaxTilt; unused by
	// MatchIncrementingTilt, which instead grows the catalog level by
	// level up to MaxLevel.
	MaxTilt float64

	// Ratio is Lowe's ratio-test threshold, typically in [0.4, 0.8].
	Ratio float64

	// TargetMatches and MaxLevel are the progressive controller's stop
	// conditions; see tilt.Config.
	TargetMatches int
	MaxLevel      int

	// SimWorkers and MatchWorkers bound, respectively, how many views
	// are simulated concurrently and how many view-pairs are matched
	// concurrently.
	SimWorkers   int
	MatchWorkers int

	// Logger receives diagnostic output; every core package routes
	// through it rather than writing to stdout. Must be set for the
	// façade to work correctly.
	Logger logging.Logger
}

// Validate defaults every unset (zero-value) field and logs each
// defaulting decision through c.Logger, mirroring
// revid/config.Config.Validate's per-field defaulting pass. c.Logger must
// already be set; Validate does not default it.
func (c *Config) Validate() error {
	if c.ORBFeatures <= 0 {
		c.logInvalidField("ORBFeatures", DefaultORBFeatures)
		c.ORBFeatures = DefaultORBFeatures
	}
	if c.MaxTilt <= 0 {
		c.logInvalidField("MaxTilt", DefaultMaxTilt)
		c.MaxTilt = DefaultMaxTilt
	}
	if c.Ratio <= 0 {
		c.logInvalidField("Ratio", DefaultRatio)
		c.Ratio = DefaultRatio
	}
	if c.TargetMatches <= 0 {
		c.logInvalidField("TargetMatches", DefaultTargetMatches)
		c.TargetMatches = DefaultTargetMatches
	}
	if c.MaxLevel <= 0 {
		c.logInvalidField("MaxLevel", DefaultMaxLevel)
		c.MaxLevel = DefaultMaxLevel
	}
	if c.SimWorkers <= 0 {
		c.logInvalidField("SimWorkers", DefaultSimWorkers)
		c.SimWorkers = DefaultSimWorkers
	}
	if c.MatchWorkers <= 0 {
		c.logInvalidField("MatchWorkers", DefaultMatchWorkers)
		c.MatchWorkers = DefaultMatchWorkers
	}
	return nil
}

func (c *Config) logInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
