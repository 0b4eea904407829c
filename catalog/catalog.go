/*
DESCRIPTION
  Package catalog enumerates the discrete (tilt, rotation) view parameters
  used to drive affine view simulation. The catalog is pure data: it knows
  nothing about images, keypoints, or descriptors.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package catalog builds the deterministic set of simulated-view
// parameters (tilt and in-plane rotation) that the view simulator warps
// an image by.
package catalog

import (
	"errors"
	"fmt"
	"math"
)

// MaxViews bounds the number of distinct simulated views a catalog may
// contain. The original ASIFT source enforces an equivalent bound
// (AffAngles::MaxPossibleNumViews) without exposing its value; 1024 is
// documented here as this implementation's fixed choice.
const MaxViews = 1024

// ErrTooManyViews is returned when a requested max tilt would produce
// more than MaxViews catalog entries.
var ErrTooManyViews = errors.New("catalog: requested max tilt exceeds MaxViews")

// rotationStepBase is the 72-degree constant from the ASIFT rotation-step
// rule: rotation step at tilt t is rotationStepBase / t degrees.
const rotationStepBase = 72.0

// Entry is one simulated view: a tilt/rotation pair and its stable id.
type Entry struct {
	Tilt     float64 // t >= 1.
	Rotation float64 // degrees, in [0, 180).
	ViewID   int
}

// tiltLevel returns t = 2^(n/2) for level n = 1, 2, ...
func tiltLevel(n int) float64 {
	return math.Pow(2, float64(n)/2)
}

// rotationsAt returns the rotation angles, in enumeration order, used at
// tilt t: step Δφ = 72/t degrees, count = ceil(180/Δφ).
func rotationsAt(t float64) []float64 {
	step := rotationStepBase / t
	count := int(math.Ceil(180.0 / step))
	phis := make([]float64, count)
	for i := 0; i < count; i++ {
		phis[i] = float64(i) * step
	}
	return phis
}

// Catalog returns every (tilt, rotation) entry with tilt <= maxTilt, in
// stable enumeration order: the identity view first (id 0), then
// increasing tilt levels t = sqrt(2), 2, 2*sqrt(2), 4, ..., each
// contributing its rotations in increasing-angle order.
//
// Because later tilt levels only ever append new entries, Catalog(n) is
// always a prefix of Catalog(m) for m > n: existing view ids never change.
func Catalog(maxTilt float64) ([]Entry, error) {
	entries := []Entry{{Tilt: 1, Rotation: 0, ViewID: 0}}
	for n := 1; ; n++ {
		t := tiltLevel(n)
		if t > maxTilt {
			break
		}
		for _, phi := range rotationsAt(t) {
			entries = append(entries, Entry{Tilt: t, Rotation: phi, ViewID: len(entries)})
		}
		if len(entries) > MaxViews {
			return nil, fmt.Errorf("catalog: max_tilt=%v: %w", maxTilt, ErrTooManyViews)
		}
	}
	return entries, nil
}

// Increment returns the entries newly introduced when the catalog's max
// tilt grows from prevMaxTilt to maxTilt: every entry whose tilt is
// strictly greater than prevMaxTilt and at most maxTilt. It is equivalent
// to diffing Catalog(prevMaxTilt) against Catalog(maxTilt): it builds the
// full Catalog(maxTilt) and keeps only the entries above prevMaxTilt, so
// callers re-simulate only the new views.
func Increment(prevMaxTilt, maxTilt float64) ([]Entry, error) {
	full, err := Catalog(maxTilt)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range full {
		if e.Tilt > prevMaxTilt {
			out = append(out, e)
		}
	}
	return out, nil
}

// MaxTiltForLevel returns the max tilt that includes exactly levels
// 0..n (level 0 is the identity view alone). It is the value a caller
// passes to Catalog/Increment to advance the progressive tilt controller
// by one level.
func MaxTiltForLevel(n int) float64 {
	if n <= 0 {
		return 1
	}
	return tiltLevel(n)
}
