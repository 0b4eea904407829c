/*
DESCRIPTION
  orb.go adapts gocv's ORB binding to the feature.Detector and
  feature.Extractor capabilities.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cvadapter binds the core's abstract Detector/Extractor/Matcher
// capabilities (package feature) to concrete gocv algorithms. The core
// packages (catalog, simview, partition, fuse, tilt) never import this
// package or any gocv detector/extractor/matcher type; only the façade
// and its callers do, so swapping ORB/BFMatcher for another algorithm
// never touches core code.
package cvadapter

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/ausocean/asift/feature"
)

// ErrUnsupportedKeypoints is returned by ORB.Compute when asked to
// describe a keypoint set it did not itself just produce via Detect.
// gocv's ORB binding exposes no entry point that computes descriptors
// for an externally supplied keypoint set; DetectAndCompute is the only
// primitive available, and it always detects its own keypoints.
var ErrUnsupportedKeypoints = errors.New("cvadapter: ORB.Compute requires keypoints from its own preceding Detect call")

// ORB wraps a gocv ORB instance as both a feature.Detector and a
// feature.Extractor. ORB is patent-unencumbered, unlike SIFT/SURF, which
// is why the original ASIFT CLI's default build uses it. A zero-value ORB
// is not usable; construct with NewORB.
//
// Detect and Compute only decouple correctly when called as a pair on
// the same ORB instance, in that order, with Compute's kps argument the
// exact slice Detect returned — exactly how Helper wires them (the same
// *ORB satisfies both feature.Detector and feature.Extractor). Used any
// other way, Compute returns ErrUnsupportedKeypoints rather than
// silently redetecting and handing back descriptors for the wrong
// keypoints.
type ORB struct {
	orb gocv.ORB

	pendingKps  []feature.Keypoint
	pendingDesc gocv.Mat
	hasPending  bool
}

// NewORB constructs an ORB adapter configured for nFeatures keypoints per
// call. gocv.NewORBWithParams exposes many more knobs than the core
// needs; nFeatures is the only one this adapter's callers have reason to
// tune (no extractor-algorithm-specific configuration belongs in the
// core).
func NewORB(nFeatures int) *ORB {
	if nFeatures <= 0 {
		nFeatures = 500
	}
	return &ORB{orb: gocv.NewORBWithParams(nFeatures, 1.2, 8, 31, 0, 2, gocv.ORBScoreTypeHarris, 31, 20)}
}

// Close releases the underlying gocv ORB instance and any descriptor
// matrix left over from a Detect call whose matching Compute never ran.
func (o *ORB) Close() error {
	if o.hasPending {
		o.pendingDesc.Close()
		o.hasPending = false
	}
	return o.orb.Close()
}

// Detect implements feature.Detector. ORB's gocv binding only exposes
// detection bundled with description, so Detect computes the descriptor
// matrix it necessarily produces along the way and holds onto it for the
// matching Compute call, rather than discarding and redoing the work.
func (o *ORB) Detect(img, mask gocv.Mat) ([]feature.Keypoint, error) {
	gkps, desc := o.orb.DetectAndCompute(img, mask)
	if o.hasPending {
		o.pendingDesc.Close()
	}
	kps := fromGocv(gkps)
	o.pendingKps, o.pendingDesc, o.hasPending = kps, desc, true
	return kps, nil
}

// Compute implements feature.Extractor. See the ORB doc comment: it only
// succeeds for the keypoints this instance's own Detect call just
// produced.
func (o *ORB) Compute(img gocv.Mat, kps []feature.Keypoint) ([]feature.Keypoint, gocv.Mat, error) {
	if !o.hasPending || !sameKeypoints(o.pendingKps, kps) {
		return nil, gocv.NewMat(), ErrUnsupportedKeypoints
	}
	desc := o.pendingDesc
	o.hasPending = false
	return o.pendingKps, desc, nil
}

// sameKeypoints reports whether a and b are the same backing slice, the
// only case ORB.Compute can honor.
func sameKeypoints(a, b []feature.Keypoint) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

func fromGocv(gkps []gocv.KeyPoint) []feature.Keypoint {
	out := make([]feature.Keypoint, len(gkps))
	for i, k := range gkps {
		out[i] = feature.Keypoint{
			X:        k.X,
			Y:        k.Y,
			Size:     k.Size,
			Angle:    k.Angle,
			Response: k.Response,
		}
	}
	return out
}
