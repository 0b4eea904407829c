/*
DESCRIPTION
  Package feature defines the data model (keypoint, feature set, match)
  shared by every core package, and the abstract detector/extractor/
  matcher capabilities the core consumes.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package feature holds the core's data model: keypoints, descriptor-
// backed feature sets, matches, and the narrow Detector/Extractor/Matcher
// interfaces that the view simulator and partitioned matcher consume.
//
// Descriptor matrices are gocv.Mat: a real dense matrix type, row i of
// which describes keypoint i of the same Set. The core never inspects a
// Mat's element type or width beyond comparing two Mats' column counts.
package feature

import "gocv.io/x/gocv"

// Keypoint is a detected salient location in image coordinates, tagged
// with the id of the simulated view it was produced from. ViewID is a
// first-class field rather than a repurposed general-purpose tag, so the
// view simulator and partitioned matcher never fight another consumer for
// ownership of it.
type Keypoint struct {
	X, Y     float64 // Pixel location in the image the Set was built from.
	Size     float64 // Scale reported by the extractor.
	Angle    float64 // Orientation in degrees, in the image's own frame.
	Response float64 // Detector strength/confidence.
	ViewID   int
}

// Set is an ordered keypoint/descriptor bundle of equal cardinality:
// Descriptors.Rows() == len(Keypoints), and row i of Descriptors
// describes Keypoints[i]. Insertion order is stable and is the identity
// used by DMatch indices.
type Set struct {
	Keypoints   []Keypoint
	Descriptors gocv.Mat
}

// NumViews returns one more than the maximum ViewID present in s, i.e.
// the number of distinct views s's keypoints were drawn from. An empty
// set has zero views.
func (s Set) NumViews() int {
	max := -1
	for _, k := range s.Keypoints {
		if k.ViewID > max {
			max = k.ViewID
		}
	}
	return max + 1
}

// Close releases the gocv resources backing the descriptor matrix. Every
// Set returned by this module must be Closed by its owner exactly once.
func (s Set) Close() error {
	return s.Descriptors.Close()
}

// Empty reports whether s carries no keypoints.
func (s Set) Empty() bool {
	return len(s.Keypoints) == 0
}

// DMatch is a single correspondence between a query and a train keypoint.
// Indices refer to the original, pre-partition Set ordering; Distance is
// non-negative, smaller is a better match.
type DMatch struct {
	QueryIdx int
	TrainIdx int
	Distance float64
}

// ViewPair identifies an ordered (query view, train view) pairing to be
// matched.
type ViewPair struct {
	Query int
	Train int
}

// Detector finds salient locations in an image. img and mask are gocv
// Mats; mask may be empty (zero Mat) to mean "no mask". Returned
// keypoints carry no meaningful ViewID: the caller overwrites it before
// trusting it for partitioning.
type Detector interface {
	Detect(img, mask gocv.Mat) ([]Keypoint, error)
}

// Extractor computes a descriptor for each of a set of keypoints,
// possibly dropping keypoints it cannot describe. The returned keypoint
// slice and descriptor matrix have matching, possibly-reduced, length.
type Extractor interface {
	Compute(img gocv.Mat, kps []Keypoint) ([]Keypoint, gocv.Mat, error)
}

// Matcher finds nearest-neighbor descriptor correspondences. Indices in
// returned DMatches are into query/train row ordering as passed in, not
// into any wider feature set; callers needing larger-index-space results
// rewrite indices themselves (see package partition).
type Matcher interface {
	KNNMatch(query, train gocv.Mat, k int) ([][]DMatch, error)
	RadiusMatch(query, train gocv.Mat, radius float64) ([][]DMatch, error)
}
