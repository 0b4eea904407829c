/*
DESCRIPTION
  warp.go builds the forward affine for one simulated view and applies it
  to an image: rotate into an enlarged canvas, anti-alias blur along the
  axis to be compressed, then anisotropically tilt.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package simview

import (
	"errors"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/ausocean/asift/catalog"
)

// minWarpedDimension is the smallest width or height, in pixels, a warped
// image may have; smaller and the view is skipped as too small to tilt.
const minWarpedDimension = 4

// ErrImageTooSmall is returned by warp when the tilted image would fall
// below minWarpedDimension along either axis.
var ErrImageTooSmall = errors.New("simview: warped image too small to tilt")

// warped holds the result of warping an image for one catalog entry: the
// image itself, its coverage mask (255 = derived from real source pixels,
// 0 = padding), and the forward affine mapping original-image coordinates
// into the warped image.
type warped struct {
	img  gocv.Mat
	mask gocv.Mat
	fwd  Affine
}

func (w warped) Close() {
	w.img.Close()
	w.mask.Close()
}

// warpView applies the rotation, anti-alias blur, and tilt steps of the
// view simulation algorithm to src for the given catalog entry. The
// identity entry (tilt 1, rotation 0) is special-cased to a zero-cost
// pass-through with an exactly-identity affine, so the identity-view
// round-trip invariant holds to floating-point precision rather than to
// whatever residual gocv's rotation/resize primitives leave behind at
// zero angle and unit scale.
func warpView(src gocv.Mat, e catalog.Entry) (warped, error) {
	if e.Tilt == 1 && e.Rotation == 0 {
		mask := gocv.NewMatWithSize(src.Rows(), src.Cols(), gocv.MatTypeCV8U)
		mask.SetTo(gocv.NewScalar(255, 0, 0, 0))
		return warped{img: src.Clone(), mask: mask, fwd: Identity()}, nil
	}

	rotated, rot, err := rotate(src, e.Rotation)
	if err != nil {
		return warped{}, err
	}

	blurred := antiAlias(rotated, e.Tilt)
	rotated.Close()

	tilted, tilt, err := tiltAxis(blurred, e.Tilt)
	blurred.Close()
	if err != nil {
		return warped{}, err
	}

	fwd := tilt.Compose(rot)

	srcMask := gocv.NewMatWithSize(src.Rows(), src.Cols(), gocv.MatTypeCV8U)
	srcMask.SetTo(gocv.NewScalar(255, 0, 0, 0))
	defer srcMask.Close()
	mask := gocv.NewMat()
	gocv.WarpAffine(srcMask, &mask, fwd.ToGocvMat(), image.Pt(tilted.Cols(), tilted.Rows()))

	return warped{img: tilted, mask: mask, fwd: fwd}, nil
}

// rotate rotates src by phi degrees about its center into a canvas large
// enough to hold the full rotated content, returning the warped image and
// the affine that produced it.
func rotate(src gocv.Mat, phi float64) (gocv.Mat, Affine, error) {
	w, h := src.Cols(), src.Rows()
	center := image.Pt(w/2, h/2)
	rotMat := gocv.GetRotationMatrix2D(center, phi, 1.0)
	defer rotMat.Close()

	rad := phi * math.Pi / 180
	cos, sin := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	newW := int(math.Ceil(float64(h)*sin + float64(w)*cos))
	newH := int(math.Ceil(float64(h)*cos + float64(w)*sin))
	if newW < minWarpedDimension || newH < minWarpedDimension {
		return gocv.Mat{}, Affine{}, ErrImageTooSmall
	}

	rot := FromGocvMat(rotMat)
	// Recenter into the enlarged canvas: shift by the difference between
	// the new and old centers.
	shift := NewAffine(1, 0, float64(newW)/2-float64(center.X), 0, 1, float64(newH)/2-float64(center.Y))
	rot = shift.Compose(rot)

	dst := gocv.NewMat()
	gocv.WarpAffine(src, &dst, rot.ToGocvMat(), image.Pt(newW, newH))
	return dst, rot, nil
}

// antiAlias applies the ASIFT 1-D Gaussian pre-filter along the axis that
// tilt will subsequently compress (always the vertical axis, post
// rotation): sigma = 0.8*sqrt(t^2-1). A tilt of 1 needs no filtering.
func antiAlias(src gocv.Mat, t float64) gocv.Mat {
	if t <= 1 {
		return src.Clone()
	}
	sigma := 0.8 * math.Sqrt(t*t-1)
	k := int(2*math.Ceil(3*sigma) + 1)
	if k < 3 {
		k = 3
	}
	dst := gocv.NewMat()
	gocv.GaussianBlur(src, &dst, image.Pt(1, k), sigma, 0, gocv.BorderDefault)
	return dst
}

// tiltAxis subsamples src along the vertical axis by factor t, returning
// the resized image and the affine (a pure anisotropic scale) that
// produced it. The scale factor used is the image's actual resulting
// height ratio rather than 1/t exactly, so the affine stays consistent
// with whatever rounding gocv.Resize performed when it chose a pixel
// height.
func tiltAxis(src gocv.Mat, t float64) (gocv.Mat, Affine, error) {
	if t == 1 {
		return src.Clone(), Identity(), nil
	}
	newH := int(math.Round(float64(src.Rows()) / t))
	if newH < minWarpedDimension {
		return gocv.Mat{}, Affine{}, ErrImageTooSmall
	}
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(src.Cols(), newH), 0, 0, gocv.InterpolationLinear)

	sy := float64(newH) / float64(src.Rows())
	return dst, NewAffine(1, 0, 0, 0, sy, 0), nil
}
