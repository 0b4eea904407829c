/*
DESCRIPTION
  affine.go implements the 2x3 affine transform type used to map
  simulated-view coordinates back to the original image, backed by
  gonum's dense matrix type for composition and inversion.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package simview

import (
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// Affine is a 2D affine transform, held internally as a 3x3 homogeneous
// matrix (bottom row [0 0 1]) so that composition and inversion reduce to
// ordinary matrix multiplication and gonum's general inverse.
type Affine struct {
	m *mat.Dense
}

// NewAffine builds an Affine from its six 2x3 coefficients, row-major:
//
//	[a b tx]
//	[c d ty]
func NewAffine(a, b, tx, c, d, ty float64) Affine {
	return Affine{m: mat.NewDense(3, 3, []float64{
		a, b, tx,
		c, d, ty,
		0, 0, 1,
	})}
}

// Identity returns the identity affine transform.
func Identity() Affine {
	return NewAffine(1, 0, 0, 0, 1, 0)
}

// FromGocvMat builds an Affine from a 2x3 CV_64F gocv matrix, the shape
// gocv.GetRotationMatrix2D returns.
func FromGocvMat(m gocv.Mat) Affine {
	return NewAffine(
		m.GetDoubleAt(0, 0), m.GetDoubleAt(0, 1), m.GetDoubleAt(0, 2),
		m.GetDoubleAt(1, 0), m.GetDoubleAt(1, 1), m.GetDoubleAt(1, 2),
	)
}

// ToGocvMat renders the affine as the 2x3 CV_64F matrix gocv.WarpAffine
// expects.
func (a Affine) ToGocvMat() gocv.Mat {
	out := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			out.SetDoubleAt(r, c, a.m.At(r, c))
		}
	}
	return out
}

// Compose returns the transform that applies b first, then a: for a
// point p, a.Compose(b).Apply(p) == a.Apply(b.Apply(p)).
func (a Affine) Compose(b Affine) Affine {
	var res mat.Dense
	res.Mul(a.m, b.m)
	return Affine{m: &res}
}

// Apply maps (x, y) forward through the transform.
func (a Affine) Apply(x, y float64) (float64, float64) {
	v := mat.NewVecDense(3, []float64{x, y, 1})
	var r mat.VecDense
	r.MulVec(a.m, v)
	return r.AtVec(0), r.AtVec(1)
}

// Inverse returns the transform that undoes a.
func (a Affine) Inverse() (Affine, error) {
	var inv mat.Dense
	if err := inv.Inverse(a.m); err != nil {
		return Affine{}, err
	}
	return Affine{m: &inv}, nil
}
