package simview

import (
	"gocv.io/x/gocv"

	"github.com/ausocean/asift/feature"
)

// concat concatenates per-view feature sets, in the order given, into one
// feature set with a single stacked descriptor matrix. Each input set is
// closed after being absorbed.
func concat(sets []feature.Set) feature.Set {
	out := feature.Set{Descriptors: gocv.NewMat()}
	for _, s := range sets {
		out.Keypoints = append(out.Keypoints, s.Keypoints...)
		if !s.Descriptors.Empty() {
			out.Descriptors.PushBack(s.Descriptors)
		}
		s.Descriptors.Close()
	}
	return out
}

// selectRows builds a new matrix containing only the given rows of desc,
// in order, without assuming anything about desc's element type: it
// stacks row views the same way package partition stacks per-view
// descriptor rows.
func selectRows(desc gocv.Mat, keep []int) gocv.Mat {
	out := gocv.NewMat()
	for _, i := range keep {
		row := desc.RowRange(i, i+1)
		out.PushBack(row)
		row.Close()
	}
	return out
}
