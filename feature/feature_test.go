package feature

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestSetNumViews(t *testing.T) {
	s := Set{Keypoints: []Keypoint{{ViewID: 0}, {ViewID: 2}, {ViewID: 1}}}
	if got := s.NumViews(); got != 3 {
		t.Errorf("NumViews() = %d, want 3", got)
	}
}

func TestSetNumViewsEmpty(t *testing.T) {
	var s Set
	if got := s.NumViews(); got != 0 {
		t.Errorf("NumViews() on empty set = %d, want 0", got)
	}
}

func TestSetEmpty(t *testing.T) {
	var s Set
	if !s.Empty() {
		t.Error("zero-value Set should be Empty")
	}
	s.Keypoints = append(s.Keypoints, Keypoint{})
	if s.Empty() {
		t.Error("Set with a keypoint should not be Empty")
	}
}

func TestSetClose(t *testing.T) {
	s := Set{Descriptors: gocv.NewMat()}
	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
