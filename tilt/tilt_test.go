package tilt

import (
	"context"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ausocean/asift/catalog"
	"github.com/ausocean/asift/feature"
)

// fakeSim returns one keypoint per catalog entry handed to it, with
// trivial single-float descriptors, so tests can reason about which
// views were (re-)simulated without touching gocv image processing.
type fakeSim struct {
	calls [][]catalog.Entry
}

func (f *fakeSim) Simulate(_ context.Context, _ gocv.Mat, entries []catalog.Entry) (feature.Set, error) {
	f.calls = append(f.calls, entries)
	desc := gocv.NewMat()
	for _, e := range entries {
		row := gocv.NewMatWithSize(1, 1, gocv.MatTypeCV32F)
		row.SetFloatAt(0, 0, float32(e.ViewID))
		desc.PushBack(row)
		row.Close()
	}
	kps := make([]feature.Keypoint, len(entries))
	for i, e := range entries {
		kps[i] = feature.Keypoint{ViewID: e.ViewID}
	}
	return feature.Set{Keypoints: kps, Descriptors: desc}, nil
}

// fakeMatcher always returns a single neighbor per query row with a
// fixed, arbitrarily distinguishable distance, so the ratio filter always
// accepts it (k=2 branch still triggers "accept unconditionally" because
// only one neighbor exists per row).
type fakeMatcher struct {
	calls int
}

func (f *fakeMatcher) KNNMatch(q, t feature.Set, pairs []feature.ViewPair, k int) ([][]feature.DMatch, error) {
	f.calls++
	if len(pairs) == 0 {
		for u := 0; u < q.NumViews(); u++ {
			for v := 0; v < t.NumViews(); v++ {
				pairs = append(pairs, feature.ViewPair{Query: u, Train: v})
			}
		}
	}
	out := make([][]feature.DMatch, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, []feature.DMatch{{QueryIdx: p.Query, TrainIdx: p.Train, Distance: 1}})
	}
	return out, nil
}

func TestMatchWithMaxTilt(t *testing.T) {
	sim := &fakeSim{}
	mat := &fakeMatcher{}
	c := New(sim, mat)

	res, err := c.MatchWithMaxTilt(context.Background(), gocv.NewMat(), gocv.NewMat(), 2, 1.0)
	if err != nil {
		t.Fatalf("MatchWithMaxTilt: %v", err)
	}
	entries, _ := catalog.Catalog(2)
	if len(res.KeypointsA) != len(entries) {
		t.Fatalf("got %d keypoints, want %d", len(res.KeypointsA), len(entries))
	}
	if mat.calls != 1 {
		t.Fatalf("expected exactly one matcher call, got %d", mat.calls)
	}
}

func TestMatchIncrementingTiltStopsEarly(t *testing.T) {
	sim := &fakeSim{}
	mat := &fakeMatcher{}
	c := New(sim, mat)

	// Level 0 has one view (identity) -> one pair -> one match. Target
	// of 1 is met immediately, so the loop must stop after level 0 and
	// never ask the simulator for level 1's entries.
	res, err := c.MatchIncrementingTilt(context.Background(), gocv.NewMat(), gocv.NewMat(), Config{Ratio: 1.0, TargetMatches: 1, MaxLevel: 5})
	if err != nil {
		t.Fatalf("MatchIncrementingTilt: %v", err)
	}
	if res.Level != 0 {
		t.Fatalf("expected to stop at level 0, got %d", res.Level)
	}
	if res.Exhausted {
		t.Fatalf("did not expect ceiling to be reported reached")
	}
	if len(sim.calls) != 2 { // one call for image a, one for image b.
		t.Fatalf("expected simulator called twice (a and b) at level 0, got %d", len(sim.calls))
	}
}

func TestMatchIncrementingTiltReachesCeiling(t *testing.T) {
	sim := &fakeSim{}
	mat := &fakeMatcher{}
	c := New(sim, mat)

	res, err := c.MatchIncrementingTilt(context.Background(), gocv.NewMat(), gocv.NewMat(), Config{Ratio: 1.0, TargetMatches: 1 << 20, MaxLevel: 2})
	if err != nil {
		t.Fatalf("MatchIncrementingTilt: %v", err)
	}
	if res.Level != 2 {
		t.Fatalf("expected to climb to the ceiling level 2, got %d", res.Level)
	}
	if !res.Exhausted {
		t.Fatalf("expected ceiling-reached to be reported")
	}
}

func TestMatchIncrementingTiltCancelled(t *testing.T) {
	sim := &fakeSim{}
	mat := &fakeMatcher{}
	c := New(sim, mat)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.MatchIncrementingTilt(ctx, gocv.NewMat(), gocv.NewMat(), Config{Ratio: 1.0, TargetMatches: 1 << 20})
	if err != ErrCancelled {
		t.Fatalf("got err %v, want ErrCancelled", err)
	}
}

func TestNewViewPairsFirstLevelIsEverything(t *testing.T) {
	pairs := newViewPairs(0, 0, 3, 2)
	if len(pairs) != 6 {
		t.Fatalf("got %d pairs, want 6", len(pairs))
	}
}

func TestNewViewPairsExcludesOldRectangle(t *testing.T) {
	// Growing from 2x2 known views to 3x3: the old (u<2, v<2) rectangle
	// must be excluded, leaving every pair touching the new id 2.
	pairs := newViewPairs(2, 2, 3, 3)
	for _, p := range pairs {
		if p.Query < 2 && p.Train < 2 {
			t.Fatalf("pair %+v should have been excluded as already-covered", p)
		}
	}
	want := 3*3 - 2*2
	if len(pairs) != want {
		t.Fatalf("got %d pairs, want %d", len(pairs), want)
	}
}
