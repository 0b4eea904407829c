package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIdentityOnly(t *testing.T) {
	got, err := Catalog(1)
	if err != nil {
		t.Fatalf("Catalog(1): %v", err)
	}
	want := []Entry{{Tilt: 1, Rotation: 0, ViewID: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Catalog(1) mismatch (-want +got):\n%s", diff)
	}
}

// TestCatalogSize checks Scenario S4: catalog(max_tilt=2) contains the
// identity view plus 4 rotations at tilt sqrt(2) and 5 at tilt 2.
func TestCatalogSize(t *testing.T) {
	got, err := Catalog(2)
	if err != nil {
		t.Fatalf("Catalog(2): %v", err)
	}
	if len(got) != 1+4+5 {
		t.Fatalf("Catalog(2) has %d entries, want %d", len(got), 1+4+5)
	}

	var atSqrt2, at2 int
	for _, e := range got[1:] {
		switch {
		case math.Abs(e.Tilt-math.Sqrt2) < 1e-9:
			atSqrt2++
		case math.Abs(e.Tilt-2) < 1e-9:
			at2++
		default:
			t.Errorf("unexpected tilt level %v in Catalog(2)", e.Tilt)
		}
	}
	if atSqrt2 != 4 {
		t.Errorf("rotations at tilt sqrt(2) = %d, want 4", atSqrt2)
	}
	if at2 != 5 {
		t.Errorf("rotations at tilt 2 = %d, want 5", at2)
	}
}

// TestCatalogMonotone checks Scenario/property 5: catalog(n) is a prefix
// of catalog(n+1).
func TestCatalogMonotone(t *testing.T) {
	small, err := Catalog(2)
	if err != nil {
		t.Fatal(err)
	}
	big, err := Catalog(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(big) < len(small) {
		t.Fatalf("Catalog(4) shorter than Catalog(2)")
	}
	for i, e := range small {
		if diff := cmp.Diff(e, big[i]); diff != "" {
			t.Errorf("entry %d changed between Catalog(2) and Catalog(4) (-before +after):\n%s", i, diff)
		}
	}
}

func TestIncrement(t *testing.T) {
	inc, err := Increment(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	full, err := Catalog(2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(full[1:], inc); diff != "" {
		t.Errorf("Increment(1, 2) mismatch (-want +got):\n%s", diff)
	}
}

func TestIncrementEmptyWhenNoGrowth(t *testing.T) {
	inc, err := Increment(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(inc) != 0 {
		t.Errorf("Increment(2, 2) = %v, want empty", inc)
	}
}

func TestCatalogTooManyViews(t *testing.T) {
	// A tilt large enough to blow well past MaxViews rotations.
	_, err := Catalog(1e6)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyViews))
}

func TestMaxTiltForLevel(t *testing.T) {
	assert.Equal(t, 1.0, MaxTiltForLevel(0))
	assert.InDelta(t, 2.0, MaxTiltForLevel(2), 1e-9)
}
