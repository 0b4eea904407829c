package simview

import (
	"math"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	a := Identity()
	inv, err := a.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	x, y := 12.5, -3.25
	wx, wy := a.Apply(x, y)
	rx, ry := inv.Apply(wx, wy)
	if math.Abs(rx-x) > 1e-9 || math.Abs(ry-y) > 1e-9 {
		t.Errorf("round trip = (%v, %v), want (%v, %v)", rx, ry, x, y)
	}
}

func TestComposeAndInverseRoundTrip(t *testing.T) {
	r := NewAffine(math.Cos(0.4), -math.Sin(0.4), 3, math.Sin(0.4), math.Cos(0.4), -7)
	scale := NewAffine(1, 0, 0, 0, 0.5, 0)
	a := scale.Compose(r)

	inv, err := a.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]float64{{0, 0}, {10, 10}, {-5, 20}} {
		wx, wy := a.Apply(p[0], p[1])
		rx, ry := inv.Apply(wx, wy)
		if math.Abs(rx-p[0]) > 1e-6 || math.Abs(ry-p[1]) > 1e-6 {
			t.Errorf("round trip for %v = (%v, %v)", p, rx, ry)
		}
	}
}

func TestComposeOrderMatters(t *testing.T) {
	translate := NewAffine(1, 0, 10, 0, 1, 0)
	scale := NewAffine(2, 0, 0, 0, 2, 0)

	x1, y1 := scale.Compose(translate).Apply(1, 1) // translate then scale: (1+10,1)*2
	x2, y2 := translate.Compose(scale).Apply(1, 1) // scale then translate: (2,2)+ (10,0)

	if x1 == x2 && y1 == y2 {
		t.Fatalf("expected order-dependent results, got (%v,%v) both ways", x1, y1)
	}
	if math.Abs(x1-22) > 1e-9 || math.Abs(y1-2) > 1e-9 {
		t.Errorf("scale.Compose(translate).Apply(1,1) = (%v,%v), want (22,2)", x1, y1)
	}
	if math.Abs(x2-12) > 1e-9 || math.Abs(y2-2) > 1e-9 {
		t.Errorf("translate.Compose(scale).Apply(1,1) = (%v,%v), want (12,2)", x2, y2)
	}
}
