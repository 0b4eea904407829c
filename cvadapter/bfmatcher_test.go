package cvadapter

import (
	"testing"

	"github.com/ausocean/asift/feature"
)

func TestFilterByRadiusKeepsOnlyWithinRadius(t *testing.T) {
	knn := [][]feature.DMatch{
		{
			{QueryIdx: 0, TrainIdx: 2, Distance: 30},
			{QueryIdx: 0, TrainIdx: 1, Distance: 10},
			{QueryIdx: 0, TrainIdx: 3, Distance: 20},
		},
		{},
	}
	got := filterByRadius(knn, 20)
	if len(got[0]) != 2 {
		t.Fatalf("got %d matches within radius, want 2", len(got[0]))
	}
	if got[0][0].TrainIdx != 1 || got[0][1].TrainIdx != 3 {
		t.Fatalf("matches not sorted ascending by distance: %+v", got[0])
	}
	if len(got[1]) != 0 {
		t.Fatalf("expected no matches for empty row, got %d", len(got[1]))
	}
}

func TestFromGocvMatchesPreservesShape(t *testing.T) {
	rows := fromGocvMatches(nil)
	if len(rows) != 0 {
		t.Fatalf("expected empty result for nil input, got %d rows", len(rows))
	}
}
