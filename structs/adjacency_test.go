package structs

import (
	"testing"
)

func TestAdjacencyArray(t *testing.T) {
	list := NewAdjacencyList(3)
	list.AddEdgeEntries(0, 1, 0)
	list.AddEdgeEntries(1, 2, 1)
	list.AddEdgeEntries(1, 2, 2)
	list.AddEdgeEntries(0, 2, 3)

	adj := AdjacencyListToArray(&list)
	if adj.NodeCount() != 3 {
		t.Fatalf("NodeCount() = %v; want 3", adj.NodeCount())
	}

	fwd := adj.GetEntries(1, true)
	if fwd.Length() != 2 || fwd[0].EdgeID != 1 || fwd[1].EdgeID != 2 || fwd[0].OtherID != 2 {
		t.Errorf("forward entries of node 1 = %v", fwd)
	}
	fwd = adj.GetEntries(0, true)
	if fwd.Length() != 2 || fwd[0].EdgeID != 0 || fwd[1].EdgeID != 3 {
		t.Errorf("forward entries of node 0 = %v", fwd)
	}
	if adj.GetEntries(2, true).Length() != 0 {
		t.Errorf("node 2 should have no outgoing entries")
	}
	bwd := adj.GetEntries(2, false)
	if bwd.Length() != 3 || bwd[0].OtherID != 1 || bwd[2].OtherID != 0 {
		t.Errorf("backward entries of node 2 = %v", bwd)
	}
}

func TestWrapMinutes(t *testing.T) {
	cases := []struct {
		minutes float64
		want    float64
	}{
		{0, 0},
		{1439, 1439},
		{1440, 0},
		{1500, 60},
		{-20, 1420},
		{2890.5, 10.5},
	}
	for _, c := range cases {
		if got := WrapMinutes(c.minutes); got != c.want {
			t.Errorf("WrapMinutes(%v) = %v; want %v", c.minutes, got, c.want)
		}
	}
	leg := TripLeg{DepartFromTarget: 1505}
	if leg.DepartureClock() != 65 {
		t.Errorf("DepartureClock() = %v; want 65", leg.DepartureClock())
	}
}
