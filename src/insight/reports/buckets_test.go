package reports

import (
	"testing"

	"github.com/eipsight/eipsight/src/insight/governance"
)

func TestMedian(t *testing.T) {
	for _, tc := range []struct {
		name string
		vals []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{4}, 4},
		{"odd", []float64{9, 1, 5}, 5},
		{"even", []float64{1, 3, 5, 9}, 4},
	} {
		if got := median(tc.vals); got != tc.want {
			t.Errorf("%s: median(%v) = %v, want %v", tc.name, tc.vals, got, tc.want)
		}
	}
}

func TestBuildBuckets(t *testing.T) {
	items := []WaitItem{
		{State: governance.WaitingOnEditor, PRNumber: 10, WaitDays: 3},
		{State: governance.WaitingOnEditor, PRNumber: 11, WaitDays: 9},
		{State: governance.WaitingOnEditor, PRNumber: 12, WaitDays: 30},
		{State: governance.Stalled, PRNumber: 20, WaitDays: 90},
		{State: governance.Merged, PRNumber: 30, WaitDays: 1}, // terminal, excluded
	}

	buckets := BuildBuckets(items)
	if len(buckets) != len(governance.Open()) {
		t.Fatalf("BuildBuckets() = %d buckets, want %d", len(buckets), len(governance.Open()))
	}

	byState := make(map[governance.State]WaitBucket)
	for _, b := range buckets {
		byState[b.State] = b
	}

	editor := byState[governance.WaitingOnEditor]
	if editor.Count != 3 {
		t.Errorf("WAITING_ON_EDITOR count = %d, want 3", editor.Count)
	}
	if editor.MedianWaitDays != 9 {
		t.Errorf("WAITING_ON_EDITOR median = %v, want 9", editor.MedianWaitDays)
	}
	if editor.OldestPR != 12 {
		t.Errorf("WAITING_ON_EDITOR oldest PR = %d, want 12", editor.OldestPR)
	}

	stalled := byState[governance.Stalled]
	if stalled.Count != 1 || stalled.OldestPR != 20 {
		t.Errorf("STALLED bucket = %+v, want count 1, oldest 20", stalled)
	}

	if empty := byState[governance.Draft]; empty.Count != 0 || empty.MedianWaitDays != 0 {
		t.Errorf("DRAFT bucket = %+v, want zeroes", empty)
	}

	for _, b := range buckets {
		if b.State == governance.Merged || b.State == governance.Closed {
			t.Errorf("terminal state %q leaked into buckets", b.State)
		}
	}
}
