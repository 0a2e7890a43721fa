package types

import "testing"

func TestEventKind_IsValid(t *testing.T) {
	for _, tc := range []struct {
		kind EventKind
		want bool
	}{
		{KindCreated, true},
		{KindStatusChange, true},
		{KindCategoryChange, true},
		{KindDeadlineChange, true},
		{KindPROpened, true},
		{KindPRReview, true},
		{KindPRComment, true},
		{KindPRMerged, true},
		{KindPRClosed, true},
		{KindDraftToggled, true},
		{KindCommit, true},
		{EventKind(""), false},
		{EventKind("bogus"), false},
	} {
		if got := tc.kind.IsValid(); got != tc.want {
			t.Errorf("EventKind(%q).IsValid() = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestEventKind_IsPRScoped(t *testing.T) {
	for _, tc := range []struct {
		kind EventKind
		want bool
	}{
		{KindPROpened, true},
		{KindPRReview, true},
		{KindPRComment, true},
		{KindPRMerged, true},
		{KindPRClosed, true},
		{KindDraftToggled, true},
		{KindCommit, true},
		{KindCreated, false},
		{KindStatusChange, false},
		{KindCategoryChange, false},
		{KindDeadlineChange, false},
	} {
		if got := tc.kind.IsPRScoped(); got != tc.want {
			t.Errorf("EventKind(%q).IsPRScoped() = %v, want %v", tc.kind, got, tc.want)
		}
	}
}
