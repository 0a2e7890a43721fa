package governance

import "testing"

func TestState_IsValid(t *testing.T) {
	for _, tc := range []struct {
		state State
		want  bool
	}{
		{WaitingOnEditor, true},
		{WaitingOnAuthor, true},
		{Stalled, true},
		{Draft, true},
		{NoState, true},
		{Merged, true},
		{Closed, true},
		{State(""), false},
		{State("OPEN"), false},
	} {
		if got := tc.state.IsValid(); got != tc.want {
			t.Errorf("State(%q).IsValid() = %v, want %v", tc.state, got, tc.want)
		}
	}
}

func TestState_Terminal(t *testing.T) {
	for _, tc := range []struct {
		state State
		want  bool
	}{
		{Merged, true},
		{Closed, true},
		{WaitingOnEditor, false},
		{WaitingOnAuthor, false},
		{Stalled, false},
		{Draft, false},
		{NoState, false},
	} {
		if got := tc.state.Terminal(); got != tc.want {
			t.Errorf("State(%q).Terminal() = %v, want %v", tc.state, got, tc.want)
		}
	}
}

func TestOpen_ExcludesTerminal(t *testing.T) {
	for _, state := range Open() {
		if state.Terminal() {
			t.Errorf("Open() contains terminal state %q", state)
		}
	}
	if len(Open()) != 5 {
		t.Errorf("Open() returned %d states, want 5", len(Open()))
	}
}
