package governance

// State is the derived waiting-responsibility classification of a pull
// request at a point in time. It is computed, never stored.
type State string

const (
	WaitingOnEditor State = "WAITING_ON_EDITOR"
	WaitingOnAuthor State = "WAITING_ON_AUTHOR"
	Stalled         State = "STALLED"
	Draft           State = "DRAFT"
	NoState         State = "NO_STATE"
	Merged          State = "MERGED"
	Closed          State = "CLOSED"
)

func (s State) IsValid() bool {
	switch s {
	case WaitingOnEditor, WaitingOnAuthor, Stalled, Draft, NoState, Merged, Closed:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }

// Terminal reports whether the state can never transition again.
func (s State) Terminal() bool { return s == Merged || s == Closed }

// Open returns the non-terminal states, in display order. Aggregation views
// key their buckets off this list.
func Open() []State {
	return []State{WaitingOnEditor, WaitingOnAuthor, Stalled, Draft, NoState}
}
