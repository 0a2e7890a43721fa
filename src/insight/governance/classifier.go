package governance

import (
	"sort"
	"time"

	"github.com/eipsight/eipsight/src/insight/types"
)

// DefaultStallThreshold is how long a PR may wait on either party before it
// is reclassified as stalled. Overridable via the stall_threshold_days
// setting.
const DefaultStallThreshold = 60 * 24 * time.Hour

// Classify derives the governance state of one pull request from its event
// list as of a query time. It is a pure function: identical inputs always
// produce identical output, and it never fails. Degraded input saturates to
// NoState.
//
// Precedence: merged/closed are terminal, then the draft flag, then whichever
// of editor/author acted last, with a stallness override once the last
// qualifying action is threshold-old or older (boundary inclusive).
func Classify(events []types.ProposalEvent, asOf time.Time, threshold time.Duration) State {
	if threshold <= 0 {
		threshold = DefaultStallThreshold
	}

	visible := visibleSorted(events, asOf)
	if len(visible) == 0 {
		return NoState
	}

	for _, ev := range visible {
		if ev.Kind == types.KindPRMerged {
			return Merged
		}
	}
	for _, ev := range visible {
		if ev.Kind == types.KindPRClosed {
			return Closed
		}
	}

	if draftAsOf(visible) {
		return Draft
	}

	last, ok := LastQualifyingAction(events, asOf)
	if !ok {
		if _, degraded := lastUnknownAction(visible); degraded {
			return NoState
		}
		// Events exist but nobody has acted; the clock runs from the oldest
		// visible event.
		if asOf.Sub(visible[0].OccurredAt) >= threshold {
			return Stalled
		}
		return NoState
	}

	// A later action whose actor role is unknown may have handed
	// responsibility back; don't guess from the stale action before it.
	if unknown, degraded := lastUnknownAction(visible); degraded && laterThan(unknown, last) {
		return NoState
	}

	if asOf.Sub(last.OccurredAt) >= threshold {
		return Stalled
	}

	if last.ActorRole == types.RoleEditor {
		return WaitingOnAuthor
	}
	return WaitingOnEditor
}

// LastQualifyingAction returns the most recent event at or before asOf that
// hands responsibility to the other party: an editor review or comment, or an
// author commit or comment. When an editor and the author act at the same
// timestamp, the later-inserted event (higher ID) wins.
func LastQualifyingAction(events []types.ProposalEvent, asOf time.Time) (types.ProposalEvent, bool) {
	visible := visibleSorted(events, asOf)

	var best types.ProposalEvent
	found := false
	for _, ev := range visible {
		if !qualifies(ev) {
			continue
		}
		// visible is ordered by (occurredAt, id), so a plain overwrite
		// implements last-writer-wins on timestamp ties.
		best = ev
		found = true
	}
	return best, found
}

func qualifies(ev types.ProposalEvent) bool {
	switch ev.ActorRole {
	case types.RoleEditor:
		return ev.Kind == types.KindPRReview || ev.Kind == types.KindPRComment
	case types.RoleAuthor:
		return ev.Kind == types.KindCommit || ev.Kind == types.KindPRComment
	}
	return false
}

// lastUnknownAction returns the latest visible event that would qualify if
// only the actor's role were known. Classification degrades to NoState rather
// than guessing when such an event is the most recent action.
func lastUnknownAction(visible []types.ProposalEvent) (types.ProposalEvent, bool) {
	var best types.ProposalEvent
	found := false
	for _, ev := range visible {
		switch ev.Kind {
		case types.KindPRReview, types.KindPRComment, types.KindCommit:
			if ev.ActorRole == "" {
				best = ev
				found = true
			}
		}
	}
	return best, found
}

// laterThan orders events the way visibleSorted does.
func laterThan(a, b types.ProposalEvent) bool {
	if !a.OccurredAt.Equal(b.OccurredAt) {
		return a.OccurredAt.After(b.OccurredAt)
	}
	return a.ID > b.ID
}

// draftAsOf evaluates the PR draft flag from the last flag-bearing event.
func draftAsOf(visible []types.ProposalEvent) bool {
	draft := false
	for _, ev := range visible {
		if ev.Kind == types.KindPROpened || ev.Kind == types.KindDraftToggled {
			draft = ev.Draft
		}
	}
	return draft
}

// visibleSorted filters events to those at or before asOf and orders them by
// (occurredAt, id). Input order is irrelevant to the result.
func visibleSorted(events []types.ProposalEvent, asOf time.Time) []types.ProposalEvent {
	out := make([]types.ProposalEvent, 0, len(events))
	for _, ev := range events {
		if !ev.OccurredAt.After(asOf) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
