package timeline

import "github.com/eipsight/eipsight/src/insight/types"

// Presentation lookup tables. These stay outside the merge logic so the
// frontend palette can change without touching ordering or descriptions.

// StatusColors keys a status_change entry's color by its target status.
var StatusColors = map[string]string{
	"Draft":     "cyan",
	"Review":    "blue",
	"Last Call": "amber",
	"Final":     "emerald",
	"Living":    "violet",
	"Stagnant":  "orange",
	"Withdrawn": "red",
}

const defaultStatusColor = "gray"

var kindColors = map[types.EventKind]string{
	types.KindCreated:        "cyan",
	types.KindCategoryChange: "violet",
	types.KindDeadlineChange: "amber",
	types.KindPRMerged:       "emerald",
	types.KindPRClosed:       "red",
	types.KindPRReview:       "blue",
	types.KindPRComment:      "gray",
	types.KindDraftToggled:   "gray",
	types.KindCommit:         "gray",
}

func colorFor(ev types.ProposalEvent, mergedPRs map[uint32]bool) string {
	switch ev.Kind {
	case types.KindStatusChange:
		if c, ok := StatusColors[ev.ToValue]; ok {
			return c
		}
		return defaultStatusColor
	case types.KindPROpened:
		// Opens of eventually-merged PRs render like creations; abandoned
		// ones fade out.
		if mergedPRs[ev.PRNumber] {
			return "cyan"
		}
		return "gray"
	}
	if c, ok := kindColors[ev.Kind]; ok {
		return c
	}
	return defaultStatusColor
}
