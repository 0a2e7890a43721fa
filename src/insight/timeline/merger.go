package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/eipsight/eipsight/src/insight/types"
)

// Input groups the heterogeneous event streams for one proposal. Any stream
// may be empty; the merger never errors.
type Input struct {
	Creation       *types.ProposalEvent
	StatusEvents   []types.ProposalEvent
	CategoryEvents []types.ProposalEvent
	DeadlineEvents []types.ProposalEvent
	PREvents       []types.ProposalEvent
}

// Entry is one row of the unified lifecycle timeline.
type Entry struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Display types collapse the event kinds the way the timeline view groups
// them.
var displayTypes = map[types.EventKind]string{
	types.KindCreated:        "created",
	types.KindStatusChange:   "status",
	types.KindCategoryChange: "category",
	types.KindDeadlineChange: "deadline",
	types.KindPROpened:       "pr",
	types.KindPRReview:       "pr",
	types.KindPRComment:      "pr",
	types.KindPRMerged:       "pr",
	types.KindPRClosed:       "pr",
	types.KindDraftToggled:   "pr",
	types.KindCommit:         "pr",
}

// Merge combines all event streams into one chronologically ascending
// sequence. Dates are RFC3339 UTC strings, for which lexicographic order
// equals chronological order; ties fall back to event insertion order, so
// the output is identical for any permutation of the inputs.
func Merge(in Input) []Entry {
	var all []types.ProposalEvent
	if in.Creation != nil {
		all = append(all, *in.Creation)
	}
	all = append(all, in.StatusEvents...)
	all = append(all, in.CategoryEvents...)
	all = append(all, in.DeadlineEvents...)
	all = append(all, in.PREvents...)

	if len(all) == 0 {
		return []Entry{}
	}

	mergedPRs := make(map[uint32]bool)
	for _, ev := range in.PREvents {
		if ev.Kind == types.KindPRMerged {
			mergedPRs[ev.PRNumber] = true
		}
	}

	type keyed struct {
		entry Entry
		id    uint64
	}
	rows := make([]keyed, 0, len(all))
	for _, ev := range all {
		rows = append(rows, keyed{
			entry: Entry{
				Date:        ev.OccurredAt.UTC().Format(time.RFC3339),
				Type:        displayType(ev.Kind),
				Description: describe(ev),
				Color:       colorFor(ev, mergedPRs),
			},
			id: ev.ID,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].entry.Date != rows[j].entry.Date {
			return rows[i].entry.Date < rows[j].entry.Date
		}
		return rows[i].id < rows[j].id
	})

	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = r.entry
	}
	return out
}

func displayType(k types.EventKind) string {
	if t, ok := displayTypes[k]; ok {
		return t
	}
	return string(k)
}

func describe(ev types.ProposalEvent) string {
	switch ev.Kind {
	case types.KindCreated:
		return "Created"
	case types.KindStatusChange:
		if ev.FromValue != "" {
			return fmt.Sprintf("%s → %s", ev.FromValue, ev.ToValue)
		}
		return fmt.Sprintf("Set to %s", ev.ToValue)
	case types.KindCategoryChange:
		if ev.FromValue != "" {
			return fmt.Sprintf("%s → %s", ev.FromValue, ev.ToValue)
		}
		return fmt.Sprintf("Set to %s", ev.ToValue)
	case types.KindDeadlineChange:
		if ev.Deadline != nil {
			return fmt.Sprintf("Deadline set to %s", ev.Deadline.UTC().Format("2006-01-02"))
		}
		return "Deadline cleared"
	case types.KindPROpened:
		return fmt.Sprintf("PR #%d opened", ev.PRNumber)
	case types.KindPRReview:
		return fmt.Sprintf("Review on PR #%d", ev.PRNumber)
	case types.KindPRComment:
		return fmt.Sprintf("Comment on PR #%d", ev.PRNumber)
	case types.KindPRMerged:
		return fmt.Sprintf("PR #%d merged", ev.PRNumber)
	case types.KindPRClosed:
		return fmt.Sprintf("PR #%d closed", ev.PRNumber)
	case types.KindDraftToggled:
		if ev.Draft {
			return fmt.Sprintf("PR #%d marked draft", ev.PRNumber)
		}
		return fmt.Sprintf("PR #%d marked ready", ev.PRNumber)
	case types.KindCommit:
		return fmt.Sprintf("Commit pushed to PR #%d", ev.PRNumber)
	}
	return string(ev.Kind)
}
