package reports

import (
	"time"

	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/types"
	"gorm.io/gorm"
)

// MonthSnapshot is the calendar-month rollup of one repo's event activity.
type MonthSnapshot struct {
	Repo            string         `json:"repo"`
	Year            int            `json:"year"`
	Month           int            `json:"month"`
	Created         int            `json:"created"`
	StatusChanges   int            `json:"statusChanges"`
	MovedToStatus   map[string]int `json:"movedToStatus"`
	CategoryChanges int            `json:"categoryChanges"`
	DeadlineChanges int            `json:"deadlineChanges"`
	PRsOpened       int            `json:"prsOpened"`
	PRsMerged       int            `json:"prsMerged"`
	PRsClosed       int            `json:"prsClosed"`
	Reviews         int            `json:"reviews"`
	Comments        int            `json:"comments"`
	Commits         int            `json:"commits"`
	TouchedProposals int           `json:"touchedProposals"`
}

// Snapshot loads one repo's events for a calendar month and rolls them up.
func Snapshot(db *gorm.DB, repo types.Repo, year, month int) (MonthSnapshot, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	events, err := data.LoadRangeEvents(db, repo.ID, from, to)
	if err != nil {
		return MonthSnapshot{}, err
	}
	snap := BuildSnapshot(events, year, month)
	snap.Repo = repo.Name
	return snap, nil
}

// BuildSnapshot tallies events into a month snapshot. Pure: it introduces no
// classification rules, only counts.
func BuildSnapshot(events []types.ProposalEvent, year, month int) MonthSnapshot {
	snap := MonthSnapshot{
		Year:          year,
		Month:         month,
		MovedToStatus: make(map[string]int),
	}
	touched := make(map[uint32]bool)
	for _, ev := range events {
		if ev.ProposalNum != 0 {
			touched[ev.ProposalNum] = true
		}
		switch ev.Kind {
		case types.KindCreated:
			snap.Created++
		case types.KindStatusChange:
			snap.StatusChanges++
			if ev.ToValue != "" {
				snap.MovedToStatus[ev.ToValue]++
			}
		case types.KindCategoryChange:
			snap.CategoryChanges++
		case types.KindDeadlineChange:
			snap.DeadlineChanges++
		case types.KindPROpened:
			snap.PRsOpened++
		case types.KindPRMerged:
			snap.PRsMerged++
		case types.KindPRClosed:
			snap.PRsClosed++
		case types.KindPRReview:
			snap.Reviews++
		case types.KindPRComment:
			snap.Comments++
		case types.KindCommit:
			snap.Commits++
		}
	}
	snap.TouchedProposals = len(touched)
	return snap
}
