package reports

import (
	"time"

	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/types"
	"gorm.io/gorm"
)

// Funnel counts PRs through the opened → reviewed → merged/closed-unmerged
// lifecycle within a time range.
type Funnel struct {
	Repo           string `json:"repo"`
	Opened         int    `json:"opened"`
	Reviewed       int    `json:"reviewed"`
	Merged         int    `json:"merged"`
	ClosedUnmerged int    `json:"closedUnmerged"`
}

// LifecycleFunnel loads one repo's events for [from, to) and builds the
// funnel.
func LifecycleFunnel(db *gorm.DB, repo types.Repo, from, to time.Time) (Funnel, error) {
	events, err := data.LoadRangeEvents(db, repo.ID, from, to)
	if err != nil {
		return Funnel{}, err
	}
	f := BuildFunnel(events)
	f.Repo = repo.Name
	return f, nil
}

// BuildFunnel groups events by pull request and counts lifecycle stages.
// Pure rollup; merge-vs-close precedence mirrors the classifier's terminal
// ordering without re-implementing it (a merged PR never counts as closed).
func BuildFunnel(events []types.ProposalEvent) Funnel {
	type prFacts struct {
		opened, reviewed, merged, closed bool
	}
	byPR := make(map[uint32]*prFacts)
	facts := func(n uint32) *prFacts {
		if byPR[n] == nil {
			byPR[n] = &prFacts{}
		}
		return byPR[n]
	}

	for _, ev := range events {
		if ev.PRNumber == 0 {
			continue
		}
		switch ev.Kind {
		case types.KindPROpened:
			facts(ev.PRNumber).opened = true
		case types.KindPRReview:
			facts(ev.PRNumber).reviewed = true
		case types.KindPRMerged:
			facts(ev.PRNumber).merged = true
		case types.KindPRClosed:
			facts(ev.PRNumber).closed = true
		}
	}

	var f Funnel
	for _, pf := range byPR {
		if pf.opened {
			f.Opened++
		}
		if pf.reviewed {
			f.Reviewed++
		}
		if pf.merged {
			f.Merged++
		} else if pf.closed {
			f.ClosedUnmerged++
		}
	}
	return f
}
