package trending

import (
	"fmt"
	"sort"
	"time"

	"github.com/eipsight/eipsight/src/insight/types"
)

// DefaultWindow is the trailing activity window trending scores are computed
// over.
const DefaultWindow = 7 * 24 * time.Hour

const statusChangeBonus = 10

// WindowCounts are the per-proposal activity tallies inside the lookback
// window.
type WindowCounts struct {
	PREvents     int // reviews, approvals, changes-requested
	Comments     int // all comment-kind events on linked PRs
	StatusChange bool
	LastActivity time.Time
}

// Score is the ranked trending result for one proposal.
type Score struct {
	Repo         string    `json:"repo"`
	ProposalNum  uint32    `json:"proposalNumber"`
	Score        int       `json:"score"`
	Reason       string    `json:"reasonText"`
	LastActivity time.Time `json:"lastActivity"`
}

// Count tallies one proposal's events inside [asOf-window, asOf]. The start
// boundary is inclusive; anything after asOf is ignored.
func Count(events []types.ProposalEvent, asOf time.Time, window time.Duration) WindowCounts {
	if window <= 0 {
		window = DefaultWindow
	}
	start := asOf.Add(-window)

	var c WindowCounts
	for _, ev := range events {
		if ev.OccurredAt.Before(start) || ev.OccurredAt.After(asOf) {
			continue
		}
		switch ev.Kind {
		case types.KindPRReview:
			c.PREvents++
		case types.KindPRComment:
			c.Comments++
		case types.KindStatusChange:
			c.StatusChange = true
		}
		if ev.OccurredAt.After(c.LastActivity) {
			c.LastActivity = ev.OccurredAt
		}
	}
	return c
}

// Points applies the documented formula:
// score = (PR events × 2) + comments + (status change ? 10 : 0).
// The formula is a product contract; do not re-derive it.
func (c WindowCounts) Points() int {
	score := c.PREvents*2 + c.Comments
	if c.StatusChange {
		score += statusChangeBonus
	}
	return score
}

// Reason names the dominant scoring factor. Deterministic for equal counts:
// ties resolve PR events, then comments, then the status bonus.
func (c WindowCounts) Reason() string {
	pr := c.PREvents * 2
	bonus := 0
	if c.StatusChange {
		bonus = statusChangeBonus
	}

	switch {
	case pr >= c.Comments && pr >= bonus && pr > 0:
		return fmt.Sprintf("driven by review activity (%d PR events)", c.PREvents)
	case c.Comments >= bonus && c.Comments > 0:
		return fmt.Sprintf("driven by discussion (%d comments)", c.Comments)
	case bonus > 0:
		return "driven by a recent status change"
	}
	return "no recent activity"
}

// Build converts counts into a Score entry.
func Build(repo string, proposalNum uint32, c WindowCounts) Score {
	return Score{
		Repo:         repo,
		ProposalNum:  proposalNum,
		Score:        c.Points(),
		Reason:       c.Reason(),
		LastActivity: c.LastActivity,
	}
}

// Rank orders scores descending, breaking ties by most recent activity, and
// drops zero-score proposals: nothing trends on silence.
func Rank(scores []Score) []Score {
	out := make([]Score, 0, len(scores))
	for _, s := range scores {
		if s.Score > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}
