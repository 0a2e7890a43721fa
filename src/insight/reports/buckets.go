package reports

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/governance"
	"github.com/eipsight/eipsight/src/insight/types"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// batchWorkers bounds concurrent event-store reads during batch
// classification, keeping below the upstream connection-pool limits.
const batchWorkers = 8

// WaitItem is one classified open PR with its waiting time.
type WaitItem struct {
	State    governance.State
	PRNumber uint32
	WaitDays float64
}

// WaitBucket summarizes waiting PRs for one governance state.
type WaitBucket struct {
	State          governance.State `json:"state"`
	Count          int              `json:"count"`
	MedianWaitDays float64          `json:"medianWaitDays"`
	OldestPR       uint32           `json:"oldestPR"`
	OldestWaitDays float64          `json:"oldestWaitDays"`
}

// WaitingBuckets classifies every open PR (optionally one repo) and rolls the
// results into per-state buckets. A failing PR is logged and skipped; its
// siblings still count.
func WaitingBuckets(ctx context.Context, db *gorm.DB, repoID *uint8, asOf time.Time, threshold time.Duration) ([]WaitBucket, error) {
	prs, err := data.ListOpenPRs(db, repoID)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		items []WaitItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for _, pr := range prs {
		pr := pr
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			events, err := data.LoadPREvents(db, pr.RepoID, pr.Number)
			if err != nil {
				log.Printf("buckets: PR #%d: %v", pr.Number, err)
				return nil // partial-failure isolation
			}
			item := classifyWait(events, pr, asOf, threshold)
			mu.Lock()
			items = append(items, item)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildBuckets(items), nil
}

// classifyWait derives the state and waiting duration for one open PR. The
// wait clock starts at the last qualifying action, falling back to when the
// PR was opened.
func classifyWait(events []types.ProposalEvent, pr types.PullRequest, asOf time.Time, threshold time.Duration) WaitItem {
	state := governance.Classify(events, asOf, threshold)

	anchor := pr.OpenedAt
	if last, ok := governance.LastQualifyingAction(events, asOf); ok {
		anchor = last.OccurredAt
	}
	wait := asOf.Sub(anchor).Hours() / 24
	if wait < 0 {
		wait = 0
	}
	return WaitItem{State: state, PRNumber: pr.Number, WaitDays: wait}
}

// BuildBuckets rolls classified items into one bucket per open governance
// state, in display order. Terminal states never appear: a merged or closed
// PR is not waiting on anyone.
func BuildBuckets(items []WaitItem) []WaitBucket {
	byState := make(map[governance.State][]WaitItem)
	for _, it := range items {
		if it.State.Terminal() {
			continue
		}
		byState[it.State] = append(byState[it.State], it)
	}

	buckets := make([]WaitBucket, 0, len(governance.Open()))
	for _, state := range governance.Open() {
		group := byState[state]
		b := WaitBucket{State: state, Count: len(group)}
		if len(group) > 0 {
			waits := make([]float64, len(group))
			for i, it := range group {
				waits[i] = it.WaitDays
				if it.WaitDays > b.OldestWaitDays || b.OldestPR == 0 {
					b.OldestWaitDays = it.WaitDays
					b.OldestPR = it.PRNumber
				}
			}
			b.MedianWaitDays = median(waits)
		}
		buckets = append(buckets, b)
	}
	return buckets
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
