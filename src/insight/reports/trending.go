package reports

import (
	"time"

	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/trending"
	"github.com/eipsight/eipsight/src/insight/types"
	"gorm.io/gorm"
)

// TrendingProposals computes ranked trending scores across all repos for the
// trailing window. Scores are derived per query; persistence never holds an
// authoritative ranking.
func TrendingProposals(db *gorm.DB, asOf time.Time, window time.Duration, limit int) ([]trending.Score, error) {
	if window <= 0 {
		window = trending.DefaultWindow
	}
	events, err := data.LoadWindowEvents(db, asOf.Add(-window), asOf)
	if err != nil {
		return nil, err
	}
	names, err := data.RepoNames(db)
	if err != nil {
		return nil, err
	}

	type key struct {
		repoID uint8
		num    uint32
	}
	grouped := make(map[key][]types.ProposalEvent)
	for _, ev := range events {
		if ev.ProposalNum == 0 {
			continue
		}
		k := key{ev.RepoID, ev.ProposalNum}
		grouped[k] = append(grouped[k], ev)
	}

	scores := make([]trending.Score, 0, len(grouped))
	for k, evs := range grouped {
		counts := trending.Count(evs, asOf, window)
		scores = append(scores, trending.Build(names[k.repoID], k.num, counts))
	}

	ranked := trending.Rank(scores)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
