package data

import (
	"time"

	"github.com/eipsight/eipsight/src/insight/timeline"
	"github.com/eipsight/eipsight/src/insight/types"
	"gorm.io/gorm"
)

// Event-store reader: every loader returns events ordered by
// (occurred_at, id), which the pure cores rely on for tie-breaking.

const eventOrder = "occurred_at, id"

// RepoByName resolves a repo short name (eip, erc, rip) to its row.
func RepoByName(db *gorm.DB, name string) (types.Repo, error) {
	var repo types.Repo
	if err := db.Where("name = ? AND active = ?", name, true).First(&repo).Error; err != nil {
		return types.Repo{}, wrapDB("repo "+name, err)
	}
	return repo, nil
}

// LoadProposalEvents returns every event recorded for one proposal.
func LoadProposalEvents(db *gorm.DB, repoID uint8, proposalNum uint32) ([]types.ProposalEvent, error) {
	var events []types.ProposalEvent
	err := db.Where("repo_id = ? AND proposal_num = ?", repoID, proposalNum).
		Order(eventOrder).Find(&events).Error
	if err != nil {
		return nil, wrapDB("proposal events", err)
	}
	return events, nil
}

// LoadTimelineInput loads one proposal's streams grouped the way the merger
// consumes them. Unknown proposals surface ErrNotFound.
func LoadTimelineInput(db *gorm.DB, repoID uint8, proposalNum uint32) (timeline.Input, error) {
	var proposal types.Proposal
	if err := db.Where("repo_id = ? AND number = ?", repoID, proposalNum).First(&proposal).Error; err != nil {
		return timeline.Input{}, wrapDB("proposal", err)
	}

	events, err := LoadProposalEvents(db, repoID, proposalNum)
	if err != nil {
		return timeline.Input{}, err
	}

	var in timeline.Input
	for _, ev := range events {
		ev := ev
		switch ev.Kind {
		case types.KindCreated:
			if in.Creation == nil {
				in.Creation = &ev
			}
		case types.KindStatusChange:
			in.StatusEvents = append(in.StatusEvents, ev)
		case types.KindCategoryChange:
			in.CategoryEvents = append(in.CategoryEvents, ev)
		case types.KindDeadlineChange:
			in.DeadlineEvents = append(in.DeadlineEvents, ev)
		default:
			if ev.Kind.IsPRScoped() {
				in.PREvents = append(in.PREvents, ev)
			}
		}
	}
	return in, nil
}

// LoadPREvents returns one pull request's lifecycle events with actor roles
// resolved against the editor directory. A missing role stays empty and the
// classifier degrades accordingly.
func LoadPREvents(db *gorm.DB, repoID uint8, prNumber uint32) ([]types.ProposalEvent, error) {
	var pr types.PullRequest
	if err := db.Where("repo_id = ? AND number = ?", repoID, prNumber).First(&pr).Error; err != nil {
		return nil, wrapDB("pull request", err)
	}

	var events []types.ProposalEvent
	err := db.Where("repo_id = ? AND pr_number = ?", repoID, prNumber).
		Order(eventOrder).Find(&events).Error
	if err != nil {
		return nil, wrapDB("pr events", err)
	}

	editors, err := editorSet(db)
	if err != nil {
		return nil, err
	}
	AnnotateRoles(events, pr.Author, editors)
	return events, nil
}

// AnnotateRoles fills ActorRole in place from the editor directory and the
// PR author handle. Events without an actor keep an empty role.
func AnnotateRoles(events []types.ProposalEvent, prAuthor string, editors map[string]bool) {
	for i := range events {
		actor := events[i].Actor
		switch {
		case actor == "":
			events[i].ActorRole = ""
		case editors[actor]:
			events[i].ActorRole = types.RoleEditor
		case actor == prAuthor && prAuthor != "":
			events[i].ActorRole = types.RoleAuthor
		default:
			events[i].ActorRole = types.RoleOther
		}
	}
}

func editorSet(db *gorm.DB) (map[string]bool, error) {
	var roles []types.EditorRole
	if err := db.Where("active = ?", true).Find(&roles).Error; err != nil {
		return nil, wrapDB("editor roles", err)
	}
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		set[r.Handle] = true
	}
	return set, nil
}

// ListOpenPRs returns open pull requests, optionally filtered by repo.
func ListOpenPRs(db *gorm.DB, repoID *uint8) ([]types.PullRequest, error) {
	q := db.Where("state = ?", "open")
	if repoID != nil {
		q = q.Where("repo_id = ?", *repoID)
	}
	var prs []types.PullRequest
	if err := q.Order("opened_at").Find(&prs).Error; err != nil {
		return nil, wrapDB("open prs", err)
	}
	return prs, nil
}

// LoadWindowEvents returns all events in [since, until] across every repo,
// ordered for grouping by proposal.
func LoadWindowEvents(db *gorm.DB, since, until time.Time) ([]types.ProposalEvent, error) {
	var events []types.ProposalEvent
	err := db.Where("occurred_at >= ? AND occurred_at <= ?", since, until).
		Order("repo_id, proposal_num, occurred_at, id").Find(&events).Error
	if err != nil {
		return nil, wrapDB("window events", err)
	}
	return events, nil
}

// LoadRangeEvents returns one repo's events in [from, to), for snapshot and
// funnel rollups.
func LoadRangeEvents(db *gorm.DB, repoID uint8, from, to time.Time) ([]types.ProposalEvent, error) {
	var events []types.ProposalEvent
	err := db.Where("repo_id = ? AND occurred_at >= ? AND occurred_at < ?", repoID, from, to).
		Order(eventOrder).Find(&events).Error
	if err != nil {
		return nil, wrapDB("range events", err)
	}
	return events, nil
}

// RepoNames returns id → short name for active repos, used when labeling
// cross-repo results.
func RepoNames(db *gorm.DB) (map[uint8]string, error) {
	var repos []types.Repo
	if err := db.Where("active = ?", true).Find(&repos).Error; err != nil {
		return nil, wrapDB("repos", err)
	}
	names := make(map[uint8]string, len(repos))
	for _, r := range repos {
		names[r.ID] = r.Name
	}
	return names, nil
}
