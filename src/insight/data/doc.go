package data

import (
	"strings"
	"time"

	"github.com/eipsight/eipsight/src/insight/types"
)

// preamble is the parsed front-matter header of a proposal document.
type preamble struct {
	Title    string
	Author   string
	Status   string
	Category string
	Created  time.Time
	Deadline *time.Time
}

const dateLayout = "2006-01-02"

// parsePreamble reads the leading front-matter block of a proposal markdown
// file. Reports false when the document carries no usable header.
func parsePreamble(doc string) (preamble, bool) {
	lines := strings.Split(doc, "\n")

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			start = i
			break
		}
		if trimmed != "" {
			return preamble{}, false
		}
	}
	if start == -1 {
		return preamble{}, false
	}

	var p preamble
	closed := false
	for _, line := range lines[start+1:] {
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			p.Title = strings.Trim(val, `"`)
		case "author":
			p.Author = val
		case "status":
			p.Status = val
		case "category":
			p.Category = val
		case "created":
			if d, err := time.Parse(dateLayout, val); err == nil {
				p.Created = d.UTC()
			}
		case "last-call-deadline":
			if d, err := time.Parse(dateLayout, val); err == nil {
				d = d.UTC()
				p.Deadline = &d
			}
		}
	}
	if !closed || (p.Title == "" && p.Status == "") {
		return preamble{}, false
	}
	return p, true
}

// proposalEventsForUpdate derives the document lifecycle events implied by a
// freshly fetched preamble, diffed against the stored proposal row. Pass a
// nil existing row for a proposal seen for the first time. Change events are
// stamped with the observation time; the document itself only dates its
// creation.
func proposalEventsForUpdate(repoID uint8, num uint32, existing *types.Proposal, p preamble, observedAt time.Time) []types.ProposalEvent {
	var events []types.ProposalEvent

	if existing == nil {
		createdAt := p.Created
		if createdAt.IsZero() {
			createdAt = observedAt
		}
		events = append(events, types.ProposalEvent{
			RepoID:      repoID,
			ProposalNum: num,
			Kind:        types.KindCreated,
			OccurredAt:  createdAt,
			Actor:       p.Author,
		})
		if p.Status != "" {
			events = append(events, types.ProposalEvent{
				RepoID:      repoID,
				ProposalNum: num,
				Kind:        types.KindStatusChange,
				OccurredAt:  createdAt,
				ToValue:     p.Status,
			})
		}
		if p.Deadline != nil {
			events = append(events, types.ProposalEvent{
				RepoID:      repoID,
				ProposalNum: num,
				Kind:        types.KindDeadlineChange,
				OccurredAt:  createdAt,
				Deadline:    p.Deadline,
			})
		}
		return events
	}

	if p.Status != "" && p.Status != existing.Status {
		events = append(events, types.ProposalEvent{
			RepoID:      repoID,
			ProposalNum: num,
			Kind:        types.KindStatusChange,
			OccurredAt:  observedAt,
			FromValue:   existing.Status,
			ToValue:     p.Status,
		})
	}
	if p.Category != "" && p.Category != existing.Category {
		events = append(events, types.ProposalEvent{
			RepoID:      repoID,
			ProposalNum: num,
			Kind:        types.KindCategoryChange,
			OccurredAt:  observedAt,
			FromValue:   existing.Category,
			ToValue:     p.Category,
		})
	}
	if p.Deadline != nil && !sameDeadline(existing.Deadline, p.Deadline) {
		events = append(events, types.ProposalEvent{
			RepoID:      repoID,
			ProposalNum: num,
			Kind:        types.KindDeadlineChange,
			OccurredAt:  observedAt,
			Deadline:    p.Deadline,
		})
	}
	return events
}

func sameDeadline(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
