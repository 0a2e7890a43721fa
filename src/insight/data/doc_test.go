package data

import (
	"testing"
	"time"

	"github.com/eipsight/eipsight/src/insight/types"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

func TestParsePreamble(t *testing.T) {
	full := `---
eip: 1559
title: "Fee market change"
author: Alice (@alice), Bob <bob@example.org>
status: Last Call
category: Core
created: 2019-04-13
last-call-deadline: 2021-05-04
---

## Abstract
Body text.
`
	p, ok := parsePreamble(full)
	if !ok {
		t.Fatal("parsePreamble(full) reported no preamble")
	}
	if p.Title != "Fee market change" {
		t.Errorf("Title = %q, want %q", p.Title, "Fee market change")
	}
	if p.Author != "Alice (@alice), Bob <bob@example.org>" {
		t.Errorf("Author = %q", p.Author)
	}
	if p.Status != "Last Call" {
		t.Errorf("Status = %q, want %q", p.Status, "Last Call")
	}
	if p.Category != "Core" {
		t.Errorf("Category = %q, want %q", p.Category, "Core")
	}
	if !p.Created.Equal(day("2019-04-13")) {
		t.Errorf("Created = %v, want 2019-04-13", p.Created)
	}
	if p.Deadline == nil || !p.Deadline.Equal(day("2021-05-04")) {
		t.Errorf("Deadline = %v, want 2021-05-04", p.Deadline)
	}

	for _, tc := range []struct {
		name string
		doc  string
	}{
		{"no front matter", "## Abstract\nJust a body.\n"},
		{"unclosed block", "---\ntitle: Dangling\nstatus: Draft\n"},
		{"empty header", "---\n---\nBody.\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := parsePreamble(tc.doc); ok {
				t.Errorf("parsePreamble accepted %s", tc.name)
			}
		})
	}
}

func TestProposalEventsForUpdate_FirstSeen(t *testing.T) {
	deadline := day("2021-05-04")
	p := preamble{
		Title:    "Fee market change",
		Author:   "alice",
		Status:   "Last Call",
		Category: "Core",
		Created:  day("2019-04-13"),
		Deadline: &deadline,
	}
	observed := day("2024-06-01")

	events := proposalEventsForUpdate(1, 1559, nil, p, observed)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Kind != types.KindCreated || !events[0].OccurredAt.Equal(p.Created) || events[0].Actor != "alice" {
		t.Errorf("created event = %+v", events[0])
	}
	if events[1].Kind != types.KindStatusChange || events[1].ToValue != "Last Call" || events[1].FromValue != "" {
		t.Errorf("status event = %+v", events[1])
	}
	if events[2].Kind != types.KindDeadlineChange || events[2].Deadline == nil || !events[2].Deadline.Equal(deadline) {
		t.Errorf("deadline event = %+v", events[2])
	}
}

func TestProposalEventsForUpdate_FirstSeenWithoutCreatedDate(t *testing.T) {
	observed := day("2024-06-01")
	events := proposalEventsForUpdate(1, 20, nil, preamble{Title: "Token standard", Status: "Final"}, observed)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if !events[0].OccurredAt.Equal(observed) {
		t.Errorf("created event stamped %v, want observation time %v", events[0].OccurredAt, observed)
	}
}

func TestProposalEventsForUpdate_Diffs(t *testing.T) {
	oldDeadline := day("2021-05-04")
	newDeadline := day("2021-06-01")
	existing := &types.Proposal{
		RepoID:   1,
		Number:   1559,
		Status:   "Review",
		Category: "Core",
		Deadline: &oldDeadline,
	}
	observed := day("2024-06-01")

	for _, tc := range []struct {
		name     string
		p        preamble
		want     []types.EventKind
		from, to string
	}{
		{
			name: "status change",
			p:    preamble{Title: "x", Status: "Last Call", Category: "Core", Deadline: &oldDeadline},
			want: []types.EventKind{types.KindStatusChange},
			from: "Review", to: "Last Call",
		},
		{
			name: "category change",
			p:    preamble{Title: "x", Status: "Review", Category: "Networking", Deadline: &oldDeadline},
			want: []types.EventKind{types.KindCategoryChange},
			from: "Core", to: "Networking",
		},
		{
			name: "deadline change",
			p:    preamble{Title: "x", Status: "Review", Category: "Core", Deadline: &newDeadline},
			want: []types.EventKind{types.KindDeadlineChange},
		},
		{
			name: "no change",
			p:    preamble{Title: "x", Status: "Review", Category: "Core", Deadline: &oldDeadline},
			want: nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			events := proposalEventsForUpdate(1, 1559, existing, tc.p, observed)
			if len(events) != len(tc.want) {
				t.Fatalf("got %d events, want %d", len(events), len(tc.want))
			}
			for i, kind := range tc.want {
				if events[i].Kind != kind {
					t.Errorf("event %d kind = %s, want %s", i, events[i].Kind, kind)
				}
				if !events[i].OccurredAt.Equal(observed) {
					t.Errorf("event %d stamped %v, want observation time", i, events[i].OccurredAt)
				}
			}
			if tc.from != "" && (events[0].FromValue != tc.from || events[0].ToValue != tc.to) {
				t.Errorf("transition = %q -> %q, want %q -> %q", events[0].FromValue, events[0].ToValue, tc.from, tc.to)
			}
		})
	}
}
