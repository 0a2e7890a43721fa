package data

import (
	"testing"

	"github.com/eipsight/eipsight/src/insight/types"
)

func TestAnnotateRoles(t *testing.T) {
	editors := map[string]bool{"alice": true}
	events := []types.ProposalEvent{
		{ID: 1, Actor: "alice"},
		{ID: 2, Actor: "bob"},
		{ID: 3, Actor: "carol"},
		{ID: 4, Actor: ""},
	}

	AnnotateRoles(events, "bob", editors)

	for _, tc := range []struct {
		idx  int
		want string
	}{
		{0, types.RoleEditor},
		{1, types.RoleAuthor},
		{2, types.RoleOther},
		{3, ""},
	} {
		if got := events[tc.idx].ActorRole; got != tc.want {
			t.Errorf("event %d role = %q, want %q", events[tc.idx].ID, got, tc.want)
		}
	}
}

func TestAnnotateRoles_EditorWhoIsAuthor(t *testing.T) {
	// The editor directory wins over authorship: an editor reviewing their
	// own PR still acts as an editor.
	events := []types.ProposalEvent{{ID: 1, Actor: "alice"}}
	AnnotateRoles(events, "alice", map[string]bool{"alice": true})
	if events[0].ActorRole != types.RoleEditor {
		t.Errorf("role = %q, want %q", events[0].ActorRole, types.RoleEditor)
	}
}

func TestExtractProposalNum(t *testing.T) {
	for _, tc := range []struct {
		title string
		want  uint32
	}{
		{"Update EIP-1559: clarify base fee", 1559},
		{"erc-20 wording fix", 20},
		{"Add RIP-7212 precompile spec", 7212},
		{"Fix typos in README", 0},
		{"EIP without number", 0},
	} {
		if got := extractProposalNum(tc.title); got != tc.want {
			t.Errorf("extractProposalNum(%q) = %d, want %d", tc.title, got, tc.want)
		}
	}
}
