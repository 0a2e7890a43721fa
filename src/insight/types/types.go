package types

import "time"

// Tracked proposal repositories (eip, erc, rip)
type Repo struct {
	ID     uint8  `gorm:"primaryKey"`
	Name   string `gorm:"size:16;unique;not null"` // short name used in URLs, e.g. "eip"
	Owner  string `gorm:"size:64;not null"`        // GitHub org
	Slug   string `gorm:"size:64;not null"`        // GitHub repository name
	URL    string `gorm:"size:256"`
	Active bool   `gorm:"default:true"`
}

// Settings
type Setting struct {
	ID    uint16 `gorm:"primaryKey"`
	Name  string `gorm:"size:64;not null"`
	Value string `gorm:"size:256;not null"`
}

// Proposals (EIP/ERC/RIP documents)
type Proposal struct {
	ID        uint64 `gorm:"primaryKey"`
	RepoID    uint8  `gorm:"uniqueIndex:idx_proposal_repo_num;not null"`
	Number    uint32 `gorm:"uniqueIndex:idx_proposal_repo_num;not null"`
	Title     string `gorm:"size:255"`
	Author    string `gorm:"size:128"`
	Status    string `gorm:"size:32"`
	Category  string `gorm:"size:32"`
	Deadline  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pull requests linked to proposals
type PullRequest struct {
	ID          uint64 `gorm:"primaryKey"`
	RepoID      uint8  `gorm:"uniqueIndex:idx_pr_repo_num;not null"`
	Number      uint32 `gorm:"uniqueIndex:idx_pr_repo_num;not null"`
	ProposalNum uint32 `gorm:"index"`
	Author      string `gorm:"size:64"`
	Title       string `gorm:"size:255"`
	Draft       bool   `gorm:"default:false"`
	State       string `gorm:"size:16"` // open, merged, closed (denormalized from events)
	OpenedAt    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Actor-role directory: GitHub handles with editor powers
type EditorRole struct {
	Handle string `gorm:"primaryKey;size:64"`
	Role   string `gorm:"size:16;not null;default:editor"`
	Active bool   `gorm:"default:true"`
}

// EventKind discriminates proposal event payloads.
type EventKind string

const (
	KindCreated        EventKind = "created"
	KindStatusChange   EventKind = "status_change"
	KindCategoryChange EventKind = "category_change"
	KindDeadlineChange EventKind = "deadline_change"
	KindPROpened       EventKind = "pr_opened"
	KindPRReview       EventKind = "pr_review"
	KindPRComment      EventKind = "pr_comment"
	KindPRMerged       EventKind = "pr_merged"
	KindPRClosed       EventKind = "pr_closed"
	KindDraftToggled   EventKind = "draft_toggled"
	KindCommit         EventKind = "commit"
)

func (k EventKind) IsValid() bool {
	switch k {
	case KindCreated, KindStatusChange, KindCategoryChange, KindDeadlineChange,
		KindPROpened, KindPRReview, KindPRComment, KindPRMerged, KindPRClosed,
		KindDraftToggled, KindCommit:
		return true
	}
	return false
}

func (k EventKind) String() string { return string(k) }

// IsPRScoped reports whether the kind belongs to a pull-request lifecycle.
func (k EventKind) IsPRScoped() bool {
	switch k {
	case KindPROpened, KindPRReview, KindPRComment, KindPRMerged, KindPRClosed,
		KindDraftToggled, KindCommit:
		return true
	}
	return false
}

// Actor roles resolved against the editor directory
const (
	RoleEditor = "editor"
	RoleAuthor = "author"
	RoleOther  = "other"
)

// ProposalEvent is one immutable, timestamped fact about a proposal. The
// auto-increment ID doubles as the insertion-order tie-break when two events
// share an occurred_at timestamp.
type ProposalEvent struct {
	ID          uint64    `gorm:"primaryKey"`
	RepoID      uint8     `gorm:"index:idx_event_proposal;not null"`
	ProposalNum uint32    `gorm:"index:idx_event_proposal;not null"`
	Kind        EventKind `gorm:"size:32;index;not null"`
	OccurredAt  time.Time `gorm:"index;not null"`
	PRNumber    uint32    `gorm:"index"` // 0 when not PR-scoped
	Actor       string    `gorm:"size:64"`
	ActorRole   string    `gorm:"-"` // resolved at read time, never stored
	FromValue   string    `gorm:"size:64"` // status_change / category_change source
	ToValue     string    `gorm:"size:64"` // status_change / category_change target
	Deadline    *time.Time
	Draft       bool   `gorm:"default:false"` // pr_opened / draft_toggled flag value
	Body        string `gorm:"size:512"`      // sanitized comment/review excerpt
	CreatedAt   time.Time
}
