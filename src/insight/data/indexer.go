package data

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eipsight/eipsight/src/insight/github"
	"github.com/eipsight/eipsight/src/insight/types"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// RepoIndexer handles indexing for a specific proposal repository
type RepoIndexer struct {
	repoID    uint8
	repoName  string
	owner     string
	slug      string
	db        *gorm.DB
	client    *github.Client
	sanitizer *bluemonday.Policy
	mu        sync.RWMutex
	lastError error
	running   bool
}

// proposalRef matches "EIP-1234", "ERC-20", "RIP-7212" in PR titles.
var proposalRef = regexp.MustCompile(`(?i)\b(?:eip|erc|rip)-(\d+)\b`)

// NewRepoIndexer creates an indexer for a specific repository
func NewRepoIndexer(repo types.Repo, db *gorm.DB, client *github.Client) *RepoIndexer {
	return &RepoIndexer{
		repoID:    repo.ID,
		repoName:  repo.Name,
		owner:     repo.Owner,
		slug:      repo.Slug,
		db:        db,
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (ri *RepoIndexer) Run(ctx context.Context, interval time.Duration) {
	ri.mu.Lock()
	if ri.running {
		ri.mu.Unlock()
		return
	}
	ri.running = true
	ri.mu.Unlock()

	defer func() {
		ri.mu.Lock()
		ri.running = false
		ri.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately
	ri.indexOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Stopping indexer for %s", ri.repoName)
			return
		case <-ticker.C:
			ri.indexOnce(ctx)
		}
	}
}

func (ri *RepoIndexer) indexOnce(ctx context.Context) {
	log.Printf("Starting indexing run for %s", ri.repoName)
	if err := ri.runIndexing(ctx); err != nil {
		log.Printf("Indexing error for %s: %v", ri.repoName, err)
		ri.mu.Lock()
		ri.lastError = err
		ri.mu.Unlock()
	}
}

func (ri *RepoIndexer) runIndexing(ctx context.Context) error {
	// Pick up settings written by other processes since the last run.
	if err := RefreshSettings(ri.db); err != nil {
		log.Printf("%s indexer: refresh settings: %v", ri.repoName, err)
	}

	checkpoint := ri.loadCheckpoint()

	pulls, err := ri.client.ListPulls(ctx, ri.owner, ri.slug, "all", 1)
	if err != nil {
		return fmt.Errorf("list pulls: %w", err)
	}
	log.Printf("%s indexer: fetched %d pull requests", ri.repoName, len(pulls))

	newest := checkpoint
	for _, pull := range pulls {
		updated := github.ParseTime(pull.UpdatedAt)
		if !updated.After(checkpoint) {
			// List is sorted by update time descending; the rest is stale.
			break
		}
		if updated.After(newest) {
			newest = updated
		}
		if err := ri.syncPull(ctx, pull); err != nil {
			log.Printf("%s indexer: PR #%d: %v", ri.repoName, pull.Number, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	if newest.After(checkpoint) {
		if err := ri.saveCheckpoint(newest); err != nil {
			return fmt.Errorf("save checkpoint: %w", err)
		}
	}
	return nil
}

func (ri *RepoIndexer) syncPull(ctx context.Context, pull github.Pull) error {
	proposalNum := extractProposalNum(pull.Title)

	state := "open"
	if pull.MergedAt != nil {
		state = "merged"
	} else if pull.State == "closed" {
		state = "closed"
	}

	var pr types.PullRequest
	err := ri.db.Where("repo_id = ? AND number = ?", ri.repoID, pull.Number).First(&pr).Error
	if err == gorm.ErrRecordNotFound {
		pr = types.PullRequest{
			RepoID:      ri.repoID,
			Number:      uint32(pull.Number),
			ProposalNum: proposalNum,
			Author:      pull.User.Login,
			Title:       pull.Title,
			Draft:       pull.Draft,
			State:       state,
			OpenedAt:    github.ParseTime(pull.CreatedAt),
		}
		if err := ri.db.Create(&pr).Error; err != nil {
			return err
		}
		ri.appendEvent(types.ProposalEvent{
			RepoID:      ri.repoID,
			ProposalNum: proposalNum,
			Kind:        types.KindPROpened,
			OccurredAt:  pr.OpenedAt,
			PRNumber:    pr.Number,
			Actor:       pr.Author,
			Draft:       pull.Draft,
		})
	} else if err != nil {
		return err
	} else {
		updates := map[string]interface{}{"state": state, "draft": pull.Draft, "title": pull.Title}
		if proposalNum != 0 {
			updates["proposal_num"] = proposalNum
		}
		if err := ri.db.Model(&pr).Updates(updates).Error; err != nil {
			return err
		}
		if proposalNum == 0 {
			proposalNum = pr.ProposalNum
		}
	}

	if pull.MergedAt != nil {
		ri.appendEvent(types.ProposalEvent{
			RepoID:      ri.repoID,
			ProposalNum: proposalNum,
			Kind:        types.KindPRMerged,
			OccurredAt:  github.ParseTime(*pull.MergedAt),
			PRNumber:    uint32(pull.Number),
		})
	} else if pull.ClosedAt != nil {
		ri.appendEvent(types.ProposalEvent{
			RepoID:      ri.repoID,
			ProposalNum: proposalNum,
			Kind:        types.KindPRClosed,
			OccurredAt:  github.ParseTime(*pull.ClosedAt),
			PRNumber:    uint32(pull.Number),
		})
	}

	reviews, err := ri.client.ListReviews(ctx, ri.owner, ri.slug, pull.Number)
	if err != nil {
		return fmt.Errorf("reviews: %w", err)
	}
	for _, review := range reviews {
		ri.appendEvent(types.ProposalEvent{
			RepoID:      ri.repoID,
			ProposalNum: proposalNum,
			Kind:        types.KindPRReview,
			OccurredAt:  github.ParseTime(review.SubmittedAt),
			PRNumber:    uint32(pull.Number),
			Actor:       review.User.Login,
			ToValue:     review.State,
		})
	}

	comments, err := ri.client.ListComments(ctx, ri.owner, ri.slug, pull.Number)
	if err != nil {
		return fmt.Errorf("comments: %w", err)
	}
	for _, comment := range comments {
		ri.appendEvent(types.ProposalEvent{
			RepoID:      ri.repoID,
			ProposalNum: proposalNum,
			Kind:        types.KindPRComment,
			OccurredAt:  github.ParseTime(comment.CreatedAt),
			PRNumber:    uint32(pull.Number),
			Actor:       comment.User.Login,
			Body:        ri.excerpt(comment.Body),
		})
	}

	commits, err := ri.client.ListCommits(ctx, ri.owner, ri.slug, pull.Number)
	if err != nil {
		return fmt.Errorf("commits: %w", err)
	}
	for _, commit := range commits {
		ri.appendEvent(types.ProposalEvent{
			RepoID:      ri.repoID,
			ProposalNum: proposalNum,
			Kind:        types.KindCommit,
			OccurredAt:  github.ParseTime(commit.Commit.Committer.Date),
			PRNumber:    uint32(pull.Number),
			Actor:       commit.Author.Login,
		})
	}

	if proposalNum != 0 {
		if err := ri.syncProposal(ctx, proposalNum); err != nil {
			log.Printf("%s indexer: proposal %d: %v", ri.repoName, proposalNum, err)
		}
	}

	return nil
}

// syncProposal fetches the proposal document, upserts the proposals row and
// appends document lifecycle events for any preamble changes since the last
// observation.
func (ri *RepoIndexer) syncProposal(ctx context.Context, num uint32) error {
	path := fmt.Sprintf("%sS/%s-%d.md", strings.ToUpper(ri.repoName), ri.repoName, num)
	doc, err := ri.client.GetContents(ctx, ri.owner, ri.slug, path)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	p, ok := parsePreamble(doc)
	if !ok {
		return fmt.Errorf("%s: no usable preamble", path)
	}

	observedAt := time.Now().UTC()

	var existing types.Proposal
	err = ri.db.Where("repo_id = ? AND number = ?", ri.repoID, num).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		row := types.Proposal{
			RepoID:   ri.repoID,
			Number:   num,
			Title:    p.Title,
			Author:   p.Author,
			Status:   p.Status,
			Category: p.Category,
			Deadline: p.Deadline,
		}
		if err := ri.db.Create(&row).Error; err != nil {
			return err
		}
		for _, ev := range proposalEventsForUpdate(ri.repoID, num, nil, p, observedAt) {
			ri.appendEvent(ev)
		}
		return nil
	} else if err != nil {
		return err
	}

	events := proposalEventsForUpdate(ri.repoID, num, &existing, p, observedAt)
	updates := map[string]interface{}{
		"title":    p.Title,
		"author":   p.Author,
		"status":   p.Status,
		"category": p.Category,
		"deadline": p.Deadline,
	}
	if err := ri.db.Model(&existing).Updates(updates).Error; err != nil {
		return err
	}
	for _, ev := range events {
		ri.appendEvent(ev)
	}
	return nil
}

// appendEvent records an event unless an identical fact already exists.
// The event log is append-only; recorded events are never mutated.
func (ri *RepoIndexer) appendEvent(ev types.ProposalEvent) {
	if ev.OccurredAt.IsZero() {
		return
	}
	var count int64
	ri.db.Model(&types.ProposalEvent{}).
		Where("repo_id = ? AND proposal_num = ? AND pr_number = ? AND kind = ? AND occurred_at = ? AND actor = ?",
			ev.RepoID, ev.ProposalNum, ev.PRNumber, ev.Kind, ev.OccurredAt, ev.Actor).
		Count(&count)
	if count > 0 {
		return
	}
	if err := ri.db.Create(&ev).Error; err != nil {
		log.Printf("%s indexer: append %s event: %v", ri.repoName, ev.Kind, err)
	}
}

// excerpt strips markup from untrusted comment bodies before storing a short
// preview.
func (ri *RepoIndexer) excerpt(body string) string {
	clean := ri.sanitizer.Sanitize(body)
	if len(clean) > 500 {
		clean = clean[:500]
	}
	return clean
}

func (ri *RepoIndexer) checkpointKey() string {
	return "indexer_checkpoint_" + ri.repoName
}

func (ri *RepoIndexer) loadCheckpoint() time.Time {
	raw := GetSetting(ri.checkpointKey())
	if raw == "" {
		return time.Time{}
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}

func (ri *RepoIndexer) saveCheckpoint(t time.Time) error {
	return SetSetting(ri.db, ri.checkpointKey(), strconv.FormatInt(t.Unix(), 10))
}

func extractProposalNum(title string) uint32 {
	m := proposalRef.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// MultiRepoIndexer manages indexers for all tracked repositories
type MultiRepoIndexer struct {
	indexers map[uint8]*RepoIndexer
	db       *gorm.DB
}

// NewMultiRepoIndexer creates indexers for all active repositories
func NewMultiRepoIndexer(db *gorm.DB, client *github.Client) (*MultiRepoIndexer, error) {
	var repos []types.Repo
	if err := db.Where("active = ?", true).Find(&repos).Error; err != nil {
		return nil, err
	}

	mri := &MultiRepoIndexer{
		indexers: make(map[uint8]*RepoIndexer),
		db:       db,
	}
	for _, repo := range repos {
		mri.indexers[repo.ID] = NewRepoIndexer(repo, db, client)
	}
	return mri, nil
}

// StartAll launches every repo indexer on the shared poll interval
func (mri *MultiRepoIndexer) StartAll(ctx context.Context, interval time.Duration) {
	for _, indexer := range mri.indexers {
		go indexer.Run(ctx, interval)
	}
}

// IndexerService runs the indexing service until the context is cancelled
func IndexerService(ctx context.Context, db *gorm.DB, client *github.Client, interval time.Duration) {
	indexer, err := NewMultiRepoIndexer(db, client)
	if err != nil {
		log.Printf("Failed to start indexer service: %v", err)
		return
	}
	indexer.StartAll(ctx, interval)

	<-ctx.Done()
	log.Println("Indexer service stopping")
}
