package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eipsight/eipsight/src/insight/governance"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func TestWaitingBuckets_FailingPRIsSkipped(t *testing.T) {
	db, mock := mockDB(t)
	// Per-PR loads run concurrently, so completion order is unknown.
	mock.MatchExpectationsInOrder(false)

	opened := ts("2024-05-20T00:00:00Z")
	asOf := ts("2024-06-01T00:00:00Z")

	prCols := []string{"id", "repo_id", "number", "author", "state", "opened_at"}
	mock.ExpectQuery(`SELECT \* FROM .pull_requests. WHERE state = \?`).
		WillReturnRows(sqlmock.NewRows(prCols).
			AddRow(1, 1, 1, "bob", "open", opened).
			AddRow(2, 1, 2, "bob", "open", opened))

	// One single-row lookup per open PR; either can be served first.
	mock.ExpectQuery(`SELECT \* FROM .pull_requests. WHERE repo_id = \? AND number = \?`).
		WillReturnRows(sqlmock.NewRows(prCols).AddRow(1, 1, 1, "bob", "open", opened))
	mock.ExpectQuery(`SELECT \* FROM .pull_requests. WHERE repo_id = \? AND number = \?`).
		WillReturnRows(sqlmock.NewRows(prCols).AddRow(2, 1, 2, "bob", "open", opened))

	evCols := []string{"id", "repo_id", "proposal_num", "kind", "occurred_at", "pr_number", "actor"}
	mock.ExpectQuery(`SELECT \* FROM .proposal_events. WHERE repo_id = \? AND pr_number = \?`).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(evCols).
			AddRow(10, 1, 1559, "pr_comment", ts("2024-05-22T00:00:00Z"), 1, "bob"))
	mock.ExpectQuery(`SELECT \* FROM .proposal_events. WHERE repo_id = \? AND pr_number = \?`).
		WithArgs(1, 2).
		WillReturnError(errors.New("connection reset"))

	// Only the surviving PR reaches the editor directory lookup.
	mock.ExpectQuery(`SELECT \* FROM .editor_roles. WHERE active = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "handle", "active"}))

	buckets, err := WaitingBuckets(context.Background(), db, nil, asOf, governance.DefaultStallThreshold)
	if err != nil {
		t.Fatalf("WaitingBuckets() error = %v, want nil", err)
	}

	total := 0
	var editorBucket WaitBucket
	for _, b := range buckets {
		total += b.Count
		if b.State == governance.WaitingOnEditor {
			editorBucket = b
		}
	}
	if total != 1 {
		t.Errorf("total classified PRs = %d, want 1 (failing PR skipped)", total)
	}
	if editorBucket.Count != 1 || editorBucket.OldestPR != 1 {
		t.Errorf("WAITING_ON_EDITOR bucket = %+v, want count 1 for PR 1", editorBucket)
	}
	wantWait := asOf.Sub(ts("2024-05-22T00:00:00Z")).Hours() / 24
	if editorBucket.OldestWaitDays != wantWait {
		t.Errorf("OldestWaitDays = %v, want %v", editorBucket.OldestWaitDays, wantWait)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
