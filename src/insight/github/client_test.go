package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		zero bool
	}{
		{"2024-06-01T12:00:00Z", false},
		{"2024-06-01T12:00:00", false},
		{"not a time", true},
		{"", true},
	} {
		got := ParseTime(tc.raw)
		if got.IsZero() != tc.zero {
			t.Errorf("ParseTime(%q).IsZero() = %v, want %v", tc.raw, got.IsZero(), tc.zero)
		}
	}
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := ParseTime("2024-06-01T12:00:00Z"); !got.Equal(want) {
		t.Errorf("ParseTime() = %v, want %v", got, want)
	}
}

func TestListPulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/ethereum/EIPs/pulls" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token123" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"number":42,"title":"Update EIP-1559","state":"open","draft":false,` +
			`"user":{"login":"alice"},"created_at":"2024-06-01T00:00:00Z","updated_at":"2024-06-02T00:00:00Z",` +
			`"merged_at":null,"closed_at":null}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token123")
	pulls, err := c.ListPulls(context.Background(), "ethereum", "EIPs", "all", 1)
	if err != nil {
		t.Fatalf("ListPulls() error: %v", err)
	}
	if len(pulls) != 1 {
		t.Fatalf("ListPulls() = %d pulls, want 1", len(pulls))
	}
	if pulls[0].Number != 42 || pulls[0].User.Login != "alice" {
		t.Errorf("pull = %+v", pulls[0])
	}
}

func TestGet_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.ListReviews(context.Background(), "ethereum", "EIPs", 1); err == nil {
		t.Error("ListReviews() returned nil error on 404")
	}
}
