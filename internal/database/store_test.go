package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/edgard/robornet/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })
	return database.NewStore(db, nil)
}

func TestNewDB_MigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		db, err := database.NewDB(path)
		if err != nil {
			t.Fatalf("NewDB() run %d error = %v", i, err)
		}
		database.CloseDB(db)
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"robornet.db", "robornet.db"},
		{"file:robornet.db", "robornet.db"},
		{"file:data/robornet.db?_pragma=busy_timeout(5000)", "data/robornet.db"},
		{"my%20site.db", "my site.db"},
	}
	for _, tt := range tests {
		if got := database.ExtractDBNameFromPath(tt.in); got != tt.want {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStore_Visitors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.GetVisitor(ctx, "v1")
	if err != nil || got != nil {
		t.Fatalf("GetVisitor(unknown) = %v, %v; want nil, nil", got, err)
	}

	v, err := store.EnsureVisitor(ctx, "v1")
	if err != nil {
		t.Fatalf("EnsureVisitor() error = %v", err)
	}
	if v.ID != "v1" || v.SessionID.Valid || v.PromoShownAt.Valid {
		t.Fatalf("EnsureVisitor() = %+v, want empty visitor v1", v)
	}

	first, err := store.SetVisitorSessionID(ctx, "v1", "robornet_1_aaaaaa")
	if err != nil {
		t.Fatalf("SetVisitorSessionID() error = %v", err)
	}
	second, err := store.SetVisitorSessionID(ctx, "v1", "robornet_2_bbbbbb")
	if err != nil {
		t.Fatalf("SetVisitorSessionID() second error = %v", err)
	}
	if first != "robornet_1_aaaaaa" || second != first {
		t.Errorf("session ids = %q, %q; want the first value kept", first, second)
	}

	shown := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.MarkPromoShown(ctx, "v1", shown); err != nil {
		t.Fatalf("MarkPromoShown() error = %v", err)
	}
	v, err = store.GetVisitor(ctx, "v1")
	if err != nil {
		t.Fatalf("GetVisitor() error = %v", err)
	}
	if !v.PromoShownAt.Valid || !v.PromoShownAt.Time.Equal(shown) {
		t.Errorf("PromoShownAt = %+v, want %v", v.PromoShownAt, shown)
	}
	if v.SessionID.String != first {
		t.Errorf("SessionID = %q, want %q", v.SessionID.String, first)
	}
}

func TestStore_MarkPromoShownCreatesVisitor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.MarkPromoShown(ctx, "fresh", time.Now()); err != nil {
		t.Fatalf("MarkPromoShown() error = %v", err)
	}
	v, err := store.GetVisitor(ctx, "fresh")
	if err != nil || v == nil || !v.PromoShownAt.Valid {
		t.Fatalf("GetVisitor() = %+v, %v; want visitor with promo timestamp", v, err)
	}
}

func TestStore_RelayRuns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	runs := []*database.RelayRun{
		{SessionID: "robornet_voice_1_old", Name: "Иван", StartedAt: base, FinishedAt: base.Add(time.Minute)},
		{SessionID: "robornet_voice_2_new", Name: "Мария", Phone: "+79001234567", Exchanges: 6, Acknowledged: true,
			StartedAt: base.Add(48 * time.Hour), FinishedAt: base.Add(48*time.Hour + time.Minute)},
	}
	for _, r := range runs {
		if err := store.SaveRelayRun(ctx, r); err != nil {
			t.Fatalf("SaveRelayRun(%s) error = %v", r.SessionID, err)
		}
		if r.ID == 0 {
			t.Errorf("SaveRelayRun(%s) did not set ID", r.SessionID)
		}
	}

	got, err := store.ListRelayRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRelayRuns() error = %v", err)
	}
	want := []database.RelayRun{*runs[1], *runs[0]}
	timeEqual := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, timeEqual); diff != "" {
		t.Errorf("ListRelayRuns() mismatch (-want +got):\n%s", diff)
	}

	deleted, err := store.DeleteRelayRunsBefore(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteRelayRunsBefore() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteRelayRunsBefore() deleted = %d, want 1", deleted)
	}

	got, err = store.ListRelayRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRelayRuns() error = %v", err)
	}
	if diff := cmp.Diff([]string{"robornet_voice_2_new"}, sessionIDs(got), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("remaining runs mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveRelayRunRejectsMissingSession(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	if err := store.SaveRelayRun(context.Background(), &database.RelayRun{}); err == nil {
		t.Fatal("SaveRelayRun() error = nil, want error for empty session id")
	}
	if err := store.SaveRelayRun(context.Background(), nil); err == nil {
		t.Fatal("SaveRelayRun(nil) error = nil, want error")
	}
}

func TestStore_RunSQLMaintenance(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.RunSQLMaintenance(ctx); err == nil {
		t.Fatal("RunSQLMaintenance(cancelled) error = nil, want context error")
	}
}

func TestStore_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.EnsureVisitor(ctx, "visitor-1"); err != nil {
		t.Fatalf("EnsureVisitor() error = %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, r := range []*database.RelayRun{
		{SessionID: "robornet_voice_1_ack", Acknowledged: true, StartedAt: now, FinishedAt: now},
		{SessionID: "robornet_voice_2_lost", StartedAt: now, FinishedAt: now},
	} {
		if err := store.SaveRelayRun(ctx, r); err != nil {
			t.Fatalf("SaveRelayRun(%s) error = %v", r.SessionID, err)
		}
	}

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.PageCount <= 0 || st.PageSize <= 0 || st.SizeBytes() != st.PageCount*st.PageSize {
		t.Errorf("Stats() pages = %d x %d, size %d", st.PageCount, st.PageSize, st.SizeBytes())
	}
	counts := [3]int64{st.Visitors, st.RelayRuns, st.UnacknowledgedRuns}
	if diff := cmp.Diff([3]int64{1, 2, 1}, counts); diff != "" {
		t.Errorf("Stats() counts mismatch (-want +got):\n%s", diff)
	}
}

func sessionIDs(runs []database.RelayRun) []string {
	out := make([]string, 0, len(runs))
	for _, r := range runs {
		out = append(out, r.SessionID)
	}
	return out
}
