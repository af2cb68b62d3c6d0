package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods should accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error

	// Stats reports the file size in pages and the visitor and relay run counts.
	Stats(ctx context.Context) (Stats, error)

	// GetVisitor retrieves a visitor by id. Returns nil, nil if not found.
	GetVisitor(ctx context.Context, id string) (*Visitor, error)

	// EnsureVisitor returns the visitor with the given id, creating it first
	// when it does not exist yet.
	EnsureVisitor(ctx context.Context, id string) (*Visitor, error)

	// SetVisitorSessionID stores sessionID unless the visitor already has one,
	// and returns the stored value either way.
	SetVisitorSessionID(ctx context.Context, id, sessionID string) (string, error)

	// MarkPromoShown records when the promo modal was last shown to a visitor.
	MarkPromoShown(ctx context.Context, id string, at time.Time) error

	// SaveRelayRun inserts a relay run record.
	SaveRelayRun(ctx context.Context, run *RelayRun) error

	// ListRelayRuns returns the most recent relay runs, newest first.
	ListRelayRuns(ctx context.Context, limit int) ([]RelayRun, error)

	// DeleteRelayRunsBefore removes relay runs finished before the cutoff and
	// returns how many rows were deleted.
	DeleteRelayRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunSQLMaintenance executes VACUUM and ANALYZE on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		s.logger.WarnContext(ctx, "ANALYZE failed after VACUUM", "error", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

// Stats reads the page counters via PRAGMA and counts the domain tables.
func (s *sqlxStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	pragmas := []struct {
		name string
		dst  *int64
	}{
		{"page_count", &st.PageCount},
		{"page_size", &st.PageSize},
		{"freelist_count", &st.FreePages},
	}
	for _, p := range pragmas {
		if err := s.db.GetContext(ctx, p.dst, "PRAGMA "+p.name+";"); err != nil {
			return Stats{}, fmt.Errorf("failed to read %s: %w", p.name, err)
		}
	}

	query := `
        SELECT
            (SELECT COUNT(*) FROM visitors) AS visitors,
            (SELECT COUNT(*) FROM relay_runs) AS relay_runs,
            (SELECT COUNT(*) FROM relay_runs WHERE acknowledged = 0) AS unacknowledged_runs;
    `
	// Only the count columns are scanned; the page fields are kept.
	if err := s.db.GetContext(ctx, &st, query); err != nil {
		s.logger.ErrorContext(ctx, "Error counting rows for stats", "error", err)
		return Stats{}, fmt.Errorf("failed to count rows: %w", err)
	}
	return st, nil
}

// GetVisitor retrieves a visitor by id. Returns nil, nil if not found.
func (s *sqlxStore) GetVisitor(ctx context.Context, id string) (*Visitor, error) {
	if id == "" {
		return nil, fmt.Errorf("visitor id cannot be empty")
	}

	var v Visitor
	query := `SELECT id, session_id, promo_shown_at, created_at, updated_at FROM visitors WHERE id = ?`
	err := s.db.GetContext(ctx, &v, query, id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No visitor found", "visitor_id", id)
		return nil, nil
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching visitor",
			"visitor_id", id, "error", err)
		return nil, err
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting visitor", "visitor_id", id, "error", err)
		return nil, fmt.Errorf("failed to get visitor %s: %w", id, err)
	}
	return &v, nil
}

// EnsureVisitor returns the visitor, inserting an empty record first if needed.
func (s *sqlxStore) EnsureVisitor(ctx context.Context, id string) (*Visitor, error) {
	if id == "" {
		return nil, fmt.Errorf("visitor id cannot be empty")
	}

	now := s.now()
	query := `
        INSERT INTO visitors (id, created_at, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(id) DO NOTHING;
    `
	if _, err := s.db.ExecContext(ctx, query, id, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error ensuring visitor", "visitor_id", id, "error", err)
		return nil, fmt.Errorf("failed to ensure visitor %s: %w", id, err)
	}

	v, err := s.GetVisitor(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("visitor %s missing after insert", id)
	}
	return v, nil
}

// SetVisitorSessionID assigns the session id only once: the first stored
// value wins and is returned on every later call.
func (s *sqlxStore) SetVisitorSessionID(ctx context.Context, id, sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id cannot be empty")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for session id", "visitor_id", id, "error", err)
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	now := s.now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO visitors (id, created_at, updated_at) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING;`,
		id, now, now); err != nil {
		return "", fmt.Errorf("failed to ensure visitor %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE visitors SET session_id = ?, updated_at = ? WHERE id = ? AND session_id IS NULL;`,
		sessionID, now, id); err != nil {
		return "", fmt.Errorf("failed to set session id for visitor %s: %w", id, err)
	}

	var stored string
	if err := tx.GetContext(ctx, &stored, `SELECT session_id FROM visitors WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("failed to read session id for visitor %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit session id", "visitor_id", id, "error", err)
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	return stored, nil
}

// MarkPromoShown records the promo timestamp, creating the visitor if needed.
func (s *sqlxStore) MarkPromoShown(ctx context.Context, id string, at time.Time) error {
	if id == "" {
		return fmt.Errorf("visitor id cannot be empty")
	}

	now := s.now()
	query := `
        INSERT INTO visitors (id, promo_shown_at, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET promo_shown_at = excluded.promo_shown_at, updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, id, at.UTC(), now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error marking promo shown", "visitor_id", id, "error", err)
		return fmt.Errorf("failed to mark promo shown for visitor %s: %w", id, err)
	}
	return nil
}

// SaveRelayRun inserts a relay run and sets its generated ID.
func (s *sqlxStore) SaveRelayRun(ctx context.Context, run *RelayRun) error {
	if run == nil {
		return fmt.Errorf("cannot save nil relay run")
	}
	if run.SessionID == "" {
		return fmt.Errorf("relay run must have a session id")
	}

	run.StartedAt = run.StartedAt.UTC()
	if run.FinishedAt.IsZero() {
		run.FinishedAt = s.now()
	} else {
		run.FinishedAt = run.FinishedAt.UTC()
	}

	query := `
        INSERT INTO relay_runs (session_id, name, phone, address, tariff, exchanges, acknowledged, error, started_at, finished_at)
        VALUES (:session_id, :name, :phone, :address, :tariff, :exchanges, :acknowledged, :error, :started_at, :finished_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, run)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving relay run", "session_id", run.SessionID, "error", err)
		return fmt.Errorf("failed to save relay run %s: %w", run.SessionID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		run.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving relay run",
			"session_id", run.SessionID, "error", err)
	}

	s.logger.DebugContext(ctx, "Relay run saved", "session_id", run.SessionID, "run_id", run.ID)
	return nil
}

// ListRelayRuns returns up to limit runs, newest first.
func (s *sqlxStore) ListRelayRuns(ctx context.Context, limit int) ([]RelayRun, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 500 {
		limit = 500
	}

	var runs []RelayRun
	query := `
        SELECT id, session_id, name, phone, address, tariff, exchanges, acknowledged, error, started_at, finished_at
        FROM relay_runs
        ORDER BY finished_at DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error listing relay runs", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to list relay runs: %w", err)
	}
	return runs, nil
}

// DeleteRelayRunsBefore removes runs that finished before cutoff.
func (s *sqlxStore) DeleteRelayRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM relay_runs WHERE finished_at < ?;`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting old relay runs", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete relay runs before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get rows affected after deleting relay runs", "error", err)
		return 0, nil
	}
	s.logger.InfoContext(ctx, "Old relay runs deleted", "cutoff", cutoff, "deleted", affected)
	return affected, nil
}
