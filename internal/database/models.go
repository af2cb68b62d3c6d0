package database

import (
	"database/sql"
	"time"
)

// Visitor is a browser identified by the visitor cookie. It holds the state
// the site keeps across page loads: the relay chat session id and the last
// time the promo modal was shown.
type Visitor struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	SessionID    sql.NullString `db:"session_id"`
	PromoShownAt sql.NullTime   `db:"promo_shown_at"`
}

// RelayRun records one scripted replay of a voice lead into the helpdesk chat.
type RelayRun struct {
	ID        uint   `db:"id"         json:"id"`
	SessionID string `db:"session_id" json:"session_id"`

	Name    string `db:"name"    json:"name"`
	Phone   string `db:"phone"   json:"phone"`
	Address string `db:"address" json:"address"`
	Tariff  string `db:"tariff"  json:"tariff"`

	Exchanges    int    `db:"exchanges"    json:"exchanges"`
	Acknowledged bool   `db:"acknowledged" json:"acknowledged"` // backend confirmed the request
	Error        string `db:"error"        json:"error,omitempty"`

	StartedAt  time.Time `db:"started_at"  json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

// Stats is a snapshot of the database file and its row counts.
type Stats struct {
	PageCount int64
	PageSize  int64
	FreePages int64

	Visitors           int64 `db:"visitors"`
	RelayRuns          int64 `db:"relay_runs"`
	UnacknowledgedRuns int64 `db:"unacknowledged_runs"`
}

// SizeBytes is the size of the main database file.
func (s Stats) SizeBytes() int64 { return s.PageCount * s.PageSize }
