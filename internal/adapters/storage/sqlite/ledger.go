package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/projboard/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// defaultListLimit bounds activity reads when callers pass no limit.
const defaultListLimit = 50

// Ledger stores change events in a process-lifetime in-memory database.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens a private in-memory ledger. The data is gone once the ledger is closed.
func OpenLedger() (*Ledger, error) {
	dsn := "file:projboard-" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// A single long-lived connection keeps the in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	ledger := &Ledger{db: db}
	if err := ledger.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

// Close closes the database and discards every event.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// migrate handles migrate.
func (l *Ledger) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			from_status TEXT NOT NULL DEFAULT '',
			to_status TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_project ON change_events(project_id, id DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// Append inserts one change event and returns it with its assigned id.
func (l *Ledger) Append(ctx context.Context, event domain.ChangeEvent) (domain.ChangeEvent, error) {
	if strings.TrimSpace(event.ProjectID) == "" {
		return domain.ChangeEvent{}, errors.New("change event project id is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	event.OccurredAt = event.OccurredAt.UTC()
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO change_events(project_id, operation, title, from_status, to_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		event.ProjectID,
		string(event.Operation),
		event.Title,
		string(event.FromStatus),
		string(event.ToStatus),
		ts(event.OccurredAt),
	)
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("insert change event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("read change event id: %w", err)
	}
	event.ID = id
	return event, nil
}

// List returns recent events, newest first. Ids follow append order.
func (l *Ledger) List(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, project_id, operation, title, from_status, to_status, created_at
		FROM change_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListProject returns recent events for one project, newest first.
func (l *Ledger) ListProject(ctx context.Context, projectID string, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, project_id, operation, title, from_status, to_status, created_at
		FROM change_events
		WHERE project_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// scanEvents decodes change_events rows.
func scanEvents(rows *sql.Rows) ([]domain.ChangeEvent, error) {
	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event      domain.ChangeEvent
			opRaw      string
			fromRaw    string
			toRaw      string
			createdRaw string
		)
		if err := rows.Scan(&event.ID, &event.ProjectID, &opRaw, &event.Title, &fromRaw, &toRaw, &createdRaw); err != nil {
			return nil, err
		}
		event.Operation = domain.ChangeOperation(opRaw)
		event.FromStatus = domain.Status(fromRaw)
		event.ToStatus = domain.Status(toRaw)
		event.OccurredAt = parseTS(createdRaw)
		out = append(out, event)
	}
	return out, rows.Err()
}

// storedTimeLayout keeps nine fractional digits so stored text sorts like time.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
