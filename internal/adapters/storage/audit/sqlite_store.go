package audit

import (
	"context"
	"strings"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/audit"
)

const columns = `id, timestamp, category, action, severity, actor_id, actor_email, actor_role, resource_id, resource_type, description, ip_address, metadata`

// SQLiteStore implements Store on the audit_event table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save appends an event. Events are never updated.
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, storage.FormatTime(e.Timestamp), string(e.Category), string(e.Action), string(e.Severity),
		e.ActorID, e.ActorEmail, e.ActorRole, e.ResourceID, e.ResourceType, e.Description, e.IPAddress, e.Metadata)
	return err
}

// where renders the non-zero filter fields as an AND-ed SQL condition.
func (f Filter) where() (string, []any) {
	conds := []string{"1=1"}
	var args []any
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if f.Category != "" {
		add("category = ?", string(f.Category))
	}
	if f.Action != "" {
		add("action = ?", string(f.Action))
	}
	if f.ActorID != "" {
		add("actor_id = ?", f.ActorID)
	}
	if !f.Since.IsZero() {
		add("timestamp >= ?", storage.FormatTime(f.Since))
	}
	return strings.Join(conds, " AND "), args
}

// List returns matching events, newest first.
func (s *SQLiteStore) List(ctx context.Context, f Filter, limit int) ([]domain.Event, error) {
	cond, args := f.where()
	query := "SELECT " + columns + " FROM audit_event WHERE " + cond + " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var (
			e  domain.Event
			ts string
		)
		if err := rows.Scan(&e.ID, &ts, &e.Category, &e.Action, &e.Severity, &e.ActorID, &e.ActorEmail,
			&e.ActorRole, &e.ResourceID, &e.ResourceType, &e.Description, &e.IPAddress, &e.Metadata); err != nil {
			return nil, err
		}
		if e.Timestamp, err = storage.ParseTime(ts); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
