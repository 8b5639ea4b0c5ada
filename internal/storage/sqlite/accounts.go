package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
)

func (s *SQLite) GetUser(ctx context.Context, username string) (types.User, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT username, password, role FROM user WHERE username = ? LIMIT 1",
	)
	if err != nil {
		return types.User{}, fmt.Errorf("GetUser: prepare: %w", err)
	}
	defer stmt.Close()

	var u types.User
	if err := stmt.QueryRowContext(ctx, username).Scan(&u.Username, &u.PasswordHash, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, fmt.Errorf("GetUser: %s: %w", username, storage.ErrNoRecord)
		}
		return types.User{}, fmt.Errorf("GetUser: scan: %w", err)
	}

	return u, nil
}

func (s *SQLite) UpsertUser(ctx context.Context, u types.User) error {
	stmt, err := s.Db.PrepareContext(ctx, `
		INSERT INTO user (username, password, role) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET password = excluded.password, role = excluded.role`,
	)
	if err != nil {
		return fmt.Errorf("UpsertUser: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, u.Username, u.PasswordHash, u.Role); err != nil {
		return fmt.Errorf("UpsertUser: exec: %w", err)
	}

	return nil
}

func (s *SQLite) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	stmt, err := s.Db.PrepareContext(ctx, "UPDATE user SET password = ? WHERE username = ?")
	if err != nil {
		return fmt.Errorf("UpdatePassword: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, passwordHash, username)
	if err != nil {
		return fmt.Errorf("UpdatePassword: exec: %w", err)
	}

	return requireAffected(result, "UpdatePassword")
}

func (s *SQLite) CreateEvent(ctx context.Context, e types.Event) error {
	stmt, err := s.Db.PrepareContext(ctx, `
		INSERT INTO events (id, title, description, event_date, attachment, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("CreateEvent: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		e.ID, e.Title, e.Description, e.Date, e.Attachment, e.CreatedBy, e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("CreateEvent: exec: %w", err)
	}

	return nil
}

const eventColumns = "id, title, description, event_date, attachment, created_by, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (types.Event, error) {
	var e types.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Attachment, &e.CreatedBy, &e.CreatedAt)
	return e, err
}

func (s *SQLite) GetEvent(ctx context.Context, id string) (types.Event, error) {
	stmt, err := s.Db.PrepareContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ? LIMIT 1")
	if err != nil {
		return types.Event{}, fmt.Errorf("GetEvent: prepare: %w", err)
	}
	defer stmt.Close()

	e, err := scanEvent(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Event{}, fmt.Errorf("GetEvent: %s: %w", id, storage.ErrNoRecord)
		}
		return types.Event{}, fmt.Errorf("GetEvent: scan: %w", err)
	}

	return e, nil
}

func (s *SQLite) ListEvents(ctx context.Context) ([]types.Event, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("ListEvents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListEvents: query: %w", err)
	}
	defer rows.Close()

	events := make([]types.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("ListEvents: scan row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListEvents: rows iteration: %w", err)
	}

	return events, nil
}

func (s *SQLite) DeleteEvent(ctx context.Context, id string) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM events WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteEvent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteEvent: exec: %w", err)
	}

	return requireAffected(result, "DeleteEvent")
}

func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNoRecord)
	}
	return nil
}
