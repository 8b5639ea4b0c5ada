// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank import below registers the sqlite3 driver with database/sql.
//
// Table names never come from request input. Semester and fee category
// values are mapped through the fixed lookup tables below, and anything
// outside them is rejected before a statement is built.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-portal/internal/config"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

var semesterTables = [types.MaxSemester + 1]string{
	1: "sem1", 2: "sem2", 3: "sem3", 4: "sem4",
	5: "sem5", 6: "sem6", 7: "sem7", 8: "sem8",
}

var feeTables = [...]string{
	types.FeeTuition:   "tuition",
	types.FeeHostel:    "hostel",
	types.FeeTransport: "transport",
}

var errUnknownTable = errors.New("unknown table")

func semesterTable(s types.Semester) (string, error) {
	if !s.Valid() {
		return "", fmt.Errorf("semester %d: %w", s, errUnknownTable)
	}
	return semesterTables[s], nil
}

func feeTable(c types.FeeCategory) (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("fee category %d: %w", c, errUnknownTable)
	}
	return feeTables[c], nil
}

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.StoragePath, creates every table
// if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	return Open(cfg.StoragePath)
}

// Open is New for callers that only have a path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	for _, stmt := range schema() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite.Open: create table: %w", err)
		}
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func schema() []string {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user (
			username TEXT PRIMARY KEY,
			password TEXT NOT NULL,
			role     TEXT NOT NULL DEFAULT 'student'
		)`,
		`CREATE TABLE IF NOT EXISTS profile (
			student_id TEXT PRIMARY KEY,
			name       TEXT,
			email      TEXT,
			phone      TEXT,
			branch     TEXT,
			section    TEXT,
			dob        TEXT,
			gender     TEXT,
			photo_link TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			student_id TEXT PRIMARY KEY,
			sub1 INTEGER NOT NULL, sub2 INTEGER NOT NULL, sub3 INTEGER NOT NULL,
			sub4 INTEGER NOT NULL, sub5 INTEGER NOT NULL, sub6 INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			event_date  TEXT NOT NULL DEFAULT '',
			attachment  TEXT NOT NULL DEFAULT '',
			created_by  TEXT NOT NULL,
			created_at  DATETIME NOT NULL
		)`,
	}

	for _, table := range semesterTables[1:] {
		stmts = append(stmts, `CREATE TABLE IF NOT EXISTS `+table+` (
			student_id TEXT PRIMARY KEY,
			sub1 INTEGER NOT NULL, sub2 INTEGER NOT NULL, sub3 INTEGER NOT NULL,
			sub4 INTEGER NOT NULL, sub5 INTEGER NOT NULL, sub6 INTEGER NOT NULL,
			cgpa REAL NOT NULL DEFAULT 0
		)`)
	}

	for _, table := range feeTables {
		stmts = append(stmts, `CREATE TABLE IF NOT EXISTS `+table+` (
			student_id TEXT    NOT NULL,
			year       INTEGER NOT NULL,
			paid       NUMERIC NOT NULL DEFAULT 0,
			due        NUMERIC NOT NULL DEFAULT 0
		)`)
	}

	return stmts
}

// ─────────────────────────────────────────────────────────────────────────────
// Reports
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) GetMarks(ctx context.Context, semester types.Semester, studentID string) (types.MarksRow, error) {
	table, err := semesterTable(semester)
	if err != nil {
		return types.MarksRow{}, fmt.Errorf("GetMarks: %w", err)
	}

	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT sub1, sub2, sub3, sub4, sub5, sub6, cgpa FROM "+table+" WHERE student_id = ? LIMIT 1",
	)
	if err != nil {
		return types.MarksRow{}, fmt.Errorf("GetMarks: prepare: %w", err)
	}
	defer stmt.Close()

	var row types.MarksRow
	err = stmt.QueryRowContext(ctx, studentID).Scan(
		&row.Scores[0], &row.Scores[1], &row.Scores[2],
		&row.Scores[3], &row.Scores[4], &row.Scores[5],
		&row.CGPA,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.MarksRow{}, fmt.Errorf("GetMarks: %s for %s: %w", table, studentID, storage.ErrNoRecord)
		}
		return types.MarksRow{}, fmt.Errorf("GetMarks: scan: %w", err)
	}

	return row, nil
}

func (s *SQLite) GetAttendance(ctx context.Context, studentID string) (types.AttendanceRow, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT sub1, sub2, sub3, sub4, sub5, sub6 FROM attendance WHERE student_id = ? LIMIT 1",
	)
	if err != nil {
		return types.AttendanceRow{}, fmt.Errorf("GetAttendance: prepare: %w", err)
	}
	defer stmt.Close()

	var row types.AttendanceRow
	err = stmt.QueryRowContext(ctx, studentID).Scan(
		&row.Scores[0], &row.Scores[1], &row.Scores[2],
		&row.Scores[3], &row.Scores[4], &row.Scores[5],
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.AttendanceRow{}, fmt.Errorf("GetAttendance: %s: %w", studentID, storage.ErrNoRecord)
		}
		return types.AttendanceRow{}, fmt.Errorf("GetAttendance: scan: %w", err)
	}

	return row, nil
}

func (s *SQLite) GetFees(ctx context.Context, category types.FeeCategory, year int, studentID string) ([]types.FeeRecord, error) {
	table, err := feeTable(category)
	if err != nil {
		return nil, fmt.Errorf("GetFees: %w", err)
	}

	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT year, paid, due FROM "+table+" WHERE student_id = ? AND year = ? ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("GetFees: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, studentID, year)
	if err != nil {
		return nil, fmt.Errorf("GetFees: query: %w", err)
	}
	defer rows.Close()

	fees := make([]types.FeeRecord, 0)
	for rows.Next() {
		var fee types.FeeRecord
		if err := rows.Scan(&fee.Year, &fee.Paid, &fee.Due); err != nil {
			return nil, fmt.Errorf("GetFees: scan row: %w", err)
		}
		fees = append(fees, fee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetFees: rows iteration: %w", err)
	}

	return fees, nil
}

func (s *SQLite) GetProfile(ctx context.Context, studentID string) (types.Profile, error) {
	stmt, err := s.Db.PrepareContext(ctx, `
		SELECT student_id,
			IFNULL(name, ''), IFNULL(email, ''), IFNULL(phone, ''),
			IFNULL(branch, ''), IFNULL(section, ''), IFNULL(dob, ''),
			IFNULL(gender, ''), IFNULL(photo_link, '')
		FROM profile WHERE student_id = ? LIMIT 1`,
	)
	if err != nil {
		return types.Profile{}, fmt.Errorf("GetProfile: prepare: %w", err)
	}
	defer stmt.Close()

	var p types.Profile
	err = stmt.QueryRowContext(ctx, studentID).Scan(
		&p.StudentID, &p.Name, &p.Email, &p.Phone,
		&p.Branch, &p.Section, &p.DOB, &p.Gender, &p.PhotoLink,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, fmt.Errorf("GetProfile: %s: %w", studentID, storage.ErrNoRecord)
		}
		return types.Profile{}, fmt.Errorf("GetProfile: scan: %w", err)
	}

	return p, nil
}
