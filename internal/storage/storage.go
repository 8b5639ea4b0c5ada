// Package storage defines the Storage interface, the contract that any
// database backend must satisfy to work with this application.
//
// Handlers and the report aggregator depend only on this interface, so
// tests can pass a fake and the backend can be swapped in one place
// (cmd/student-portal/main.go).
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/student-portal/internal/types"
)

// ErrNoRecord is returned (possibly wrapped) when a lookup matches no row.
// It is distinct from connectivity or query failures.
var ErrNoRecord = errors.New("storage: no matching record")

// Storage is the database contract.
type Storage interface {
	// GetMarks fetches the student's row from the given semester table.
	GetMarks(ctx context.Context, semester types.Semester, studentID string) (types.MarksRow, error)

	// GetAttendance fetches the student's attendance row.
	GetAttendance(ctx context.Context, studentID string) (types.AttendanceRow, error)

	// GetFees returns every fee row for the student in the given category
	// and year, in table order. An empty slice is not an error.
	GetFees(ctx context.Context, category types.FeeCategory, year int, studentID string) ([]types.FeeRecord, error)

	// GetProfile fetches the student's profile row.
	GetProfile(ctx context.Context, studentID string) (types.Profile, error)

	GetUser(ctx context.Context, username string) (types.User, error)
	// UpsertUser creates the user or replaces its password hash and role.
	UpsertUser(ctx context.Context, user types.User) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	CreateEvent(ctx context.Context, event types.Event) error
	GetEvent(ctx context.Context, id string) (types.Event, error)
	// ListEvents returns events newest first.
	ListEvents(ctx context.Context) ([]types.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
