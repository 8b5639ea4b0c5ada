// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, report and auth can all import types without
// depending on each other.
package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SubjectCount is the fixed number of subject columns in every marks and
// attendance row.
const SubjectCount = 6

// SubjectScores holds the six positional subject columns of a row.
type SubjectScores [SubjectCount]int

// Sum adds the six scores.
func (s SubjectScores) Sum() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Records labels the scores Subject1..Subject6 in column order.
func (s SubjectScores) Records() []SubjectRecord {
	records := make([]SubjectRecord, 0, SubjectCount)
	for i, v := range s {
		records = append(records, SubjectRecord{
			Subject: fmt.Sprintf("Subject%d", i+1),
			Value:   v,
		})
	}
	return records
}

// SubjectRecord is one labelled subject column of a marks or attendance row.
type SubjectRecord struct {
	Subject string `json:"subject"`
	Value   int    `json:"value"`
}

// MarksRow is a raw row of a semester table.
type MarksRow struct {
	Scores SubjectScores
	CGPA   float64
}

// AttendanceRow is a raw row of the attendance table.
type AttendanceRow struct {
	Scores SubjectScores
}

// MarksSummary is the derived semester report returned to clients.
type MarksSummary struct {
	Subjects []SubjectRecord `json:"marks"`
	SGPA     float64         `json:"sgpa"`
	CGPA     float64         `json:"cgpa"`
}

// AttendanceSummary is the derived attendance report returned to clients.
type AttendanceSummary struct {
	Subjects        []SubjectRecord `json:"attendance"`
	TotalPercentage float64         `json:"total_percentage"`
}

// FeeRecord is one row of a fee table.
type FeeRecord struct {
	Year int             `json:"year"`
	Paid decimal.Decimal `json:"paid"`
	Due  decimal.Decimal `json:"due"`
}

// FeeReport is the derived fee status returned to clients.
type FeeReport struct {
	Records    []FeeRecord `json:"records"`
	DueMessage string      `json:"due_message"`
}

// Profile is the student's personal record. It is passed through as stored.
type Profile struct {
	StudentID string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Branch    string `json:"branch"`
	Section   string `json:"section"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
	PhotoLink string `json:"photo_link"`
}

// Roles a User may hold.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is a login. For students Username is the student ID.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// Event is an entry on the events bulletin.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"       validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Date        string    `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	Attachment  string    `json:"attachment,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
