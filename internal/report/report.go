// Package report turns raw per-subject rows into the summaries shown to
// students: marks with SGPA/CGPA, attendance percentage and fee due status.
//
// Every operation is a pure function of the rows returned by storage.
// Nothing is cached between calls and nothing is written.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/shopspring/decimal"
)

// Fee status messages.
const (
	MsgHasDues   = "You have dues, contact the Admin office."
	MsgNoDues    = "No dues."
	msgNoRecords = "You have NO RECORDS in %s"
)

// Aggregator computes report summaries from a storage.Storage.
type Aggregator struct {
	store storage.Storage
}

func New(store storage.Storage) *Aggregator {
	return &Aggregator{store: store}
}

// ComputeMarks returns the student's marks for a semester. A missing row
// yields an empty summary with zero SGPA and CGPA.
func (a *Aggregator) ComputeMarks(ctx context.Context, semester types.Semester, studentID string) (types.MarksSummary, error) {
	if !semester.Valid() {
		return types.MarksSummary{}, fmt.Errorf("semester %d: %w", semester, ErrInvalidSemester)
	}

	row, err := a.store.GetMarks(ctx, semester, studentID)
	if errors.Is(err, storage.ErrNoRecord) {
		return types.MarksSummary{Subjects: []types.SubjectRecord{}}, nil
	}
	if err != nil {
		return types.MarksSummary{}, &DataAccessError{Op: "ComputeMarks", Err: err}
	}

	return types.MarksSummary{
		Subjects: row.Scores.Records(),
		SGPA:     roundTo1(mean(row.Scores)),
		CGPA:     row.CGPA,
	}, nil
}

// ComputeAttendance returns the student's attendance. The total percentage
// is left unrounded, unlike SGPA.
func (a *Aggregator) ComputeAttendance(ctx context.Context, studentID string) (types.AttendanceSummary, error) {
	row, err := a.store.GetAttendance(ctx, studentID)
	if errors.Is(err, storage.ErrNoRecord) {
		return types.AttendanceSummary{Subjects: []types.SubjectRecord{}}, nil
	}
	if err != nil {
		return types.AttendanceSummary{}, &DataAccessError{Op: "ComputeAttendance", Err: err}
	}

	return types.AttendanceSummary{
		Subjects:        row.Scores.Records(),
		TotalPercentage: mean(row.Scores),
	}, nil
}

// ComputeFees returns the student's fee records for one category and year
// together with a due status message.
func (a *Aggregator) ComputeFees(ctx context.Context, category types.FeeCategory, year int, studentID string) (types.FeeReport, error) {
	if !category.Valid() {
		return types.FeeReport{}, fmt.Errorf("fee category %d: %w", category, ErrInvalidCategory)
	}

	records, err := a.store.GetFees(ctx, category, year, studentID)
	if err != nil {
		return types.FeeReport{}, &DataAccessError{Op: "ComputeFees", Err: err}
	}

	if len(records) == 0 {
		return types.FeeReport{
			Records:    []types.FeeRecord{{Year: 0, Paid: decimal.Zero, Due: decimal.Zero}},
			DueMessage: fmt.Sprintf(msgNoRecords, category),
		}, nil
	}

	msg := MsgNoDues
	for _, r := range records {
		if r.Due.IsPositive() {
			msg = MsgHasDues
			break
		}
	}

	return types.FeeReport{Records: records, DueMessage: msg}, nil
}

// ComputeProfile returns the student's profile, or ErrNotFound.
func (a *Aggregator) ComputeProfile(ctx context.Context, studentID string) (types.Profile, error) {
	p, err := a.store.GetProfile(ctx, studentID)
	if errors.Is(err, storage.ErrNoRecord) {
		return types.Profile{}, fmt.Errorf("profile %s: %w", studentID, ErrNotFound)
	}
	if err != nil {
		return types.Profile{}, &DataAccessError{Op: "ComputeProfile", Err: err}
	}
	return p, nil
}

func mean(s types.SubjectScores) float64 {
	return float64(s.Sum()) / types.SubjectCount
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
