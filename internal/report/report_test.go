package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
)

// fakeStore serves fixed rows keyed by student ID and counts fetches.
type fakeStore struct {
	storage.Storage

	marks      map[types.Semester]map[string]types.MarksRow
	attendance map[string]types.AttendanceRow
	fees       map[types.FeeCategory][]types.FeeRecord
	profiles   map[string]types.Profile
	err        error
	calls      int
}

func (f *fakeStore) GetMarks(_ context.Context, sem types.Semester, id string) (types.MarksRow, error) {
	f.calls++
	if f.err != nil {
		return types.MarksRow{}, f.err
	}
	row, ok := f.marks[sem][id]
	if !ok {
		return types.MarksRow{}, fmt.Errorf("GetMarks: %w", storage.ErrNoRecord)
	}
	return row, nil
}

func (f *fakeStore) GetAttendance(_ context.Context, id string) (types.AttendanceRow, error) {
	f.calls++
	if f.err != nil {
		return types.AttendanceRow{}, f.err
	}
	row, ok := f.attendance[id]
	if !ok {
		return types.AttendanceRow{}, fmt.Errorf("GetAttendance: %w", storage.ErrNoRecord)
	}
	return row, nil
}

func (f *fakeStore) GetFees(_ context.Context, cat types.FeeCategory, year int, _ string) ([]types.FeeRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []types.FeeRecord
	for _, r := range f.fees[cat] {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProfile(_ context.Context, id string) (types.Profile, error) {
	f.calls++
	if f.err != nil {
		return types.Profile{}, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return types.Profile{}, fmt.Errorf("GetProfile: %w", storage.ErrNoRecord)
	}
	return p, nil
}

func fee(year int, paid, due int64) types.FeeRecord {
	return types.FeeRecord{Year: year, Paid: decimal.NewFromInt(paid), Due: decimal.NewFromInt(due)}
}

func TestComputeMarks(t *testing.T) {
	store := &fakeStore{marks: map[types.Semester]map[string]types.MarksRow{
		1: {"S1": {Scores: types.SubjectScores{80, 75, 90, 60, 70, 85}, CGPA: 8.2}},
		2: {"S1": {Scores: types.SubjectScores{100, 100, 100, 100, 100, 99}, CGPA: 9.87}},
	}}
	agg := New(store)
	ctx := context.Background()

	tests := []struct {
		name     string
		semester types.Semester
		student  string
		wantSGPA float64
		wantCGPA float64
		wantSubs int
	}{
		{name: "rounded to one decimal", semester: 1, student: "S1", wantSGPA: 76.7, wantCGPA: 8.2, wantSubs: 6},
		{name: "cgpa copied verbatim", semester: 2, student: "S1", wantSGPA: 99.8, wantCGPA: 9.87, wantSubs: 6},
		{name: "missing row", semester: 3, student: "S1", wantSubs: 0},
		{name: "unknown student", semester: 1, student: "S2", wantSubs: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agg.ComputeMarks(ctx, tt.semester, tt.student)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSGPA, got.SGPA)
			assert.Equal(t, tt.wantCGPA, got.CGPA)
			assert.Len(t, got.Subjects, tt.wantSubs)
		})
	}
}

func TestComputeMarksLabels(t *testing.T) {
	store := &fakeStore{marks: map[types.Semester]map[string]types.MarksRow{
		4: {"S1": {Scores: types.SubjectScores{1, 2, 3, 4, 5, 6}}},
	}}

	got, err := New(store).ComputeMarks(context.Background(), 4, "S1")
	require.NoError(t, err)

	want := []types.SubjectRecord{
		{Subject: "Subject1", Value: 1}, {Subject: "Subject2", Value: 2},
		{Subject: "Subject3", Value: 3}, {Subject: "Subject4", Value: 4},
		{Subject: "Subject5", Value: 5}, {Subject: "Subject6", Value: 6},
	}
	assert.Equal(t, want, got.Subjects)
	assert.Equal(t, 3.5, got.SGPA)
}

func TestComputeMarksInvalidSemester(t *testing.T) {
	store := &fakeStore{}
	agg := New(store)

	for _, sem := range []types.Semester{0, -1, 9} {
		_, err := agg.ComputeMarks(context.Background(), sem, "S1")
		assert.ErrorIs(t, err, ErrInvalidSemester)
	}
	assert.Zero(t, store.calls, "storage must not be queried for an invalid semester")
}

func TestComputeAttendance(t *testing.T) {
	store := &fakeStore{attendance: map[string]types.AttendanceRow{
		"S1": {Scores: types.SubjectScores{100, 90, 95, 85, 92, 88}},
	}}
	agg := New(store)

	got, err := agg.ComputeAttendance(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 550.0/6, got.TotalPercentage)
	assert.Len(t, got.Subjects, 6)

	empty, err := agg.ComputeAttendance(context.Background(), "S2")
	require.NoError(t, err)
	assert.Empty(t, empty.Subjects)
	assert.Zero(t, empty.TotalPercentage)
}

func TestComputeFees(t *testing.T) {
	store := &fakeStore{fees: map[types.FeeCategory][]types.FeeRecord{
		types.FeeTuition:   {fee(1, 5000, 0), fee(1, 2000, 0)},
		types.FeeTransport: {fee(2, 300, 0), fee(2, 0, 150)},
	}}
	agg := New(store)
	ctx := context.Background()

	t.Run("no dues", func(t *testing.T) {
		got, err := agg.ComputeFees(ctx, types.FeeTuition, 1, "S1")
		require.NoError(t, err)
		assert.Equal(t, MsgNoDues, got.DueMessage)
		require.Len(t, got.Records, 2)
		assert.Equal(t, "5000", got.Records[0].Paid.String())
		assert.Equal(t, "2000", got.Records[1].Paid.String())
	})

	t.Run("has dues", func(t *testing.T) {
		got, err := agg.ComputeFees(ctx, types.FeeTransport, 2, "S1")
		require.NoError(t, err)
		assert.Equal(t, MsgHasDues, got.DueMessage)
		assert.Len(t, got.Records, 2)
	})

	t.Run("no records", func(t *testing.T) {
		got, err := agg.ComputeFees(ctx, types.FeeHostel, 2, "S1")
		require.NoError(t, err)
		assert.Equal(t, "You have NO RECORDS in hostel", got.DueMessage)
		require.Len(t, got.Records, 1)
		assert.Zero(t, got.Records[0].Year)
		assert.True(t, got.Records[0].Paid.IsZero())
		assert.True(t, got.Records[0].Due.IsZero())
	})

	t.Run("invalid category", func(t *testing.T) {
		calls := store.calls
		_, err := agg.ComputeFees(ctx, types.FeeCategory(3), 2, "S1")
		assert.ErrorIs(t, err, ErrInvalidCategory)
		assert.Equal(t, calls, store.calls)
	})
}

func TestComputeProfile(t *testing.T) {
	want := types.Profile{StudentID: "S1", Name: "Asha", Branch: "CSE"}
	agg := New(&fakeStore{profiles: map[string]types.Profile{"S1": want}})

	got, err := agg.ComputeProfile(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = agg.ComputeProfile(context.Background(), "S2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDataAccessErrorsPropagate(t *testing.T) {
	boom := errors.New("database is locked")
	store := &fakeStore{err: boom}
	agg := New(store)
	ctx := context.Background()

	_, err := agg.ComputeMarks(ctx, 1, "S1")
	assertDataAccess(t, err, boom)
	_, err = agg.ComputeAttendance(ctx, "S1")
	assertDataAccess(t, err, boom)
	_, err = agg.ComputeFees(ctx, types.FeeTuition, 1, "S1")
	assertDataAccess(t, err, boom)
	_, err = agg.ComputeProfile(ctx, "S1")
	assertDataAccess(t, err, boom)

	assert.Equal(t, 4, store.calls, "failures must not be retried")
}

func assertDataAccess(t *testing.T, err, cause error) {
	t.Helper()
	var dae *DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.ErrorIs(t, err, cause)
}

func TestComputeIsIdempotent(t *testing.T) {
	store := &fakeStore{
		marks:      map[types.Semester]map[string]types.MarksRow{1: {"S1": {Scores: types.SubjectScores{80, 75, 90, 60, 70, 85}, CGPA: 8.2}}},
		attendance: map[string]types.AttendanceRow{"S1": {Scores: types.SubjectScores{100, 90, 95, 85, 92, 88}}},
		fees:       map[types.FeeCategory][]types.FeeRecord{types.FeeTuition: {fee(1, 10, 5)}},
	}
	agg := New(store)
	ctx := context.Background()

	m1, _ := agg.ComputeMarks(ctx, 1, "S1")
	m2, _ := agg.ComputeMarks(ctx, 1, "S1")
	assert.Equal(t, m1, m2)

	a1, _ := agg.ComputeAttendance(ctx, "S1")
	a2, _ := agg.ComputeAttendance(ctx, "S1")
	assert.Equal(t, a1, a2)

	f1, _ := agg.ComputeFees(ctx, types.FeeTuition, 1, "S1")
	f2, _ := agg.ComputeFees(ctx, types.FeeTuition, 1, "S1")
	assert.Equal(t, f1, f2)
}
