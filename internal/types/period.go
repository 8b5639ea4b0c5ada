package types

// MaxSemester is the number of semester tables (sem1..sem8).
const MaxSemester = 8

// Semester is a 1-based semester index.
type Semester int

// Valid reports whether s names one of the semester tables.
func (s Semester) Valid() bool {
	return s >= 1 && s <= MaxSemester
}

// FeeCategory indexes the fixed fee category table.
type FeeCategory int

const (
	FeeTuition FeeCategory = iota
	FeeHostel
	FeeTransport
)

var feeCategoryNames = [...]string{
	FeeTuition:   "tuition",
	FeeHostel:    "hostel",
	FeeTransport: "transport",
}

// Valid reports whether c is one of tuition, hostel or transport.
func (c FeeCategory) Valid() bool {
	return c >= 0 && int(c) < len(feeCategoryNames)
}

func (c FeeCategory) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return feeCategoryNames[c]
}
