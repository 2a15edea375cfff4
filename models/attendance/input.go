package attendance

import "time"

// Input is a single-section submission as received from a caller.
type Input struct {
	SchoolID     string  `json:"school_id" validate:"required"`
	Section      Section `json:"section" validate:"required,section"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	BoysPresent  Count   `json:"boys_present"`
	GirlsPresent Count   `json:"girls_present"`
	TeacherID    string  `json:"teacher_id,omitempty"`
}

// BatchInput submits several sections of one school for one date.
type BatchInput struct {
	SchoolID  string     `json:"school_id"`
	Date      string     `json:"date"`
	TeacherID string     `json:"teacher_id,omitempty"`
	Records   []BatchRow `json:"records"`
}

type BatchRow struct {
	Section      Section `json:"section"`
	BoysPresent  Count   `json:"boys_present"`
	GirlsPresent Count   `json:"girls_present"`
}

// Input expands row i of the batch into a standalone submission.
func (b BatchInput) Input(i int) Input {
	row := b.Records[i]
	return Input{
		SchoolID:     b.SchoolID,
		Section:      row.Section,
		Date:         b.Date,
		BoysPresent:  row.BoysPresent,
		GirlsPresent: row.GirlsPresent,
		TeacherID:    b.TeacherID,
	}
}

type BatchResult struct {
	Count   int      `json:"count"`
	Records []Record `json:"records"`
}

// Filter selects records for reporting. Zero fields do not filter.
// DateFrom and DateTo are inclusive.
type Filter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	SchoolID string
	Section  Section
}

// Matches reports whether r satisfies every set field of f.
func (f Filter) Matches(r Record) bool {
	if f.DateFrom != nil && r.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && r.Date.After(*f.DateTo) {
		return false
	}
	if f.SchoolID != "" && r.SchoolID != f.SchoolID {
		return false
	}
	if f.Section != "" && r.Section != f.Section {
		return false
	}
	return true
}
