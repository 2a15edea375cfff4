package attendance

import (
	"encoding/json"
	"time"

	constants "github.com/schoolattendance/backend/internal/constants"
)

// Record is a stored attendance row. (SchoolID, Section, Date) is unique.
type Record struct {
	ID           string    `json:"id" db:"id"`
	SchoolID     string    `json:"school_id" db:"school_id"`
	Section      Section   `json:"section" db:"section"`
	Date         time.Time `json:"date" db:"date"`
	BoysPresent  int       `json:"boys_present" db:"boys_present"`
	GirlsPresent int       `json:"girls_present" db:"girls_present"`
	TeacherID    *string   `json:"teacher_id" db:"teacher_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (r Record) Total() int {
	return r.BoysPresent + r.GirlsPresent
}

func (r Record) Key() Key {
	return Key{SchoolID: r.SchoolID, Section: r.Section, Date: r.Date}
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(newRecordJSON(r, nil))
}

// Key is the natural key of an attendance record.
type Key struct {
	SchoolID string
	Section  Section
	Date     time.Time
}

// RecordView is a record enriched with its school name for display.
type RecordView struct {
	Record
	SchoolName string `json:"school_name"`
}

func (v RecordView) MarshalJSON() ([]byte, error) {
	return json.Marshal(newRecordJSON(v.Record, &v.SchoolName))
}

type recordJSON struct {
	ID           string  `json:"id"`
	SchoolID     string  `json:"school_id"`
	SchoolName   *string `json:"school_name,omitempty"`
	Section      Section `json:"section"`
	Date         string  `json:"date"`
	BoysPresent  int     `json:"boys_present"`
	GirlsPresent int     `json:"girls_present"`
	Total        int     `json:"total"`
	TeacherID    *string `json:"teacher_id"`
	CreatedAt    string  `json:"created_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}

func newRecordJSON(r Record, schoolName *string) recordJSON {
	out := recordJSON{
		ID:           r.ID,
		SchoolID:     r.SchoolID,
		SchoolName:   schoolName,
		Section:      r.Section,
		Date:         FormatDate(r.Date),
		BoysPresent:  r.BoysPresent,
		GirlsPresent: r.GirlsPresent,
		Total:        r.Total(),
		TeacherID:    r.TeacherID,
	}
	if !r.CreatedAt.IsZero() {
		out.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		out.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// ParseDate parses a YYYY-MM-DD date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(constants.DATE_LAYOUT, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func FormatDate(t time.Time) string {
	return t.Format(constants.DATE_LAYOUT)
}

// NormalizeDate drops the clock and location, keeping the calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
