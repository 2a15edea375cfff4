package report

import (
	"encoding/json"
	"time"

	"github.com/schoolattendance/backend/models/attendance"
)

type SectionTotal struct {
	Section      attendance.Section `json:"section"`
	BoysPresent  int                `json:"boys_present"`
	GirlsPresent int                `json:"girls_present"`
	Total        int                `json:"total"`
}

type DatePoint struct {
	Date         time.Time `json:"date"`
	BoysPresent  int       `json:"boys_present"`
	GirlsPresent int       `json:"girls_present"`
	Total        int       `json:"total"`
}

func (p DatePoint) MarshalJSON() ([]byte, error) {
	type alias DatePoint
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias: alias(p), Date: attendance.FormatDate(p.Date)})
}

type GenderTotals struct {
	Boys  int `json:"boys"`
	Girls int `json:"girls"`
	Total int `json:"total"`
}

// Summary is the dashboard view over one set of records.
type Summary struct {
	RecordCount int            `json:"record_count"`
	Sections    []SectionTotal `json:"sections"`
	Trend       []DatePoint    `json:"trend"`
	Gender      GenderTotals   `json:"gender"`
}
