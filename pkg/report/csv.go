package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/schoolattendance/backend/models/attendance"
)

var csvHeader = []string{"Date", "School", "Section", "Boys Present", "Girls Present", "Total"}

// WriteCSV writes one line per record, in the order given.
func WriteCSV(w io.Writer, rows []attendance.RecordView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		line := []string{
			attendance.FormatDate(r.Date),
			r.SchoolName,
			string(r.Section),
			strconv.Itoa(r.BoysPresent),
			strconv.Itoa(r.GirlsPresent),
			strconv.Itoa(r.Total()),
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFilename names an export after its date range.
func CSVFilename(f attendance.Filter) string {
	from, to := "all", "all"
	if f.DateFrom != nil {
		from = attendance.FormatDate(*f.DateFrom)
	}
	if f.DateTo != nil {
		to = attendance.FormatDate(*f.DateTo)
	}
	return fmt.Sprintf("attendance-report-%s-%s.csv", from, to)
}
