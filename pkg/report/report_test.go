package report

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/schoolattendance/backend/models/attendance"
	"github.com/schoolattendance/backend/models/report"
)

func rec(section attendance.Section, date string, boys, girls int) attendance.Record {
	d, err := attendance.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return attendance.Record{SchoolID: "S1", Section: section, Date: d, BoysPresent: boys, GirlsPresent: girls}
}

func TestSectionAndGenderTotals(t *testing.T) {
	recs := []attendance.Record{
		rec(attendance.Section1A, "2024-03-01", 10, 8),
		rec(attendance.Section1A, "2024-03-02", 5, 5),
		rec(attendance.Section2, "2024-03-01", 20, 15),
	}

	want := []report.SectionTotal{
		{Section: attendance.Section1A, BoysPresent: 15, GirlsPresent: 13, Total: 28},
		{Section: attendance.Section2, BoysPresent: 20, GirlsPresent: 15, Total: 35},
	}
	if got := SectionTotals(recs); !reflect.DeepEqual(got, want) {
		t.Errorf("SectionTotals = %+v, want %+v", got, want)
	}

	g := GenderTotals(recs)
	if g.Boys != 35 || g.Girls != 28 || g.Total != 63 {
		t.Errorf("GenderTotals = %+v, want boys=35 girls=28", g)
	}
}

func TestDateTrendIsChronological(t *testing.T) {
	recs := []attendance.Record{
		rec(attendance.Section1A, "2024-03-10", 1, 1),
		rec(attendance.Section2, "2024-02-28", 2, 2),
		rec(attendance.Section3, "2024-03-10", 3, 3),
	}
	got := DateTrend(recs)
	if len(got) != 2 {
		t.Fatalf("DateTrend returned %d points, want 2", len(got))
	}
	if attendance.FormatDate(got[0].Date) != "2024-02-28" || got[0].Total != 4 {
		t.Errorf("first point = %+v", got[0])
	}
	if attendance.FormatDate(got[1].Date) != "2024-03-10" || got[1].Total != 8 {
		t.Errorf("second point = %+v", got[1])
	}
}

func TestSummaryIgnoresInputOrder(t *testing.T) {
	recs := []attendance.Record{
		rec(attendance.Section1A, "2024-03-01", 10, 8),
		rec(attendance.Section1B, "2024-03-01", 4, 6),
		rec(attendance.Section5, "2024-03-03", 7, 7),
		rec(attendance.Section2, "2024-03-02", 20, 15),
		rec(attendance.Section1A, "2024-03-02", 5, 5),
	}
	want := Summarize(recs)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < 20; i++ {
		shuffled := append([]attendance.Record(nil), recs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := Summarize(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("Summarize differs after shuffle:\n got %+v\nwant %+v", got, want)
		}
	}
	if again := Summarize(recs); !reflect.DeepEqual(again, want) {
		t.Error("Summarize is not idempotent")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.RecordCount != 0 || len(s.Sections) != 0 || len(s.Trend) != 0 {
		t.Errorf("Summarize(nil) = %+v", s)
	}
	if s.Sections == nil || s.Trend == nil {
		t.Error("empty groups should be empty slices")
	}
	if s.Gender != (report.GenderTotals{}) {
		t.Errorf("Gender = %+v, want zero", s.Gender)
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []attendance.RecordView{
		{Record: rec(attendance.Section1A, "2024-03-01", 10, 8), SchoolName: "North, Primary"},
		{Record: rec(attendance.Section2, "2024-03-01", 0, 3), SchoolName: "Unknown"},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}

	lines, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"Date", "School", "Section", "Boys Present", "Girls Present", "Total"},
		{"2024-03-01", "North, Primary", "1A", "10", "8", "18"},
		{"2024-03-01", "Unknown", "2", "0", "3", "3"},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("csv = %v, want %v", lines, want)
	}
}

func TestCSVFilename(t *testing.T) {
	from, _ := attendance.ParseDate("2024-03-01")
	if got := CSVFilename(attendance.Filter{}); got != "attendance-report-all-all.csv" {
		t.Errorf("unbounded = %q", got)
	}
	if got := CSVFilename(attendance.Filter{DateFrom: &from}); got != "attendance-report-2024-03-01-all.csv" {
		t.Errorf("from only = %q", got)
	}
}
