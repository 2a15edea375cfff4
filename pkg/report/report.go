// Package report aggregates attendance records for the central office
// dashboard. Every function is pure and independent of input order.
package report

import (
	"sort"
	"time"

	"github.com/schoolattendance/backend/models/attendance"
	"github.com/schoolattendance/backend/models/report"
)

// SectionTotals sums records per section, ordered by section name.
func SectionTotals(recs []attendance.Record) []report.SectionTotal {
	bySection := make(map[attendance.Section]*report.SectionTotal)
	for _, r := range recs {
		st, ok := bySection[r.Section]
		if !ok {
			st = &report.SectionTotal{Section: r.Section}
			bySection[r.Section] = st
		}
		st.BoysPresent += r.BoysPresent
		st.GirlsPresent += r.GirlsPresent
	}

	out := make([]report.SectionTotal, 0, len(bySection))
	for _, st := range bySection {
		st.Total = st.BoysPresent + st.GirlsPresent
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Section < out[j].Section })
	return out
}

// DateTrend sums records per calendar day, oldest first.
func DateTrend(recs []attendance.Record) []report.DatePoint {
	byDate := make(map[time.Time]*report.DatePoint)
	for _, r := range recs {
		d := attendance.NormalizeDate(r.Date)
		p, ok := byDate[d]
		if !ok {
			p = &report.DatePoint{Date: d}
			byDate[d] = p
		}
		p.BoysPresent += r.BoysPresent
		p.GirlsPresent += r.GirlsPresent
	}

	out := make([]report.DatePoint, 0, len(byDate))
	for _, p := range byDate {
		p.Total = p.BoysPresent + p.GirlsPresent
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func GenderTotals(recs []attendance.Record) report.GenderTotals {
	var g report.GenderTotals
	for _, r := range recs {
		g.Boys += r.BoysPresent
		g.Girls += r.GirlsPresent
	}
	g.Total = g.Boys + g.Girls
	return g
}

func Summarize(recs []attendance.Record) report.Summary {
	return report.Summary{
		RecordCount: len(recs),
		Sections:    SectionTotals(recs),
		Trend:       DateTrend(recs),
		Gender:      GenderTotals(recs),
	}
}
