package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryGroup is a display bucket of records posted in the same calendar month.
// Groups are derived on demand and never persisted.
type HistoryGroup struct {
	ID       uuid.UUID            `json:"id"`
	MonthKey time.Time            `json:"month_key"`
	Records  []NotificationRecord `json:"records"`
}

func newHistoryGroup(first NotificationRecord) HistoryGroup {
	return HistoryGroup{
		ID:       uuid.New(),
		MonthKey: first.Posted,
		Records:  []NotificationRecord{first},
	}
}

// Label renders the group's month in local time, e.g. "February 2024".
func (g HistoryGroup) Label() string {
	return g.MonthKey.Local().Format("January 2006")
}

func sameMonth(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	return a.Month() == b.Month() && a.Year() == b.Year()
}

// GroupByMonth splits records into runs of consecutive records sharing a
// (month, year) in local time. The input is not sorted first, so a month that
// appears in two separate runs yields two groups.
func GroupByMonth(records []NotificationRecord) []HistoryGroup {
	var groups []HistoryGroup
	for _, r := range records {
		if n := len(groups); n > 0 && sameMonth(groups[n-1].MonthKey, r.Posted) {
			groups[n-1].Records = append(groups[n-1].Records, r)
			continue
		}
		groups = append(groups, newHistoryGroup(r))
	}
	return groups
}
