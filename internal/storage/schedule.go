package storage

import (
	"sort"
	"time"
)

// DateLayout — формат ключа дня в плане.
const DateLayout = "2006-01-02"

type AllocationEntry struct {
	Product   string `json:"product"`
	Allocated int    `json:"allocated"`
	Capacity  int    `json:"capacity"`
}

func (e AllocationEntry) Full() bool {
	return e.Allocated >= e.Capacity
}

// SchedulePlan: дата (YYYY-MM-DD) -> по одной записи на каждое известное изделие.
type SchedulePlan map[string][]AllocationEntry

type ScheduleDay struct {
	Date    string            `json:"date"`
	Entries []AllocationEntry `json:"entries"`
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Dates returns plan keys in chronological order.
func (p SchedulePlan) Dates() []string {
	dates := make([]string, 0, len(p))
	for d := range p {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (p SchedulePlan) Day(date string) []AllocationEntry {
	return p[date]
}

// Window returns the first n days of the plan; n <= 0 means all of them.
func (p SchedulePlan) Window(n int) []ScheduleDay {
	dates := p.Dates()
	if n > 0 && len(dates) > n {
		dates = dates[:n]
	}

	days := make([]ScheduleDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, ScheduleDay{Date: d, Entries: p[d]})
	}
	return days
}

func (p SchedulePlan) Clone() SchedulePlan {
	out := make(SchedulePlan, len(p))
	for d, entries := range p {
		out[d] = append([]AllocationEntry(nil), entries...)
	}
	return out
}
