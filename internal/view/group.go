// Package view turns flat meal lists into the day-grouped structure the
// templates render.
package view

import (
	"sort"

	"diet-photo-diary/internal/diary"
	"diet-photo-diary/internal/timefmt"
)

// gridColumns is the card grid width of the day view.
const gridColumns = 3

// DayGroup is all meals of one calendar day.
type DayGroup struct {
	Date  string // grouping key, YYYY-MM-DD
	Label string // display form, DD.MM.YYYY
	Meals []diary.Meal
}

// Rows chunks the day's meals into grid rows, filled left to right.
func (g DayGroup) Rows() [][]diary.Meal {
	var rows [][]diary.Meal
	for start := 0; start < len(g.Meals); start += gridColumns {
		end := start + gridColumns
		if end > len(g.Meals) {
			end = len(g.Meals)
		}
		rows = append(rows, g.Meals[start:end])
	}
	return rows
}

// Timeline is a grouped query result. A nil *Timeline means no query ran
// yet; an Empty timeline means the query returned nothing.
type Timeline struct {
	Days    []DayGroup
	Skipped int // meals dropped because their timestamp did not parse
}

// Empty reports whether the query matched no displayable meals.
func (t *Timeline) Empty() bool {
	return len(t.Days) == 0
}

// GroupByDate partitions meals by the calendar-date component of their
// timestamp. Days are ordered most recent first; within a day the input
// order is preserved. Meals with unparseable timestamps cannot be grouped
// and are counted in Skipped.
func GroupByDate(meals []diary.Meal) *Timeline {
	byDate := make(map[string][]diary.Meal)
	var keys []string
	skipped := 0

	for _, m := range meals {
		key, err := timefmt.DateKey(m.TakenAt)
		if err != nil {
			skipped++
			continue
		}
		if _, seen := byDate[key]; !seen {
			keys = append(keys, key)
		}
		byDate[key] = append(byDate[key], m)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	days := make([]DayGroup, 0, len(keys))
	for _, key := range keys {
		label, err := timefmt.FormatDate(key)
		if err != nil {
			label = key
		}
		days = append(days, DayGroup{Date: key, Label: label, Meals: byDate[key]})
	}

	return &Timeline{Days: days, Skipped: skipped}
}
