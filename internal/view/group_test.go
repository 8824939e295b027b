package view

import (
	"testing"

	"diet-photo-diary/internal/diary"
)

func meal(id, takenAt string) diary.Meal {
	return diary.Meal{
		ID:       id,
		MealType: "lunch",
		TakenAt:  takenAt,
		User:     diary.User{Code: "A", Name: "Ben"},
	}
}

func TestGroupByDate(t *testing.T) {
	meals := []diary.Meal{
		meal("1", "2024-05-01T07:00:00Z"),
		meal("2", "2024-05-03T12:00:00Z"),
		meal("3", "2024-05-01T19:00:00Z"),
		meal("4", "2024-05-02T09:30:00Z"),
		meal("5", "2024-05-03T06:15:00Z"),
	}

	tl := GroupByDate(meals)

	t.Run("DistinctDates", func(t *testing.T) {
		if len(tl.Days) != 3 {
			t.Fatalf("Expected 3 day groups, got %d", len(tl.Days))
		}
	})

	t.Run("DescendingOrder", func(t *testing.T) {
		want := []string{"2024-05-03", "2024-05-02", "2024-05-01"}
		for i, day := range tl.Days {
			if day.Date != want[i] {
				t.Errorf("Expected day %d to be '%s', got '%s'", i, want[i], day.Date)
			}
		}
	})

	t.Run("Labels", func(t *testing.T) {
		if tl.Days[0].Label != "03.05.2024" {
			t.Errorf("Expected label '03.05.2024', got '%s'", tl.Days[0].Label)
		}
	})

	t.Run("EachMealOnce", func(t *testing.T) {
		seen := make(map[string]int)
		for _, day := range tl.Days {
			for _, m := range day.Meals {
				seen[m.ID]++
			}
		}
		if len(seen) != len(meals) {
			t.Errorf("Expected %d distinct meals across groups, got %d", len(meals), len(seen))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("Expected meal '%s' to appear once, got %d", id, n)
			}
		}
	})

	t.Run("InputOrderWithinDay", func(t *testing.T) {
		first := tl.Days[0].Meals
		if len(first) != 2 || first[0].ID != "2" || first[1].ID != "5" {
			t.Errorf("Expected meals [2 5] for 2024-05-03, got %v", []string{first[0].ID, first[1].ID})
		}
	})
}

func TestGroupByDateEmpty(t *testing.T) {
	tl := GroupByDate(nil)
	if !tl.Empty() {
		t.Error("Expected an empty timeline for no input")
	}
	if tl.Skipped != 0 {
		t.Errorf("Expected 0 skipped, got %d", tl.Skipped)
	}
}

func TestGroupByDateSkipsBadTimestamps(t *testing.T) {
	meals := []diary.Meal{
		meal("1", "2024-05-01T07:00:00Z"),
		meal("2", "not-a-timestamp"),
	}

	tl := GroupByDate(meals)
	if len(tl.Days) != 1 {
		t.Fatalf("Expected 1 day group, got %d", len(tl.Days))
	}
	if tl.Skipped != 1 {
		t.Errorf("Expected 1 skipped meal, got %d", tl.Skipped)
	}
}

func TestRows(t *testing.T) {
	cases := []struct {
		name  string
		count int
		want  []int
	}{
		{"Empty", 0, nil},
		{"PartialRow", 2, []int{2}},
		{"ExactRow", 3, []int{3}},
		{"Overflow", 7, []int{3, 3, 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := DayGroup{}
			for i := 0; i < tc.count; i++ {
				g.Meals = append(g.Meals, meal("m", "2024-05-01T07:00:00Z"))
			}

			rows := g.Rows()
			if len(rows) != len(tc.want) {
				t.Fatalf("Expected %d rows, got %d", len(tc.want), len(rows))
			}
			for i, row := range rows {
				if len(row) != tc.want[i] {
					t.Errorf("Expected row %d to have %d meals, got %d", i, tc.want[i], len(row))
				}
			}
		})
	}
}
