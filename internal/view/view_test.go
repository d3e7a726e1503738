package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda/internal/task"
)

// A fixed reference point keeps the calendar math deterministic.
var now = time.Date(2026, 8, 29, 13, 30, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func TestDayPredicates(t *testing.T) {
	tests := []struct {
		name     string
		due      time.Time
		today    bool
		upcoming bool
		overdue  bool
	}{
		{
			name:  "today early morning",
			due:   time.Date(2026, 8, 29, 0, 1, 0, 0, time.UTC),
			today: true,
		},
		{
			name:  "today late evening",
			due:   time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC),
			today: true,
		},
		{
			name:     "tomorrow",
			due:      time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC),
			upcoming: true,
		},
		{
			name:    "yesterday",
			due:     time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC),
			overdue: true,
		},
		{
			name:     "far future",
			due:      time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			upcoming: true,
		},
		{
			name:    "far past",
			due:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			overdue: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsToday(tt.due, now); got != tt.today {
				t.Errorf("IsToday = %v, expected %v", got, tt.today)
			}
			if got := IsUpcoming(tt.due, now); got != tt.upcoming {
				t.Errorf("IsUpcoming = %v, expected %v", got, tt.upcoming)
			}
			if got := IsOverdue(tt.due, now); got != tt.overdue {
				t.Errorf("IsOverdue = %v, expected %v", got, tt.overdue)
			}
		})
	}
}

func TestCategorizeIsAPartitionByCalendarDay(t *testing.T) {
	tasks := []task.Task{
		{ID: "t1", Title: "yesterday", DueDate: at(now.AddDate(0, 0, -1))},
		{ID: "t2", Title: "today", DueDate: at(now)},
		{ID: "t3", Title: "tomorrow", DueDate: at(now.AddDate(0, 0, 1))},
		{ID: "t4", Title: "undated"},
	}

	b := Categorize(tasks, now)

	require.Len(t, b.Overdue, 1)
	require.Len(t, b.Today, 1)
	require.Len(t, b.Upcoming, 1)
	assert.Equal(t, "t1", b.Overdue[0].ID)
	assert.Equal(t, "t2", b.Today[0].ID)
	assert.Equal(t, "t3", b.Upcoming[0].ID)
}

func TestBucketsSortedAscendingByDueDate(t *testing.T) {
	d1 := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)

	// Inserted out of order on purpose.
	tasks := []task.Task{
		{ID: "t3", DueDate: &d3},
		{ID: "t1", DueDate: &d1},
		{ID: "t2", DueDate: &d2},
	}

	b := Categorize(tasks, now)

	require.Len(t, b.Upcoming, 3)
	assert.Equal(t, "t1", b.Upcoming[0].ID)
	assert.Equal(t, "t2", b.Upcoming[1].ID)
	assert.Equal(t, "t3", b.Upcoming[2].ID)
}

func TestTwoTasksTomorrowOrderedByTime(t *testing.T) {
	nine := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	eight := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{ID: "nine", DueDate: &nine},
		{ID: "eight", DueDate: &eight},
	}

	b := Categorize(tasks, now)

	require.Len(t, b.Upcoming, 2)
	assert.Equal(t, "eight", b.Upcoming[0].ID)
	assert.Equal(t, "nine", b.Upcoming[1].ID)
}

func TestLessTreatsMissingDueAsMaximal(t *testing.T) {
	due := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	dated := task.Task{ID: "dated", DueDate: &due}
	undated := task.Task{ID: "undated"}

	assert.True(t, Less(dated, undated))
	assert.False(t, Less(undated, dated))
	assert.False(t, Less(undated, undated))
}

func TestSectionsOmitEmptyBuckets(t *testing.T) {
	tasks := []task.Task{
		{ID: "t1", DueDate: at(now)},
	}

	secs := Categorize(tasks, now).Sections()

	require.Len(t, secs, 1)
	assert.Equal(t, "Today", secs[0].Title)
}

func TestNoSectionsForEmptyCollection(t *testing.T) {
	assert.Empty(t, Categorize(nil, now).Sections())
}

func TestTodayTaskStaysInTodayWhenCompleted(t *testing.T) {
	tasks := []task.Task{
		{ID: "t1", DueDate: at(now), IsCompleted: true},
	}

	b := Categorize(tasks, now)

	require.Len(t, b.Today, 1)
	assert.True(t, b.Today[0].IsCompleted)
}

func TestUndatedKeepsInsertionOrder(t *testing.T) {
	tasks := []task.Task{
		{ID: "u1"},
		{ID: "d1", DueDate: at(now)},
		{ID: "u2"},
	}

	undated := Undated(tasks)

	require.Len(t, undated, 2)
	assert.Equal(t, "u1", undated[0].ID)
	assert.Equal(t, "u2", undated[1].ID)
}
