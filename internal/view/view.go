// Package view derives the displayed sections from the live task
// collection. Pure functions over a snapshot and a reference time;
// nothing here is cached.
package view

import (
	"sort"
	"time"

	"agenda/internal/task"
)

// Buckets partitions dated tasks by calendar day relative to now.
// Undated tasks match no bucket.
type Buckets struct {
	Today    []task.Task
	Upcoming []task.Task
	Overdue  []task.Task
}

// Section is one non-empty labeled group in display order.
type Section struct {
	Title string
	Tasks []task.Task
}

func dayOf(t, now time.Time) time.Time {
	t = t.In(now.Location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
}

// IsToday reports whether due falls on the current calendar day.
func IsToday(due, now time.Time) bool {
	return dayOf(due, now).Equal(dayOf(now, now))
}

// IsUpcoming reports whether due's calendar day is strictly after today's.
func IsUpcoming(due, now time.Time) bool {
	return dayOf(due, now).After(dayOf(now, now))
}

// IsOverdue reports whether due's calendar day is strictly before today's.
func IsOverdue(due, now time.Time) bool {
	return dayOf(due, now).Before(dayOf(now, now))
}

// Less is the generic task comparator: ascending by due date, with an
// absent due date sorting after every present one.
func Less(a, b task.Task) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}

// Categorize splits the collection into the three buckets and sorts
// each ascending by due date. Ties keep insertion order.
func Categorize(tasks []task.Task, now time.Time) Buckets {
	var b Buckets
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		switch {
		case IsToday(*t.DueDate, now):
			b.Today = append(b.Today, t)
		case IsUpcoming(*t.DueDate, now):
			b.Upcoming = append(b.Upcoming, t)
		default:
			b.Overdue = append(b.Overdue, t)
		}
	}
	sortByDue(b.Today)
	sortByDue(b.Upcoming)
	sortByDue(b.Overdue)
	return b
}

func sortByDue(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

// Sections returns the non-empty buckets in display order. Empty
// buckets are omitted so no empty header is ever rendered.
func (b Buckets) Sections() []Section {
	var out []Section
	if len(b.Today) > 0 {
		out = append(out, Section{Title: "Today", Tasks: b.Today})
	}
	if len(b.Upcoming) > 0 {
		out = append(out, Section{Title: "Upcoming", Tasks: b.Upcoming})
	}
	if len(b.Overdue) > 0 {
		out = append(out, Section{Title: "Overdue", Tasks: b.Overdue})
	}
	return out
}

// Undated returns the tasks with no due date in insertion order. They
// appear in none of the three sections; the UI shows them in a
// trailing group so they stay reachable.
func Undated(tasks []task.Task) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if t.DueDate == nil {
			out = append(out, t)
		}
	}
	return out
}
