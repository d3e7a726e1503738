package task

import "time"

// Saver persists a snapshot of the whole collection. Failures are the
// store's problem; the repository never hears about them.
type Saver interface {
	Save(tasks []Task)
}

// Reminder registers a one-shot reminder for a dated task.
type Reminder interface {
	Schedule(t Task)
}

// Repository owns the authoritative in-memory collection. Every
// successful mutation saves the full collection synchronously, then
// notifies subscribers. All calls happen on the UI event loop; there is
// no locking here.
type Repository struct {
	tasks       []Task
	store       Saver
	reminders   Reminder
	subscribers []func([]Task)
}

func NewRepository(store Saver, reminders Reminder, initial []Task) *Repository {
	return &Repository{
		tasks:     initial,
		store:     store,
		reminders: reminders,
	}
}

// Tasks returns a copy of the collection in storage (insertion) order.
func (r *Repository) Tasks() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Subscribe registers a callback invoked synchronously after each
// successful mutation with the new collection snapshot.
func (r *Repository) Subscribe(fn func([]Task)) {
	r.subscribers = append(r.subscribers, fn)
}

func (r *Repository) commit() {
	r.store.Save(r.tasks)
	snapshot := r.Tasks()
	for _, fn := range r.subscribers {
		fn(snapshot)
	}
}

// Add appends a new task and returns it. An empty title is rejected as
// a silent no-op (the raw string is checked, no trimming). A reminder
// is scheduled only when a due date is present.
func (r *Repository) Add(title string, due *time.Time, group *string) *Task {
	if title == "" {
		return nil
	}
	t := New(title, due, group)
	r.tasks = append(r.tasks, t)
	if t.DueDate != nil {
		r.reminders.Schedule(t)
	}
	r.commit()
	return &t
}

// ToggleCompletion flips the completion flag of the matching task.
// Returns false when no task has that id.
func (r *Repository) ToggleCompletion(id string) bool {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].IsCompleted = !r.tasks[i].IsCompleted
			r.commit()
			return true
		}
	}
	return false
}

// Update replaces title and due date in place. The reminder is NOT
// re-armed for the new due date; that matches the shipped behavior and
// is flagged as an open product question in DESIGN.md.
func (r *Repository) Update(id, newTitle string, newDue *time.Time) bool {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Title = newTitle
			r.tasks[i].DueDate = newDue
			r.commit()
			return true
		}
	}
	return false
}

// Delete removes the matching task. Absent id is a no-op.
func (r *Repository) Delete(id string) bool {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			r.commit()
			return true
		}
	}
	return false
}

// DeleteMany removes every task whose id is in ids, in one pass over
// the collection. Callers resolve display positions to ids themselves;
// deleting by identity set avoids the index-shift bug of removing rows
// one position at a time.
func (r *Repository) DeleteMany(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}
	kept := r.tasks[:0]
	removed := 0
	for _, t := range r.tasks {
		if _, ok := doomed[t.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return 0
	}
	r.tasks = kept
	r.commit()
	return removed
}
