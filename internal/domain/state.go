package domain

// AppState is the complete set of records for one running instance. Both
// collections are always non-nil and keep insertion order.
type AppState struct {
	Tasks  []*Task
	Habits []*Habit
}

// NewAppState returns the empty default state.
func NewAppState() *AppState {
	return &AppState{
		Tasks:  []*Task{},
		Habits: []*Habit{},
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s *AppState) Clone() *AppState {
	c := &AppState{
		Tasks:  make([]*Task, len(s.Tasks)),
		Habits: make([]*Habit, len(s.Habits)),
	}
	for i, t := range s.Tasks {
		c.Tasks[i] = t.Clone()
	}
	for i, h := range s.Habits {
		c.Habits[i] = h.Clone()
	}
	return c
}

// Task returns the task with the given id, or nil.
func (s *AppState) Task(id string) *Task {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Habit returns the habit with the given id, or nil.
func (s *AppState) Habit(id string) *Habit {
	for _, h := range s.Habits {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// RemoveTask deletes the task with the given id and reports whether it existed.
func (s *AppState) RemoveTask(id string) bool {
	for i, t := range s.Tasks {
		if t.ID == id {
			s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveHabit deletes the habit with the given id and reports whether it existed.
func (s *AppState) RemoveHabit(id string) bool {
	for i, h := range s.Habits {
		if h.ID == id {
			s.Habits = append(s.Habits[:i], s.Habits[i+1:]...)
			return true
		}
	}
	return false
}

// DailyProgress summarises habit completion for one calendar date.
type DailyProgress struct {
	Date  string
	Done  int
	Total int
}

// Ratio returns Done/Total, or 0 when there are no habits.
func (p DailyProgress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

// ProgressOn reports how many habits were completed on date.
func (s *AppState) ProgressOn(date string) DailyProgress {
	p := DailyProgress{Date: date, Total: len(s.Habits)}
	for _, h := range s.Habits {
		if h.IsCompletedOn(date) {
			p.Done++
		}
	}
	return p
}

// PendingHabitsOn returns the habits not yet completed on date.
func (s *AppState) PendingHabitsOn(date string) []*Habit {
	var pending []*Habit
	for _, h := range s.Habits {
		if !h.IsCompletedOn(date) {
			pending = append(pending, h)
		}
	}
	return pending
}

// OpenTasks counts tasks that are not done.
func (s *AppState) OpenTasks() int {
	n := 0
	for _, t := range s.Tasks {
		if !t.Done {
			n++
		}
	}
	return n
}
