package services

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/streak-cli/internal/domain"
)

// ResolveTask finds the task a user reference points at. A reference is a
// full id, a unique id prefix, a task text (case-insensitive) or a fragment
// that fuzzy-matches exactly one task text.
func (s *RecordStore) ResolveTask(ref string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.state.Tasks))
	labels := make([]string, len(s.state.Tasks))
	for i, t := range s.state.Tasks {
		ids[i] = t.ID
		labels[i] = t.Text
	}

	i, err := resolveRef(ref, ids, labels, domain.ErrTaskNotFound)
	if err != nil {
		return nil, err
	}
	return s.state.Tasks[i].Clone(), nil
}

// ResolveHabit finds the habit a user reference points at, like ResolveTask.
func (s *RecordStore) ResolveHabit(ref string) (*domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.state.Habits))
	labels := make([]string, len(s.state.Habits))
	for i, h := range s.state.Habits {
		ids[i] = h.ID
		labels[i] = h.Name
	}

	i, err := resolveRef(ref, ids, labels, domain.ErrHabitNotFound)
	if err != nil {
		return nil, err
	}
	return s.state.Habits[i].Clone(), nil
}

// resolveRef returns the index of the single record ref identifies, trying
// the most precise rule first.
func resolveRef(ref string, ids, labels []string, notFound error) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, notFound
	}

	for i, id := range ids {
		if id == ref {
			return i, nil
		}
	}

	if i, err := single(ids, func(id string) bool { return strings.HasPrefix(id, ref) }); i >= 0 || err != nil {
		return i, err
	}

	if i, err := single(labels, func(l string) bool { return strings.EqualFold(l, ref) }); i >= 0 || err != nil {
		return i, err
	}

	var hits []int
	for _, m := range fuzzy.Find(ref, labels) {
		if m.Score > 0 {
			hits = append(hits, m.Index)
		}
	}
	switch len(hits) {
	case 0:
		return -1, notFound
	case 1:
		return hits[0], nil
	default:
		return -1, domain.ErrAmbiguousRef
	}
}

// single returns the index of the only element matching pred, -1 when none
// does, and ErrAmbiguousRef when several do.
func single(values []string, pred func(string) bool) (int, error) {
	found := -1
	for i, v := range values {
		if !pred(v) {
			continue
		}
		if found >= 0 {
			return -1, domain.ErrAmbiguousRef
		}
		found = i
	}
	return found, nil
}
