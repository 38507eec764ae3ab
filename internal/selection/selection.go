// Package selection tracks which media items the user has marked for export.
package selection

type State int

const (
	StateEmpty State = iota
	StateNonEmpty
)

func (s State) String() string {
	if s == StateNonEmpty {
		return "non-empty"
	}
	return "empty"
}

// Set is an insertion-ordered set of media item IDs. The zero value is ready to use.
// It is owned by a single goroutine and does no locking.
type Set struct {
	ids   []string
	index map[string]int
}

func New() *Set {
	return &Set{}
}

// Toggle flips membership of id. Toggling the same id twice restores the prior state.
func (s *Set) Toggle(id string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}

	if i, ok := s.index[id]; ok {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		delete(s.index, id)
		for j := i; j < len(s.ids); j++ {
			s.index[s.ids[j]] = j
		}
		return
	}

	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
}

func (s *Set) IsSelected(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Set) Clear() {
	s.ids = nil
	s.index = nil
}

func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the selected IDs in the order they were selected.
func (s *Set) IDs() []string {
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	return ids
}

func (s *Set) State() State {
	if len(s.ids) == 0 {
		return StateEmpty
	}
	return StateNonEmpty
}

// CanExport reports whether the export action is enabled right now.
func (s *Set) CanExport() bool {
	return s.State() == StateNonEmpty
}

// Retain drops every selected id for which keep returns false.
func (s *Set) Retain(keep func(id string) bool) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if keep(id) {
			kept = append(kept, id)
		}
	}
	s.ids = kept
	s.index = make(map[string]int, len(kept))
	for i, id := range kept {
		s.index[id] = i
	}
}
