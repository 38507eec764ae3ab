package selection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleScenario(t *testing.T) {
	s := New()
	assert.Equal(t, StateEmpty, s.State())

	s.Toggle("a")
	assert.Equal(t, []string{"a"}, s.IDs())
	assert.Equal(t, StateNonEmpty, s.State())

	s.Toggle("b")
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	s.Toggle("a")
	assert.Equal(t, []string{"b"}, s.IDs())
	assert.False(t, s.IsSelected("a"))
	assert.True(t, s.IsSelected("b"))

	s.Clear()
	assert.Empty(t, s.IDs())
	assert.Equal(t, StateEmpty, s.State())
	assert.False(t, s.CanExport())
}

func TestToggleParity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d"}

	for round := 0; round < 200; round++ {
		s := New()
		initial := map[string]bool{}
		for _, id := range ids {
			if rng.Intn(2) == 0 {
				s.Toggle(id)
				initial[id] = true
			}
		}

		counts := map[string]int{}
		n := rng.Intn(30)
		for i := 0; i < n; i++ {
			id := ids[rng.Intn(len(ids))]
			s.Toggle(id)
			counts[id]++
		}

		for _, id := range ids {
			want := initial[id] != (counts[id]%2 == 1)
			if s.IsSelected(id) != want {
				t.Fatalf("round %d: IsSelected(%q) = %v, want %v", round, id, s.IsSelected(id), want)
			}
		}
		assert.Equal(t, s.Len(), len(s.IDs()))
	}
}

func TestMembershipIsUnique(t *testing.T) {
	s := New()
	s.Toggle("a")
	s.Toggle("b")
	s.Toggle("a")
	s.Toggle("a")

	assert.Equal(t, []string{"b", "a"}, s.IDs())
	assert.Equal(t, 2, s.Len())
}

func TestClearFromAnyState(t *testing.T) {
	var s Set
	s.Clear()
	assert.False(t, s.IsSelected("x"))

	for _, id := range []string{"x", "y", "z"} {
		s.Toggle(id)
	}
	s.Clear()
	for _, id := range []string{"x", "y", "z"} {
		assert.False(t, s.IsSelected(id))
	}

	s.Toggle("x")
	assert.True(t, s.IsSelected("x"), "set must stay usable after Clear")
}

func TestStateTransitions(t *testing.T) {
	s := New()
	assert.False(t, s.CanExport())

	s.Toggle("a")
	assert.True(t, s.CanExport(), "first toggle-in moves to non-empty")

	s.Toggle("b")
	s.Toggle("b")
	assert.Equal(t, StateNonEmpty, s.State(), "other toggles keep non-empty")

	s.Toggle("a")
	assert.Equal(t, StateEmpty, s.State(), "last toggle-out moves to empty")
}

func TestIDsReturnsCopy(t *testing.T) {
	s := New()
	s.Toggle("a")
	ids := s.IDs()
	ids[0] = "mutated"
	assert.True(t, s.IsSelected("a"))
}

func TestRetain(t *testing.T) {
	s := New()
	for _, id := range []string{"a", "b", "c"} {
		s.Toggle(id)
	}

	present := map[string]bool{"a": true, "c": true}
	s.Retain(func(id string) bool { return present[id] })

	assert.Equal(t, []string{"a", "c"}, s.IDs())
	assert.False(t, s.IsSelected("b"))

	s.Toggle("a")
	assert.Equal(t, []string{"c"}, s.IDs())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "non-empty", StateNonEmpty.String())
}
