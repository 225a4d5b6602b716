package ds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_add_is_idempotent(t *testing.T) {
	s := NewSet[string]()
	s.Add("a")
	s.Add("a")
	s.Add("b")
	require.Equal(t, 2, s.Len())
	require.Equal(t, []string{"a", "b"}, s.Values())
}

func TestSet_remove_preserves_order(t *testing.T) {
	s := NewSet("a", "b", "c", "d")
	s.Remove("b")
	require.Equal(t, []string{"a", "c", "d"}, s.Values())
	s.Remove("missing")
	require.Equal(t, 3, s.Len())
}

func TestSet_contains(t *testing.T) {
	s := NewSet(1, 2, 3)
	require.True(t, s.Contains(2))
	require.False(t, s.Contains(4))
}

func TestSet_copy_is_independent(t *testing.T) {
	s := NewSet("x", "y")
	c := s.Copy()
	c.Add("z")
	require.Equal(t, 2, s.Len())
	require.Equal(t, 3, c.Len())
}

func TestSet_eq(t *testing.T) {
	require.True(t, NewSet("a", "b").Eq(NewSet("b", "a")))
	require.False(t, NewSet("a").Eq(NewSet("a", "b")))
	require.True(t, NewSet("a", "b").EqValues("a", "b"))
}

func TestSet_filter_and_merge(t *testing.T) {
	s := NewSet(1, 2, 3, 4)
	even := s.Filter(func(v int) bool { return v%2 == 0 })
	require.Equal(t, []int{2, 4}, even.Values())

	s.Merge(NewSet(4, 5))
	require.Equal(t, []int{1, 2, 3, 4, 5}, s.Values())
}

func TestSet_clear(t *testing.T) {
	s := NewSet("a", "b")
	s.Clear()
	require.True(t, s.IsEmpty())
	require.Empty(t, s.Values())
}
