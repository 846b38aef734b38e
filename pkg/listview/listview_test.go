package listview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type kv struct {
	key, value string
}

type recordingStore struct {
	filters []kv
	calls   int
}

func (s *recordingStore) SetFilters(filters []kv) {
	s.filters = filters
	s.calls++
}

func TestApplyFilters(t *testing.T) {
	source := []string{"alpha", "beta", "alphabet", "gamma"}
	contains := func(item string, f kv) bool { return strings.Contains(item, f.value) }

	t.Run("all filters must match", func(t *testing.T) {
		store := &recordingStore{}
		filters := []kv{{"name", "alpha"}, {"name", "bet"}}
		got := ApplyFilters(filters, source, store, contains)
		require.Equal(t, []string{"alphabet"}, got)
		require.Equal(t, filters, store.filters)
		require.Equal(t, 1, store.calls)
	})

	t.Run("no filters returns source", func(t *testing.T) {
		store := &recordingStore{}
		got := ApplyFilters(nil, source, store, contains)
		require.Equal(t, source, got)
		require.Equal(t, 1, store.calls)
	})

	t.Run("nil store is allowed", func(t *testing.T) {
		got := ApplyFilters([]kv{{"name", "mm"}}, source, nil, contains)
		require.Equal(t, []string{"gamma"}, got)
	})
}

func TestFieldConstructors(t *testing.T) {
	f := CreateFilterField("name", "Name", "Filter by Name", FilterText)
	require.Equal(t, FilterField{ID: "name", Title: "Name", Placeholder: "Filter by Name", FilterType: FilterText}, f)

	s := CreateSortField("id", "Order ID", SortNumeric)
	require.Equal(t, SortField{ID: "id", Title: "Order ID", SortType: SortNumeric}, s)
}
