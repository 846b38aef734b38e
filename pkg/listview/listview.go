package listview

// FilterType is the input widget used for a filter field.
type FilterType string

const (
	FilterText   FilterType = "text"
	FilterSelect FilterType = "select"
)

// SortType controls how a sort field is presented.
type SortType string

const (
	SortAlpha   SortType = "alpha"
	SortNumeric SortType = "numeric"
)

type FilterField struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Placeholder  string     `json:"placeholder"`
	FilterType   FilterType `json:"filterType"`
	FilterValues []string   `json:"filterValues,omitempty"`
}

type SortField struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	SortType SortType `json:"sortType"`
}

func CreateFilterField(id, title, placeholder string, filterType FilterType, values ...string) FilterField {
	return FilterField{
		ID:           id,
		Title:        title,
		Placeholder:  placeholder,
		FilterType:   filterType,
		FilterValues: values,
	}
}

func CreateSortField(id, title string, sortType SortType) SortField {
	return SortField{ID: id, Title: title, SortType: sortType}
}

// FilterStore persists the filters last applied to a list.
type FilterStore[F any] interface {
	SetFilters(filters []F)
}

// ApplyFilters records filters on state and returns the items of source that
// match every filter, in source order. With no filters the source is
// returned as is.
func ApplyFilters[T, F any](filters []F, source []T, state FilterStore[F], match func(T, F) bool) []T {
	if state != nil {
		state.SetFilters(filters)
	}
	if len(filters) == 0 {
		return source
	}

	items := make([]T, 0, len(source))
	for _, item := range source {
		if matchesAll(item, filters, match) {
			items = append(items, item)
		}
	}
	return items
}

func matchesAll[T, F any](item T, filters []F, match func(T, F) bool) bool {
	for _, f := range filters {
		if !match(item, f) {
			return false
		}
	}
	return true
}
