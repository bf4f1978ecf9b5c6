// Package pagination slices the filtered task list into fixed-size pages.
package pagination

const DefaultItemsPerPage = 3

type State struct {
	CurrentPage  int
	ItemsPerPage int
}

func NewState() *State {
	return &State{CurrentPage: 1, ItemsPerPage: DefaultItemsPerPage}
}

// TotalPages is never less than one, so an empty list still has a page.
func (s *State) TotalPages(count int) int {
	per := s.perPage()
	if count <= 0 {
		return 1
	}
	return (count + per - 1) / per
}

func (s *State) Reset() {
	s.CurrentPage = 1
}

// SetPage does not clamp; callers keep the page within [1, TotalPages].
func (s *State) SetPage(n int) {
	s.CurrentPage = n
}

// Clamp moves the current page into [1, TotalPages(count)] and reports the
// resulting page.
func (s *State) Clamp(count int) int {
	total := s.TotalPages(count)
	if s.CurrentPage > total {
		s.CurrentPage = total
	}
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
	return s.CurrentPage
}

func (s *State) perPage() int {
	if s.ItemsPerPage <= 0 {
		return DefaultItemsPerPage
	}
	return s.ItemsPerPage
}

// PageItems returns the slice of items shown on the current page. A page past
// the end yields an empty slice.
func PageItems[T any](s *State, items []T) []T {
	per := s.perPage()
	page := s.CurrentPage
	if page < 1 {
		page = 1
	}
	start := (page - 1) * per
	if start >= len(items) {
		return []T{}
	}
	end := start + per
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
