package query

// PageFilter carries offset/limit pagination for listing endpoints. The
// button dashboard pages by fixed-size windows, so the filter works directly
// in offset/limit terms rather than page numbers.
type PageFilter struct {
	Offset int
	Limit  int
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

func (f PageFilter) GetOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

func (f PageFilter) GetLimit() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	if f.Limit > MaxLimit {
		return MaxLimit
	}
	return f.Limit
}

type ListFilter struct {
	PageFilter

	// Archived selects the soft-deleted partition of the listing instead of
	// the active one.
	Archived bool
}
