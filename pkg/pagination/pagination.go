package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any query can request.
	MaxLimit = 100
)

// Page holds normalized limit/offset inputs for list queries.
type Page struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeOffset clamps negative offsets to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// Normalize builds a Page with both bounds applied.
func Normalize(limit, offset int) Page {
	return Page{
		Limit:  NormalizeLimit(limit),
		Offset: NormalizeOffset(offset),
	}
}
