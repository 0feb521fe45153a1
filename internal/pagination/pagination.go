package pagination

// Defaults and hard caps for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxPage      = 1 << 20
)

// Page holds normalized offset/limit values ready for a SQL query.
type Page struct {
	Offset int
	Limit  int
}

// Normalize validates raw page/limit query values. page must be in
// [1, MaxPage] so the computed offset cannot overflow; limit <= 0 falls
// back to the default and is capped at MaxLimit.
// Returns ok=false for an unusable page value; callers answer 400 with an
// empty list in that case.
func Normalize(page, limit int) (Page, bool) {
	if page < 1 || page > MaxPage {
		return Page{}, false
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Offset: (page - 1) * limit, Limit: limit}, true
}

// Sort returns the requested column if it is in the whitelist, otherwise
// the fallback. Prevents order-by injection from query strings.
func Sort(requested, fallback string, allowed ...string) string {
	for _, a := range allowed {
		if requested == a {
			return requested
		}
	}
	return fallback
}
