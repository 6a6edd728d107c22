package pagination

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 30
	// MaxPerPage caps how many records any list call can request.
	MaxPerPage = 200
)

// NormalizePage treats anything below 1 as the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizePerPage enforces the configured default and maximum page sizes.
func NormalizePerPage(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// Offset returns the number of records preceding the page.
func Offset(page, perPage int) int {
	return (NormalizePage(page) - 1) * NormalizePerPage(perPage)
}

func TotalPages(total, perPage int) int {
	perPage = NormalizePerPage(perPage)
	if total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
