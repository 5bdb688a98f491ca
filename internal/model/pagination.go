package model

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageMeta describes one page of a listing
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPageMeta builds pagination metadata; totalPages = ceil(total/limit).
func NewPageMeta(page, limit int, total int64) PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ClampPage replaces non-positive page/limit values with the defaults.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}
