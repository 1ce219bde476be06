package query

import "strconv"

const MaxPageSize = 100

// Page is one window over a result list.
type Page struct {
	Number     int `json:"currentPage"`
	Size       int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ParsePage reads page and limit parameters. A missing or invalid limit
// means "everything on one page"; page defaults to 1.
func ParsePage(page, limit string) (int, int) {
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		p = 1
	}
	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 {
		l = 0
	}
	if l > MaxPageSize {
		l = MaxPageSize
	}
	return p, l
}

// Paginate slices the page out of items. A size of 0 returns all items.
func Paginate[T any](items []T, number, size int) ([]T, Page) {
	total := len(items)
	if size <= 0 {
		pages := 1
		if total == 0 {
			pages = 0
		}
		return items, Page{Number: 1, Size: total, Total: total, TotalPages: pages}
	}
	if number < 1 {
		number = 1
	}
	pg := Page{Number: number, Size: size, Total: total, TotalPages: (total + size - 1) / size}

	start := (number - 1) * size
	if start >= total {
		return items[:0], pg
	}
	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], pg
}
