package repository

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// PageVerify clamps page and size in place instead of rejecting them.
// def and max fall back to DefaultPageSize and MaxPageSize when not positive.
func PageVerify(page, size *int, def, max int) {
	if def <= 0 {
		def = DefaultPageSize
	}
	if max <= 0 {
		max = MaxPageSize
	}
	if def > max {
		def = max
	}
	if *page < 1 {
		*page = 1
	}
	switch {
	case *size <= 0:
		*size = def
	case *size > max:
		*size = max
	}
}

// Offset of the first row of page.
func Offset(page, size int) int {
	return (page - 1) * size
}

// TotalPages is ceil(total/size).
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
