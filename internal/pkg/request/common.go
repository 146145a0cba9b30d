package request

import "strconv"

// ParseID parses a numeric upstream id from a path parameter. Returns 0 and
// false for anything that is not a positive integer.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseBound parses an image bounding-box dimension with a default and an
// upper cap, tolerating absent or malformed query values.
func ParseBound(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
