package validate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size used when the request does not name one.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// Page describes the requested slice of a listing.
type Page struct {
	Page   int
	Limit  int
	Offset int
}

// PageParams parses page (1-based) and limit from q.
func PageParams(q url.Values) (Page, error) {
	p := Page{Page: 1, Limit: DefaultLimit}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("page must be a positive integer")
		}
		p.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return p, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
		}
		p.Limit = n
	}
	p.Offset = (p.Page - 1) * p.Limit
	return p, nil
}

// SortOrder reports whether sort_order asks for descending order.
// An absent value yields def.
func SortOrder(q url.Values, def bool) (bool, error) {
	switch strings.ToLower(q.Get("sort_order")) {
	case "":
		return def, nil
	case "asc":
		return false, nil
	case "desc":
		return true, nil
	default:
		return def, fmt.Errorf("sort_order must be asc or desc")
	}
}

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
