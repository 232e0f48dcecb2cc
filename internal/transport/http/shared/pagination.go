package shared

import (
	"net/url"
	"strconv"
)

// Page is a limit/offset window read from query parameters.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit and offset, falling back to defaultLimit and
// capping the limit at maxLimit.
func ParsePage(q url.Values, defaultLimit, maxLimit int) Page {
	page := Page{Limit: defaultLimit}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		page.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v >= 0 {
		page.Offset = v
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

// Prev is the window before p, or false on the first page.
func (p Page) Prev() (Page, bool) {
	if p.Offset == 0 {
		return p, false
	}
	return Page{Limit: p.Limit, Offset: max(p.Offset-p.Limit, 0)}, true
}

// Next is the window after p, or false when shown reaches total.
func (p Page) Next(shown, total int) (Page, bool) {
	if p.Offset+shown >= total {
		return p, false
	}
	return Page{Limit: p.Limit, Offset: p.Offset + p.Limit}, true
}

// Query returns q with the window applied.
func (p Page) Query(q url.Values) url.Values {
	out := url.Values{}
	for key, values := range q {
		out[key] = append([]string(nil), values...)
	}
	out.Set("limit", strconv.Itoa(p.Limit))
	out.Set("offset", strconv.Itoa(p.Offset))
	return out
}
