package api

import (
	"net/http"
	"strconv"
)

const defaultLimit = 50
const maxLimit = 200

// ParseLimitOffset reads limit/offset query params. Default limit 50, max 200.
func ParseLimitOffset(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
			if limit > maxLimit {
				limit = maxLimit
			}
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
