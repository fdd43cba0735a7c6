// Package pagination reads page/limit query parameters for the listing
// endpoints (items, parties, orders, challans, invoices, returns, stock,
// audit). Catalog and audit listings are the largest consumers, so the
// limit is capped at 200 rows per page.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 200
)

// Params is the sanitized result of Parse. Offset is precomputed for
// repositories that page with LIMIT/OFFSET.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse reads page and limit from the request query. Missing, malformed
// or out-of-range values fall back to the defaults rather than erroring.
func Parse(c *gin.Context) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
