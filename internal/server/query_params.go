package server

import (
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
)

// pageFromQuery normalizes the raw page/limit parameters. Malformed values
// fall back to defaults rather than erroring; limit is clamped, not rejected.
func pageFromQuery(c *gin.Context) pagination.Pagination {
	return pagination.Parse(c.Query("page"), c.Query("limit"))
}
