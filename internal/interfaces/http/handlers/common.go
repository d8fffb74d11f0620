// Package handlers contains the gin HTTP handlers of the engine's REST API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// parsePagination reads page and page_size query parameters, clamping to the
// limits enforced by common.Pagination.
func parsePagination(c *gin.Context) common.Pagination {
	pg := common.Pagination{Page: 1, PageSize: 20}
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			pg.Page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pg.PageSize = ps
		}
	}
	return pg
}

// parseBoolQuery reads a boolean query parameter, returning def when the
// parameter is absent or unparsable.
func parseBoolQuery(c *gin.Context, name string, def bool) bool {
	v := c.Query(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// respondOK writes a successful envelope.
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, common.OK(data))
}

// respondError maps an application error onto its HTTP status and writes a
// failure envelope. Internal codes are masked with their default message so
// infrastructure details never leak to clients.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = errors.DefaultMessageForCode(code)
	}
	c.AbortWithStatusJSON(status, common.Fail[interface{}](string(code), message))
}
