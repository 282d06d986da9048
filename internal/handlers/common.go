package handlers

import (
	"strconv"

	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// paramID parses the named path parameter as a positive id. On failure it
// writes a validation error and returns false.
func paramID(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+what+" id")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body into dst and checks its binding tags,
// writing a validation error on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Fail(c, response.BindError(err))
		return false
	}
	return true
}

// bindQuery is bindJSON for query strings.
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Fail(c, response.BindError(err))
		return false
	}
	return true
}
