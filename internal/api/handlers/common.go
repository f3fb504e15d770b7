package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medvoice/notetaker/internal/utils"
)

func writeError(c *gin.Context, err error) {
	c.JSON(utils.HTTPStatus(err), gin.H{"detail": utils.Detail(err)})
}

// boolFlag reads a boolean request flag, query parameters first with the
// form body as fallback. Query wins when both are present. Unparseable
// values count as false.
func boolFlag(c *gin.Context, name string) bool {
	v, ok := c.GetQuery(name)
	if !ok {
		v, ok = c.GetPostForm(name)
	}
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return false
	}
	return b
}
