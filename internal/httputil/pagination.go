package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination bounds shared by every listing endpoint.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ParsePagination reads the offset and limit query parameters, applying the
// defaults and enforcing the bounds above.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = parseBoundedInt(c, "offset", 0, 0, -1)
	if err != nil {
		return 0, 0, err
	}

	limit, err = parseBoundedInt(c, "limit", DefaultLimit, 1, MaxLimit)
	if err != nil {
		return 0, 0, err
	}

	return offset, limit, nil
}

// parseBoundedInt parses one integer query parameter. A max of -1 means
// unbounded above.
func parseBoundedInt(c *gin.Context, name string, fallback, min, max int) (int, error) {
	raw := c.DefaultQuery(name, strconv.Itoa(fallback))

	value, err := strconv.Atoi(raw)
	if err != nil || value < min || (max >= 0 && value > max) {
		if max >= 0 {
			return 0, fmt.Errorf("invalid %s parameter: must be an integer between %d and %d", name, min, max)
		}
		return 0, fmt.Errorf("invalid %s parameter: must be an integer >= %d", name, min)
	}

	return value, nil
}
