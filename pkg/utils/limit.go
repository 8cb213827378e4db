package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetLimitParam extracts an optional result cap from the request.
// Zero means uncapped; anything above max is clamped.
func GetLimitParam(c echo.Context, max int) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

// Truncate shortens text for preview cards the same way the public
// site renders them.
func Truncate(text string, length int) string {
	if len(text) <= length {
		return text
	}
	if length <= 3 {
		return text[:length]
	}
	return text[:length-3] + "..."
}
