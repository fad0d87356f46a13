package handler

import "github.com/gin-gonic/gin"

// currentUserID reads the identity set by the auth middleware. Zero means
// anonymous.
func currentUserID(c *gin.Context) uint64 {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}
