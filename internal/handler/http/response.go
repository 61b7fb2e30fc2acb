package http

import "github.com/gin-gonic/gin"

// ErrorResponse writes {"status":"error","message":...}.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// SuccessResponse merges data into {"status":"success"}.
func SuccessResponse(c *gin.Context, code int, data gin.H) {
	body := gin.H{"status": "success"}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(code, body)
}
