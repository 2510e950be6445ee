package response

import "github.com/gin-gonic/gin"

// OK writes a {status, message} body for lifecycle endpoints.
func OK(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"status":  "success",
		"message": message,
	})
}

// Chat writes the agent answer.
func Chat(c *gin.Context, code int, answer string) {
	c.JSON(code, gin.H{
		"response": answer,
	})
}

// Error writes a {detail} body, matching what the API clients parse.
func Error(c *gin.Context, code int, detail string) {
	c.JSON(code, gin.H{
		"detail": detail,
	})
}
