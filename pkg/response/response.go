package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
)

// The admin portal predates this server and expects the legacy envelope:
// {"success": true, "<resource>": [...]} on reads and
// {"success": false, "message": "..."} on every failure.

// JSON sends a success envelope merged with the provided body fields.
func JSON(c *gin.Context, status int, body gin.H) {
	envelope := gin.H{"success": true}
	for k, v := range body {
		envelope[k] = v
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, envelope)
}

// OK responds with HTTP 200 and the given body fields.
func OK(c *gin.Context, body gin.H) {
	JSON(c, http.StatusOK, body)
}

// Created responds with HTTP 201 and the given body fields.
func Created(c *gin.Context, body gin.H) {
	JSON(c, http.StatusCreated, body)
}

// Message responds with a success envelope carrying only a message.
func Message(c *gin.Context, message string) {
	JSON(c, http.StatusOK, gin.H{"message": message})
}

// Error sends a failure envelope converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{
		"success": false,
		"message": appErr.Message,
		"code":    appErr.Code,
	})
}
