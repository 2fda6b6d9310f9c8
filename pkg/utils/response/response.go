// Package response writes the wire envelope shared by every endpoint:
// {"status": <variant>, "message": <payload>}.
package response

import (
	"net/http"

	"gauntlet/internal/judge/verdict"

	"github.com/gin-gonic/gin"
)

// Envelope is the discriminated response shape used by admin endpoints.
type Envelope struct {
	Status  string      `json:"status"`
	Message interface{} `json:"message,omitempty"`
}

// Verdict writes a judged outcome with its paired transport status.
func Verdict(c *gin.Context, v verdict.Verdict) {
	c.JSON(v.HTTPStatus(), v)
}

// BadRequest reports a malformed request outside the verdict union.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Status: "BadRequest", Message: message})
}

// AdminSuccess reports a completed admin operation.
func AdminSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Status: "Success", Message: message})
}

// AdminFailure reports a failed admin operation. Detail stays generic; no
// SQL strings or paths cross the wire.
func AdminFailure(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Status: "Failure", Message: message})
}

// AdminUnauthorized rejects a request without a valid admin token.
func AdminUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Envelope{Status: "Unauthorized"})
}

// Players writes the admin player listing.
func Players(c *gin.Context, players []string) {
	c.JSON(http.StatusOK, Envelope{Status: "Players", Message: players})
}

// Submissions writes the admin submission listing.
func Submissions(c *gin.Context, subs interface{}) {
	c.JSON(http.StatusOK, Envelope{Status: "Submissions", Message: subs})
}
