package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

func statusForKind(kind ErrorKind) int {
	switch kind {
	case KindValidation, KindGateway:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Respond renders an error from the service layer. AppError kinds map to
// HTTP statuses; anything else is treated as an internal error and its
// detail is logged rather than returned to the client.
func Respond(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal || appErr.Kind == KindUnavailable {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		JSONError(c, statusForKind(appErr.Kind), appErr.Message)
		return
	}
	log.Printf("%s %s: unexpected error: %v", c.Request.Method, c.Request.URL.Path, err)
	JSONError(c, http.StatusInternalServerError, "internal server error")
}
