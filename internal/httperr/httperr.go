package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
}

var messages = map[Kind]string{
	KindValidation:        "Invalid input.",
	KindConflict:          "The request conflicts with existing data.",
	KindInvalidTransition: "Status change not allowed.",
	KindInvalidState:      "Operation not allowed in the current state.",
	KindAuthorization:     "Not allowed.",
	KindNotFound:          "Resource not found.",
	KindInternal:          "Internal error.",
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict, KindInvalidTransition, KindInvalidState:
		return http.StatusConflict
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// Respond maps a use case error to its HTTP status and body.
func Respond(c *gin.Context, err error) {
	kind := KindOf(err)
	code := CodeOf(err)

	if kind == KindInternal {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	c.JSON(StatusFor(kind), HTTPError{
		Code:    code,
		Kind:    kind,
		Message: messages[kind],
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}
