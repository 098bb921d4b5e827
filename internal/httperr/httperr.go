package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/doctor-scheduler/internal/logger"
)

type HTTPError struct {
	Kind    Kind   `json:"kind,omitempty"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// Respond traduz qualquer erro de use case para a resposta HTTP.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		c.AbortWithStatusJSON(be.Kind.Status(), HTTPError{
			Kind:    be.Kind,
			Code:    be.Code,
			Message: be.Message,
		})
		return
	}

	op := ""
	var se *StoreError
	if errors.As(err, &se) {
		op = se.Op
	}

	logger.L().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("op", op),
		zap.Error(err),
	)

	c.AbortWithStatusJSON(http.StatusInternalServerError, HTTPError{
		Kind:    KindStore,
		Code:    "internal_error",
		Message: "internal error",
	})
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Kind:    kindForStatus(status),
		Code:    code,
		Message: message,
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

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return ""
	}
	if status >= 500 {
		return KindStore
	}
	return ""
}
