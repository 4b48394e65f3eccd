package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/saiMhatre/stock-api/internal/stock"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Status       string   `json:"status"`
	ErrorMessage []string `json:"errorMessage"`
}

type invalidIDError struct {
	raw string
}

func (e *invalidIDError) Error() string {
	return fmt.Sprintf("invalid stock id %q", e.raw)
}

// bindError wraps a request body that could not be decoded at all.
type bindError struct {
	err error
}

func (e *bindError) Error() string {
	if errors.Is(e.err, io.EOF) {
		return "Required request body is missing"
	}
	return e.err.Error()
}

func (e *bindError) Unwrap() error { return e.err }

// statusFor maps a handler error to its HTTP status and user-facing messages.
func statusFor(err error) (int, []string) {
	var (
		verr  *stock.ValidationError
		nf    *stock.NotFoundError
		ae    *stock.AlreadyExistsError
		idErr *invalidIDError
		bErr  *bindError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Messages
	case errors.As(err, &nf):
		return http.StatusNotFound, []string{nf.Error()}
	case errors.As(err, &ae):
		return http.StatusBadRequest, []string{ae.Error()}
	case errors.As(err, &idErr):
		return http.StatusBadRequest, []string{idErr.Error()}
	case errors.As(err, &bErr):
		return http.StatusBadRequest, []string{bErr.Error()}
	default:
		return http.StatusInternalServerError, []string{"internal server error"}
	}
}

// statusName renders a code the way the error body names it, e.g. NOT_FOUND.
func statusName(code int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	code, msgs := statusFor(err)
	entry := logger.WithFields(logrus.Fields{
		"status":     code,
		"path":       c.FullPath(),
		"request_id": c.GetString(requestIDKey),
	})
	if code >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.Debug(strings.Join(msgs, "; "))
	}
	c.AbortWithStatusJSON(code, ErrorResponse{Status: statusName(code), ErrorMessage: msgs})
}
