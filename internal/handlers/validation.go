package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// timestampLayout accepts exactly millisecond precision with a trailing Z,
// e.g. "2024-01-15T10:30:00.000Z". RFC3339 variants with other fractional
// widths or numeric offsets are rejected.
const timestampLayout = "2006-01-02T15:04:05.000Z"

const timestampFormatMsg = "Timestamp must be in ISO 8601 format (e.g., 2024-01-15T10:30:00.000Z)"

// parseTimestamp parses a strict ISO-8601 UTC timestamp.
func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, ts)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// fieldErrors accumulates per-field validation messages for a 422 response.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// collectBindingErrors translates validator failures into per-field messages
// keyed by the JSON field name.
func collectBindingErrors(verr validator.ValidationErrors, fe fieldErrors) {
	for _, f := range verr {
		switch f.Field() {
		case "Type":
			if f.Tag() == "required" {
				fe.add("type", "The type field is required.")
			} else {
				fe.add("type", "The selected type is invalid.")
			}
		case "TS":
			fe.add("ts", "The ts field is required.")
		case "SessionID":
			fe.add("session_id", "The session id field is required.")
		}
	}
}

// unprocessable writes the 422 validation-failure response.
func unprocessable(c *gin.Context, fe fieldErrors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"errors":  fe,
	})
}

// asValidationErrors unwraps a gin binding error into validator failures.
// Non-validation errors (JSON syntax, type mismatches) return false.
func asValidationErrors(err error) (validator.ValidationErrors, bool) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// databaseError logs the failure with full detail and answers with a generic
// 500. The underlying error reaches the client only in debug mode.
func databaseError(c *gin.Context, debug bool, err error) {
	slog.Error("database error",
		"error", err,
		"url", c.Request.URL.String(),
		"method", c.Request.Method,
	)

	body := gin.H{"message": "Database error occurred"}
	if debug {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
