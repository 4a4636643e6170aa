package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/flow"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/session"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/story"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/validator"
	"github.com/gin-gonic/gin"
)

// Error codes returned in {"error", "code"} bodies.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeEmptyOutput    = "EMPTY_OUTPUT"
	CodeNoWords        = "NO_WORDS"
	CodeLLMError       = "LLM_ERROR"
	CodeRateLimited    = "RATE_LIMIT_EXCEEDED"
	CodeStoreError     = "STORE_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidStory   = "INVALID_STORY"
	CodeSuperseded     = "SUPERSEDED"
)

// statusClientClosedRequest is logged when the caller went away mid-request.
const statusClientClosedRequest = 499

// isQuotaError reports an upstream model quota error. Only model calls are
// checked; store messages may quote arbitrary text.
func isQuotaError(err error, fallbackCode string) bool {
	if fallbackCode != CodeLLMError {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// respondError maps err to a status and code. fallbackCode is used for
// errors with no sentinel, i.e. LLM_ERROR for model calls and STORE_ERROR
// for database calls.
func respondError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	switch {
	case errors.Is(err, validator.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": CodeInvalidRequest})
	case errors.Is(err, flow.ErrNoWords):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid words were provided for expansion.", "code": CodeNoWords})
	case errors.Is(err, story.ErrInvalidStory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": CodeInvalidStory})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": CodeNotFound})
	case errors.Is(err, context.Canceled):
		log.Printf("Request cancelled by client: %s", c.FullPath())
		c.AbortWithStatus(statusClientClosedRequest)
	case errors.Is(err, flow.ErrEmptyOutput):
		log.Printf("Empty model output: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "The model returned an empty result. Please try again.", "code": CodeEmptyOutput})
	case isQuotaError(err, fallbackCode):
		log.Printf("Upstream rate limit: %v", err)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please wait a moment.", "code": CodeRateLimited})
	case errors.Is(err, flow.ErrInvalidOutput):
		log.Printf("Invalid model output: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fallbackMessage, "code": CodeLLMError})
	default:
		log.Printf("%s: %v", fallbackMessage, err)
		status := http.StatusInternalServerError
		if fallbackCode == CodeLLMError {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": fallbackMessage, "code": fallbackCode})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": CodeInvalidRequest})
}
