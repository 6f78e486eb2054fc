package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"youbuddy/internal/ranking"
	"youbuddy/internal/service"
	"youbuddy/internal/youtube"
)

// upstreamPolicy decides how a YouTube status maps onto our response.
type upstreamPolicy int

const (
	// only 403 and 404 pass through, other 4xx become 502
	strictUpstream upstreamPolicy = iota
	// every 4xx passes through
	passthroughUpstream
)

// statusFor maps an error from the service layer to an HTTP status and detail.
func statusFor(err error, policy upstreamPolicy) (int, string) {
	switch {
	case errors.Is(err, ranking.ErrInvalidQuery),
		errors.Is(err, ranking.ErrInvalidCount),
		errors.Is(err, service.ErrInvalidChannel),
		errors.Is(err, service.ErrEmptyText):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, youtube.ErrInvalidDate):
		return http.StatusBadRequest, "Invalid date format. Please use YYYY-MM-DD."
	case errors.Is(err, youtube.ErrInvalidPlaylistURL),
		errors.Is(err, youtube.ErrInvalidVideoURL):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, youtube.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, youtube.ErrMissingAPIKey):
		return http.StatusInternalServerError, "Server configuration error: YouTube API key not available."
	case errors.Is(err, service.ErrSummarizerUnavailable):
		return http.StatusInternalServerError, "Server configuration error: summarizer not available."
	case errors.Is(err, service.ErrSummarizerFailed):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, youtube.ErrUnreachable):
		return http.StatusBadGateway, "Failed to connect to YouTube API."
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Upstream request timed out."
	}

	if code, ok := youtube.StatusCode(err); ok {
		msg := youtube.UpstreamMessage(err)
		if msg == "" {
			msg = http.StatusText(code)
		}
		detail := "YouTube API error: " + msg
		switch {
		case code == http.StatusForbidden || code == http.StatusNotFound:
			return code, detail
		case code >= 500:
			return http.StatusServiceUnavailable, detail
		case code >= 400 && policy == passthroughUpstream:
			return code, detail
		default:
			return http.StatusBadGateway, detail
		}
	}
	return http.StatusInternalServerError, "An unexpected error occurred."
}

// abortWithError records err on the context and writes the mapped response.
func abortWithError(c *gin.Context, err error, policy upstreamPolicy) {
	status, detail := statusFor(err, policy)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
