// Package handler exposes the HTTP surface consumed by the presentation
// layer: asset status, clip creation, and playback moderation controls.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/service"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// respondServiceError maps the service error taxonomy onto HTTP responses.
// Client input errors echo their message with 400; provider rejections are
// forwarded verbatim; everything else is an opaque 500.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var (
		invalidRange *service.InvalidRangeError
		unknownID    *service.UnknownPlaybackIDError
		notClippable *service.NotClippableError
		rejected     *service.UpstreamRejectedError
	)

	switch {
	case errors.As(err, &invalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRange.Error()})
	case errors.As(err, &unknownID):
		c.JSON(http.StatusBadRequest, gin.H{"error": unknownID.Error()})
	case errors.As(err, &notClippable):
		c.JSON(http.StatusBadRequest, gin.H{"error": notClippable.Error()})
	case errors.As(err, &rejected):
		// The provider already validated and refused; its body carries the
		// message the caller should see.
		c.Data(http.StatusBadRequest, "application/json", rejected.Body)
	default:
		logger.Log.Error("request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
