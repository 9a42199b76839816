package middleware

import (
	"errors"
	"mime"
	"net/http"

	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimitConfig caps request bodies. Multipart uploads get their own,
// usually larger, cap; zero means they share MaxBytes.
type BodyLimitConfig struct {
	MaxBytes          int64
	MaxMultipartBytes int64
}

func (cfg BodyLimitConfig) limitFor(r *http.Request) int64 {
	if cfg.MaxMultipartBytes <= 0 {
		return cfg.MaxBytes
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "multipart/form-data" {
		return cfg.MaxMultipartBytes
	}
	return cfg.MaxBytes
}

// BodyLimit rejects bodies whose declared length is over the limit and caps
// the rest with http.MaxBytesReader, so chunked bodies fail on read.
func BodyLimit(cfg BodyLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cfg.limitFor(c.Request)
		if limit <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			abortTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from reading past the body limit
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func abortTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeRequestTooLarge,
		"Request body exceeds maximum allowed size",
		c.GetString(RequestIDContextKey),
	))
}
