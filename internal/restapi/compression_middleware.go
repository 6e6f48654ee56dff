package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// CompressionConfig holds configuration options for response compression
type CompressionConfig struct {
	// MinSize is the minimum response size in bytes to compress (default: 1024)
	MinSize int
	// Level is the compression level 1-9 (default: 6)
	Level int
	// ContentTypes limits compression to these media types. Empty compresses everything gzhttp allows.
	ContentTypes []string
}

// DefaultCompressionConfig compresses the JSON board responses and the debug pages.
// Small responses such as current-time stay uncompressed.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:      1024,
		Level:        6,
		ContentTypes: []string{"application/json", "text/html", "text/plain"},
	}
}

func (c CompressionConfig) wrapper() (func(http.Handler) http.HandlerFunc, error) {
	if len(c.ContentTypes) == 0 {
		return gzhttp.NewWrapper(gzhttp.MinSize(c.MinSize), gzhttp.CompressionLevel(c.Level))
	}
	return gzhttp.NewWrapper(
		gzhttp.MinSize(c.MinSize),
		gzhttp.CompressionLevel(c.Level),
		gzhttp.ContentTypes(c.ContentTypes),
	)
}

// NewCompressionMiddleware creates a compression middleware with the given configuration
func NewCompressionMiddleware(config CompressionConfig) func(http.Handler) http.Handler {
	wrapper, err := config.wrapper()
	return func(next http.Handler) http.Handler {
		if err != nil {
			return gzhttp.GzipHandler(next)
		}
		return wrapper(next)
	}
}

// CompressionMiddleware applies gzip compression with default settings
func CompressionMiddleware(next http.Handler) http.Handler {
	return NewCompressionMiddleware(DefaultCompressionConfig())(next)
}
