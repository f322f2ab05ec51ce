// internal/registration/image-normalize/config.go
package imagenormalize

import "member-registration/internal/common/config"

const (
	DefaultMaxBytes    int64 = 3 * 1024 * 1024
	DefaultMaxWidth          = 500
	DefaultJPEGQuality       = 85

	// DefaultMaxPixels caps width*height before any pixel data is decoded.
	DefaultMaxPixels = 40_000_000
)

type Config struct {
	MaxBytes    int64
	MaxWidth    int
	JPEGQuality int
	MaxPixels   int
}

func LoadConfig(cfg config.ImageConfig) *Config {
	c := &Config{
		MaxBytes:    cfg.MaxBytes,
		MaxWidth:    cfg.MaxWidth,
		JPEGQuality: DefaultJPEGQuality,
		MaxPixels:   DefaultMaxPixels,
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.MaxWidth <= 0 {
		c.MaxWidth = DefaultMaxWidth
	}
	return c
}
