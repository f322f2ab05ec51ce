// internal/registration/wizard-api/config.go
package wizardapi

import (
	"member-registration/internal/common/config"
	imagenormalize "member-registration/internal/registration/image-normalize"
)

// multipartOverhead is allowed on top of the image limit for form boundaries and headers.
const multipartOverhead = 64 << 10

type Config struct {
	// MaxUploadBytes caps the whole image upload request.
	MaxUploadBytes int64
	// LocaleCookie remembers a locale chosen with ?lang=.
	LocaleCookie string
}

func LoadConfig(cfg config.ImageConfig) *Config {
	return &Config{
		MaxUploadBytes: imagenormalize.LoadConfig(cfg).MaxBytes + multipartOverhead,
		LocaleCookie:   "lang",
	}
}
