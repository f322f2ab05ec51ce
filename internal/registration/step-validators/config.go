// internal/registration/step-validators/config.go
package stepvalidators

import (
	"member-registration/internal/common/config"
	imagenormalize "member-registration/internal/registration/image-normalize"
)

type Config struct {
	// Images bounds every image data URI in step 3: bytes, pixels and width.
	Images *imagenormalize.Config
}

func LoadConfig(cfg config.ImageConfig) *Config {
	return &Config{Images: imagenormalize.LoadConfig(cfg)}
}
