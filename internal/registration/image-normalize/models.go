// internal/registration/image-normalize/models.go
package imagenormalize

import (
	"errors"
	"regexp"

	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
)

var (
	ErrImageTooLarge   = errors.New("IMAGE_TOO_LARGE")
	ErrNotAnImage      = errors.New("NOT_AN_IMAGE")
	ErrImageProcessing = errors.New("IMAGE_PROCESSING_FAILED")
	ErrInvalidDataURI  = errors.New("INVALID_DATA_URI")
	ErrImageDimensions = errors.New("IMAGE_DIMENSIONS_TOO_LARGE")
	ErrImageTooWide    = errors.New("IMAGE_TOO_WIDE")
)

type ServiceDependencies struct {
	Logger logger.Logger
}

// DataURI is a decoded data:image/...;base64 value.
type DataURI struct {
	MIME string
	Data []byte
}

var dataURIPattern = regexp.MustCompile(`^data:(image/[a-zA-Z0-9.+-]+);base64,([A-Za-z0-9+/]+={0,2})$`)

// MessageKey returns the catalog key describing err to the user.
func MessageKey(err error) string {
	switch {
	case errors.Is(err, ErrImageTooLarge):
		return i18n.MsgImageTooLarge
	case errors.Is(err, ErrNotAnImage):
		return i18n.MsgImageNotImage
	case errors.Is(err, ErrImageDimensions):
		return i18n.MsgImageDimension
	case errors.Is(err, ErrInvalidDataURI), errors.Is(err, ErrImageTooWide):
		return i18n.MsgImageInvalid
	default:
		return i18n.MsgImageProcessed
	}
}
