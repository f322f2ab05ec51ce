// internal/registration/image-normalize/service.go
package imagenormalize

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	// decoders for image.Decode
	_ "image/gif"

	_ "golang.org/x/image/webp"

	"member-registration/internal/common/logger"
	"member-registration/internal/common/metrics"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

// Normalizer turns uploads into bounded-width data URIs.
type Normalizer struct {
	config *Config
	logger logger.Logger
}

func NewNormalizer(deps ServiceDependencies, cfg *Config) *Normalizer {
	return &Normalizer{
		config: cfg,
		logger: deps.Logger,
	}
}

// Normalize reads an uploaded image and returns it as a data URI no wider than
// MaxWidth. size is the declared upload size, or -1 when unknown.
func (n *Normalizer) Normalize(r io.Reader, size int64) (string, error) {
	uri, outcome, err := n.normalize(r, size)
	metrics.ImagesProcessed.WithLabelValues(outcome).Inc()
	if err != nil {
		n.logger.Warn("image rejected", map[string]interface{}{
			"outcome": outcome,
			"error":   err.Error(),
		})
		return "", err
	}
	return uri, nil
}

func (n *Normalizer) normalize(r io.Reader, size int64) (string, string, error) {
	if size > n.config.MaxBytes {
		return "", "too_large", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, size)
	}

	data, err := io.ReadAll(io.LimitReader(r, n.config.MaxBytes+1))
	if err != nil {
		return "", "error", fmt.Errorf("%w: read upload: %v", ErrImageProcessing, err)
	}
	if int64(len(data)) > n.config.MaxBytes {
		return "", "too_large", fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, n.config.MaxBytes)
	}

	if _, _, err := inspect(data, n.config.MaxPixels); err != nil {
		return "", outcomeFor(err), err
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "error", fmt.Errorf("%w: decode: %v", ErrImageProcessing, err)
	}

	img := n.downscale(src)

	var buf bytes.Buffer
	mime := "image/png"
	if format == "jpeg" {
		mime = "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.config.JPEGQuality})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return "", "error", fmt.Errorf("%w: encode %s: %v", ErrImageProcessing, mime, err)
	}

	outcome := "ok"
	if img != src {
		outcome = "resized"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), outcome, nil
}

// downscale returns src unchanged when it already fits.
func (n *Normalizer) downscale(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() <= n.config.MaxWidth {
		return src
	}
	height := b.Dy() * n.config.MaxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, n.config.MaxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// inspect sniffs data and reads only its header, so oversized pixel
// dimensions are rejected before anything is allocated for them.
func inspect(data []byte, maxPixels int) (image.Config, string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return image.Config{}, "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mt.String())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: read %s header: %v", ErrImageProcessing, mt.String(), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return image.Config{}, "", fmt.Errorf("%w: %dx%d", ErrImageDimensions, cfg.Width, cfg.Height)
	}
	return cfg, format, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrNotAnImage):
		return "not_image"
	case errors.Is(err, ErrImageDimensions), errors.Is(err, ErrImageTooLarge):
		return "too_large"
	default:
		return "error"
	}
}

// VerifyDataURI is ParseDataURI plus a content check: the payload must be a
// decodable image within cfg's pixel budget and no wider than cfg.MaxWidth.
// Values produced by Normalize always pass.
func VerifyDataURI(value string, cfg *Config) (*DataURI, error) {
	uri, err := ParseDataURI(value, cfg.MaxBytes)
	if err != nil {
		return nil, err
	}
	header, _, err := inspect(uri.Data, cfg.MaxPixels)
	if err != nil {
		return nil, err
	}
	if header.Width > cfg.MaxWidth {
		return nil, fmt.Errorf("%w: %d px wide, limit %d", ErrImageTooWide, header.Width, cfg.MaxWidth)
	}
	return uri, nil
}

// ParseDataURI checks that value is a base64 image data URI whose payload is
// at most maxBytes.
func ParseDataURI(value string, maxBytes int64) (*DataURI, error) {
	m := dataURIPattern.FindStringSubmatch(value)
	if m == nil {
		return nil, ErrInvalidDataURI
	}
	if int64(base64.StdEncoding.DecodedLen(len(m[2]))) > maxBytes+2 {
		return nil, fmt.Errorf("%w: encoded payload exceeds %d bytes", ErrImageTooLarge, maxBytes)
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}
	return &DataURI{MIME: m[1], Data: data}, nil
}
