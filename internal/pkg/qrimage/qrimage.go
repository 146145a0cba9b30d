package qrimage

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/disintegration/imaging"

	"github.com/pitchside/fieldbook-gateway/internal/pkg/apperror"
)

// Processor handles QR image processing like resizing.
type Processor struct{}

// NewProcessor creates a new Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Fit scales a fetched QR image into the given bounding box, preserving
// aspect ratio, and returns it re-encoded as PNG. QR codes stay scannable
// under Lanczos resampling.
func (p *Processor) Fit(content []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, apperror.Wrap(err, http.StatusBadGateway, "failed to decode qr image")
	}

	fitted := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, fitted); err != nil {
		return nil, fmt.Errorf("failed to encode qr image: %w", err)
	}

	return buf.Bytes(), nil
}
