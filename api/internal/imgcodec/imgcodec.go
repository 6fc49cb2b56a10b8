// Package imgcodec validates inbound complaint photos and produces the
// transport form sent to the image classifier.
package imgcodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"civic-agent/api/internal/util"
)

var ErrInvalidImage = errors.New("invalid image")

// Image is a decoded complaint photo. Bytes keeps the payload exactly as the
// citizen submitted it (after base64 decode) so the record can be audited or
// replayed; Raster is the parsed pixels.
type Image struct {
	Raster image.Image
	Bytes  []byte
	MIME   string
}

// Decode accepts a base64 payload, optionally with a data-URL prefix
// ("data:image/png;base64,...."). Everything before the first comma is
// treated as framing and dropped.
func Decode(encoded string) (*Image, error) {
	raw, hint, err := util.DecodeBase64MaybeDataURL(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64: %v", ErrInvalidImage, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return &Image{
		Raster: img,
		Bytes:  raw,
		MIME:   util.PickMIME("", hint, raw),
	}, nil
}

// TransportJPEG re-encodes the photo for the classifier call. JPEG payloads
// pass through untouched to keep full fidelity.
func (im *Image) TransportJPEG() ([]byte, error) {
	if im.MIME == "image/jpeg" {
		return im.Bytes, nil
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, im.Raster, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
