package epub

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// ErrNoCoverImage is returned when a thumbnail is requested for a book whose
// package never resolved a cover image.
var ErrNoCoverImage = errors.New("book has no cover image")

const coverThumbnailQuality = 90

// CoverThumbnail decodes the book's cover image and returns a JPEG thumbnail
// scaled down to fit within maxWidth x maxHeight, preserving aspect ratio.
// Images already within the bounds are re-encoded, not enlarged.
func (b *Book) CoverThumbnail(maxWidth, maxHeight int) ([]byte, error) {
	if b.CoverImage == nil {
		return nil, ErrNoCoverImage
	}
	img, err := imaging.Decode(bytes.NewReader(b.CoverImage.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image %s: %w", b.CoverImage.Href, err)
	}
	thumb := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(coverThumbnailQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode cover thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
