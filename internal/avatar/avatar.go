// Package avatar turns an uploaded image into a square profile picture and
// stores it keyed by user ID.
package avatar

import (
	"context"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	dErrors "phonebook/pkg/domainerrors"
)

// Size is the edge length of a stored avatar.
const Size = 250

// Storage writes the processed image and returns the public URL path for it.
type Storage interface {
	Save(ctx context.Context, userID uuid.UUID, img image.Image) (string, error)
}

// Normalize decodes an upload and crops/scales it to Size×Size. Undecodable
// input is a caller error, not an infra failure.
func Normalize(r io.Reader) (image.Image, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "unsupported image format", err)
	}
	return imaging.Fill(src, Size, Size, imaging.Center, imaging.Lanczos), nil
}
