package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pageza/fridgechef/backend/internal/types"
)

// ErrInvalidImage is returned when image data cannot be decoded
var ErrInvalidImage = errors.New("invalid image data")

var (
	dataURLPattern   = regexp.MustCompile(`(?s)^data:(image/[\w.+-]+);base64,(.+)$`)
	dataURLPrefix    = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)
	base64Whitespace = strings.NewReplacer("\n", "", "\r", "", " ", "", "\t", "")
)

// DecodeImage accepts raw base64 or a data URL. A data URL's media type wins
// over imageType; with neither the type defaults to image/jpeg.
func DecodeImage(imageData, imageType string) (types.Image, error) {
	mediaType := strings.TrimSpace(imageType)
	payload := strings.TrimSpace(imageData)

	if m := dataURLPattern.FindStringSubmatch(payload); m != nil {
		mediaType = m[1]
		payload = m[2]
	} else {
		payload = dataURLPrefix.ReplaceAllString(payload, "")
	}
	if mediaType == "" {
		mediaType = types.DefaultImageType
	}

	payload = base64Whitespace.Replace(payload)
	if payload == "" {
		return types.Image{}, fmt.Errorf("%w: image is empty", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return types.Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	if len(data) == 0 {
		return types.Image{}, fmt.Errorf("%w: image is empty", ErrInvalidImage)
	}

	return types.Image{Data: data, MediaType: mediaType}, nil
}
