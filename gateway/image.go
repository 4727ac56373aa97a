package gateway

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes caps profile image uploads at 2 MiB.
const MaxImageBytes = 2 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// checkImage enforces the size ceiling and format allow-list and returns the
// detected MIME type. An empty image is allowed and yields an empty type.
func checkImage(img []byte) (string, error) {
	if len(img) == 0 {
		return "", nil
	}
	if len(img) > MaxImageBytes {
		return "", fail(KindInvalidImage, fmt.Errorf("image is %d bytes, limit is %d", len(img), MaxImageBytes))
	}

	mt := mimetype.Detect(img)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fail(KindInvalidImage, fmt.Errorf("image type %s is not jpeg or png", mt.String()))
}
