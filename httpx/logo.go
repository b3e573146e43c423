package httpx

import (
	"encoding/base64"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// MaxLogoSize bounds an uploaded logo before base64 inflates it by a
// third inside every stored copy and shared link.
const MaxLogoSize = 1 << 20

var (
	ErrLogoTooLarge = errors.New("logo is larger than 1 MiB")
	ErrNotImage     = errors.New("logo is not an image")
)

// LogoDataURL reads an uploaded image and returns it as a data URL.
func LogoDataURL(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxLogoSize+1))
	if err != nil {
		return "", errors.Wrap(err, "logo.read")
	}
	if len(data) > MaxLogoSize {
		return "", ErrLogoTooLarge
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", errors.Wrap(ErrNotImage, mime.String())
	}

	return "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
