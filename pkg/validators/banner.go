package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrBannerTooLarge        = errors.New("banner image too large")
	ErrBannerTypeUnsupported = errors.New("unsupported banner type, use png, jpeg, webp or gif")
	ErrNoBanner              = errors.New("no banner image provided")
)

var bannerTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// BannerValidator checks an uploaded banner image and returns it opened and
// rewound together with its sniffed content type
func BannerValidator(fh *multipart.FileHeader, maxSize int64) (int, multipart.File, string, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, "", ErrNoBanner
	}

	// Check headers first which is easy to spoof, but faster for legit clients
	ct := fh.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "image/") {
		return http.StatusBadRequest, nil, "", ErrBannerTypeUnsupported
	}

	if fh.Size > maxSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrBannerTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	if !mimetype.EqualsAny(mime.String(), bannerTypes...) {
		f.Close()
		return http.StatusBadRequest, nil, "", ErrBannerTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	return 0, f, mime.String(), nil
}
