package media

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrUploadFailed occurs when the image CDN rejects or fails an upload.
var ErrUploadFailed = errors.New("image upload failed")

// Uploader pushes a local file reference to the image CDN and returns a
// stable URL. Implementations pass already-remote URLs through untouched.
type Uploader interface {
	Upload(ctx context.Context, ref, folder string) (string, error)
}

// IsRemote reports whether the reference is already a hosted URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// StaticUploader simulates a successful CDN integration for development and
// tests, minting a synthetic URL for anything not already remote.
type StaticUploader struct{}

// Upload returns the reference unchanged when remote, otherwise a synthetic URL.
func (StaticUploader) Upload(_ context.Context, ref, folder string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if IsRemote(ref) {
		return ref, nil
	}
	return "https://static.spendwise.local/" + folder + "/" + uuid.NewString(), nil
}
