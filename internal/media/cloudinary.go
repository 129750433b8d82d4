package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const uploadTimeout = 30 * time.Second

// CloudinaryUploader uploads images through Cloudinary's unsigned upload API.
type CloudinaryUploader struct {
	cloudName    string
	uploadPreset string
	client       *http.Client
}

// NewCloudinaryUploader builds an uploader for the given cloud and unsigned preset.
func NewCloudinaryUploader(cloudName, uploadPreset string) *CloudinaryUploader {
	return &CloudinaryUploader{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		client:       &http.Client{Timeout: uploadTimeout},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file reference to Cloudinary tagged with the folder.
// References that are already hosted URLs are returned as-is.
func (u *CloudinaryUploader) Upload(ctx context.Context, ref, folder string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if IsRemote(ref) {
		return ref, nil
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", u.cloudName)

	form := url.Values{}
	form.Set("file", ref)
	form.Set("upload_preset", u.uploadPreset)
	form.Set("folder", folder)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUploadFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := decoded.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, msg)
	}
	if decoded.SecureURL == "" {
		return "", fmt.Errorf("%w: response missing secure_url", ErrUploadFailed)
	}

	return decoded.SecureURL, nil
}
