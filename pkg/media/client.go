package media

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/edumart/server-go/pkg/apperrors"
)

const thumbnailFolder = "course-thumbnails"

// Client uploads course thumbnails to Cloudinary and returns their delivery
// URLs. Construction fails fast so a bad CLOUDINARY_URL aborts startup.
type Client struct {
	cld *cloudinary.Cloudinary
}

// New builds a media client from a cloudinary:// connection URL.
func New(cloudinaryURL string) (*Client, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Client{cld: cld}, nil
}

// UploadThumbnail stores the image and returns its HTTPS delivery URL.
func (c *Client) UploadThumbnail(ctx context.Context, file io.Reader) (string, error) {
	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: thumbnailFolder,
	})
	if err != nil {
		return "", apperrors.New("failed to upload thumbnail", http.StatusInternalServerError, apperrors.ErrProvider, fmt.Errorf("upload thumbnail: %w", err))
	}

	if result.SecureURL == "" {
		return "", apperrors.New("failed to upload thumbnail", http.StatusInternalServerError, apperrors.ErrProvider, fmt.Errorf("empty delivery url in upload response"))
	}

	return result.SecureURL, nil
}
