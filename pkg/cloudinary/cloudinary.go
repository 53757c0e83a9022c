// Package cloudinary wraps image upload and deletion for gallery and content
// images.
package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client is the subset of Cloudinary operations the handlers need; tests
// substitute a stub.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url string, err error)
	DeleteImage(ctx context.Context, publicID string) error
}

// Delivery optimization applied eagerly at upload time.
const imageEager = "q_auto,f_auto,w_1200,c_limit"

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

// NewClient builds a Client from cloud name, API key, and secret.
func NewClient(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}

func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: empty url for %s", publicID)
	}
	return result.SecureURL, nil
}

func (c *clientImpl) DeleteImage(ctx context.Context, publicID string) error {
	_, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// OptimizedURL returns a delivery URL with on-the-fly transformations for an
// existing public ID.
func OptimizedURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = 1200
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_limit/%s",
		cloudName, width, publicID)
}
