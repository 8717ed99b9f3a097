package uploader

import (
	"context"
	"errors"
	"os"
)

// Result is what a successful upload yields.
type Result struct {
	URL string `json:"url"`
}

// Uploader takes a local file path and returns a hosted URL. An empty
// localPath yields (nil, nil) so optional files can be passed through
// without a presence check at the call site. The local file is removed
// after the upload attempt, success or not.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Result, error)
}

var ErrNotConfigured = errors.New("media uploads are not configured")

// Disabled is the uploader used when no storage backend is configured.
// Every upload fails, which registration turns into a 400 on the avatar.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, localPath string) (*Result, error) {
	if localPath == "" {
		return nil, nil
	}
	_ = os.Remove(localPath)
	return nil, ErrNotConfigured
}
