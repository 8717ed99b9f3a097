package uploader

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Uploader pushes local files to an S3 bucket and returns the public
// object URL. Object keys are random UUIDs under keyPrefix.
type S3Uploader struct {
	uploader  *manager.Uploader
	bucket    string
	region    string
	keyPrefix string
}

func NewS3Uploader(ctx context.Context, region, bucket, keyPrefix string) (*S3Uploader, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg)
	return &S3Uploader{
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		region:    region,
		keyPrefix: keyPrefix,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, localPath string) (*Result, error) {
	if localPath == "" {
		return nil, nil
	}
	defer os.Remove(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	ct := contentTypeFor(f, localPath)
	key := u.keyPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(localPath))

	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ct),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", localPath, err)
	}

	escaped := url.PathEscape(key)
	return &Result{URL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, escaped)}, nil
}

// contentTypeFor sniffs the first 512 bytes; an empty file gets
// application/octet-stream. The reader is rewound afterwards.
func contentTypeFor(f *os.File, path string) string {
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	_, _ = f.Seek(0, 0)
	if n > 0 {
		return http.DetectContentType(buf[:n])
	}
	return "application/octet-stream"
}
