// Package archive stores raw uploaded files in S3 so page estimates can be
// audited later.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/mmynk/pagetally/internal/estimator"
)

// Uploader is the subset of the S3 upload manager the archive needs.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Ensure S3Archive implements estimator.Archiver
var _ estimator.Archiver = (*S3Archive)(nil)

// S3Archive writes uploads to a bucket under a dated key prefix.
type S3Archive struct {
	uploader Uploader
	bucket   string
	prefix   string
	now      func() time.Time
}

// NewS3Archive creates an archive using the default AWS credential chain.
func NewS3Archive(ctx context.Context, bucket, prefix string) (*S3Archive, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWithUploader(manager.NewUploader(s3.NewFromConfig(cfg)), bucket, prefix), nil
}

// NewWithUploader creates an archive around an existing uploader.
func NewWithUploader(uploader Uploader, bucket, prefix string) *S3Archive {
	return &S3Archive{
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		now:      time.Now,
	}
}

// Key builds the object key for a file: <prefix>/YYYY/MM/DD/<id>-<name>.
func (a *S3Archive) Key(id, name string) string {
	return path.Join(a.prefix, a.now().UTC().Format("2006/01/02"), id+"-"+sanitize(name))
}

// Archive uploads content and returns its s3:// location.
func (a *S3Archive) Archive(ctx context.Context, name string, content []byte) (string, error) {
	key := a.Key(uuid.New().String(), name)
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(mimetype.Detect(content).String()),
		Metadata:    map[string]string{"name": name},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return "s3://" + a.bucket + "/" + key, nil
}

// sanitize keeps a file's base name usable as a key segment.
func sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}
