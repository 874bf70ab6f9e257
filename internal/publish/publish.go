// Package publish uploads finished outputs to S3-compatible object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"selfsim/internal/logging"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "s3.amazonaws.com"

// Content types by output extension.
const (
	ContentTypeArrow = "application/vnd.apache.arrow.file"
	ContentTypeJSON  = "application/json"
)

var ErrBadURL = errors.New("publish: want s3://bucket/key")

// ParseURL splits s3://bucket/key.
func ParseURL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%w: got %q", ErrBadURL, raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: missing object key in %q", ErrBadURL, raw)
	}
	return u.Host, key, nil
}

// Options configure the client.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	Region    string
}

// NewClient builds a minio client. Without static keys, credentials come
// from the AWS_* and MINIO_* environment variables.
func NewClient(o Options) (*minio.Client, error) {
	endpoint := o.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	var creds *credentials.Credentials
	if o.AccessKey != "" || o.SecretKey != "" {
		creds = credentials.NewStaticV4(o.AccessKey, o.SecretKey, "")
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
		})
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: o.Secure,
		Region: o.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("publish client: %w", err)
	}
	return client, nil
}

// Uploader copies local files to a bucket.
type Uploader struct {
	client *minio.Client
	log    *logging.Logger
}

// NewUploader wraps client.
func NewUploader(client *minio.Client, log *logging.Logger) *Uploader {
	return &Uploader{client: client, log: logging.OrNoop(log).WithComponent("publish")}
}

// Upload sends the file at path to dest (s3://bucket/key).
func (u *Uploader) Upload(ctx context.Context, path, dest string) (minio.UploadInfo, error) {
	bucket, key, err := ParseURL(dest)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	info, err := u.client.FPutObject(ctx, bucket, key, path, minio.PutObjectOptions{
		ContentType: ContentType(path),
	})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchBucket" {
			return info, fmt.Errorf("publish %s: bucket %q does not exist", dest, bucket)
		}
		return info, fmt.Errorf("publish %s: %w", dest, err)
	}
	u.log.InfoContext(ctx, "published output",
		"url", dest,
		"size", humanize.Bytes(uint64(info.Size)),
		"etag", info.ETag,
	)
	return info, nil
}

// ContentType picks the object content type from the file extension.
func ContentType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ContentTypeJSON
	}
	return ContentTypeArrow
}
