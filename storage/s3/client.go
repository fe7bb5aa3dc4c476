// Package s3 provides the minio-backed storage client.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mwantia/catalog/data"
	"github.com/mwantia/catalog/storage"
)

// Config contains connection options for an S3-compatible endpoint.
type Config struct {
	// Endpoint of the S3 service (host:port)
	Endpoint string

	// AccessKey and SecretKey for static credential authentication
	AccessKey string
	SecretKey string

	// UseSSL enables TLS transport
	UseSSL bool

	// Scheme used in catalog locations (default: "s3")
	Scheme string

	// Timeout bounds every network operation; zero means no bound
	Timeout time.Duration
}

// S3Client implements the storage collaborator over any S3-compatible
// service. Every operation honors the configured timeout and maps
// expiry and transport failures to storage.ErrUnavailable.
type S3Client struct {
	client *minio.Client
	config Config
}

func NewS3Client(config Config) (*S3Client, error) {
	if config.Scheme == "" {
		config.Scheme = "s3"
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return &S3Client{
		client: client,
		config: config,
	}, nil
}

func (sc *S3Client) List(ctx context.Context, prefix string) ([]string, error) {
	_, bucket, key, err := data.ParseLocation(prefix)
	if err != nil {
		return nil, err
	}

	ctx, cancel := sc.bound(ctx)
	defer cancel()

	objects := sc.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    key,
		Recursive: true,
	})

	locations := make([]string, 0)
	for object := range objects {
		if object.Err != nil {
			return nil, sc.wrap(object.Err)
		}

		// Zero-byte directory markers are not objects
		if data.IsPrefix(object.Key) {
			continue
		}

		locations = append(locations, fmt.Sprintf("%s://%s/%s", sc.config.Scheme, bucket, object.Key))
	}

	return locations, nil
}

func (sc *S3Client) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	_, bucket, key, err := data.ParseLocation(location)
	if err != nil {
		return nil, err
	}

	ctx, cancel := sc.bound(ctx)

	object, err := sc.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		cancel()
		return nil, sc.wrap(err)
	}

	// Reading the first byte surfaces NoSuchKey immediately instead of on
	// the caller's first Read.
	if _, err := object.Stat(); err != nil {
		object.Close()
		cancel()
		return nil, sc.wrap(err)
	}

	return &boundReader{object: object, cancel: cancel}, nil
}

func (sc *S3Client) Put(ctx context.Context, location string, r io.Reader, size int64) error {
	_, bucket, key, err := data.ParseLocation(location)
	if err != nil {
		return err
	}

	ctx, cancel := sc.bound(ctx)
	defer cancel()

	if _, err := sc.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{}); err != nil {
		return sc.wrap(err)
	}

	return nil
}

func (sc *S3Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if sc.config.Timeout > 0 {
		return context.WithTimeout(ctx, sc.config.Timeout)
	}

	return context.WithCancel(ctx)
}

func (sc *S3Client) wrap(err error) error {
	response := minio.ToErrorResponse(err)
	if response.Code == "NoSuchKey" {
		return fmt.Errorf("%w: %v", storage.ErrNotExist, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: timeout after %s", storage.ErrUnavailable, sc.config.Timeout)
	}

	return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
}

// boundReader ties the operation's timeout context to the reader's
// lifetime, releasing it on Close.
type boundReader struct {
	object *minio.Object
	cancel context.CancelFunc
}

func (br *boundReader) Read(p []byte) (int, error) {
	return br.object.Read(p)
}

func (br *boundReader) Close() error {
	defer br.cancel()
	return br.object.Close()
}
