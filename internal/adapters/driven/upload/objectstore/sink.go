// Package objectstore uploads generated identities to S3-compatible
// object storage (AWS S3, Cloudflare R2, MinIO).
package objectstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/time/rate"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/logger"
)

// contentTypes maps generated file extensions to MIME types.
var contentTypes = map[string]string{
	".obj":  "model/obj",
	".mtl":  "model/mtl",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".json": "application/json",
}

// putter is the subset of *s3.Client used by Sink.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Ensure Sink implements the interface.
var _ driven.ArtifactSink = (*Sink)(nil)

// Sink uploads files with PutObject, throttled by a token bucket.
type Sink struct {
	client  putter
	bucket  string
	prefix  string
	limiter *rate.Limiter
}

// New creates a sink from upload settings. Static credentials are used
// when present, otherwise the default AWS credential chain applies. The
// same goes for the region.
func New(ctx context.Context, settings domain.UploadSettings) (*Sink, error) {
	if !settings.IsConfigured() {
		return nil, domain.ErrUploadUnavailable
	}

	var opts []func(*config.LoadOptions) error
	if region := settings.ResolvedRegion(); region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if settings.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			settings.AccessKeyID,
			settings.SecretAccessKey,
			"",
		)))
	}
	if settings.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(settings.Endpoint))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoints (MinIO, R2) rarely support virtual-host buckets.
		o.UsePathStyle = settings.Endpoint != ""
	})
	return newSink(client, settings), nil
}

func newSink(client putter, settings domain.UploadSettings) *Sink {
	limit := rate.Inf
	if settings.RatePerSecond > 0 {
		limit = rate.Limit(settings.RatePerSecond)
	}
	return &Sink{
		client:  client,
		bucket:  settings.Bucket,
		prefix:  settings.Prefix,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Upload stores each file under <configured prefix>/<prefix>/<base name>.
func (s *Sink) Upload(ctx context.Context, prefix string, files []string) error {
	for _, file := range files {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		key := s.Key(prefix, file)
		if err := s.put(ctx, key, file); err != nil {
			return fmt.Errorf("uploading %s: %w", file, err)
		}
		logger.Debug("Uploaded %s to s3://%s/%s", file, s.bucket, key)
	}
	return nil
}

// Key returns the object key for a local file.
func (s *Sink) Key(prefix, file string) string {
	return path.Join(s.prefix, prefix, filepath.Base(file))
}

func (s *Sink) put(ctx context.Context, key, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	}
	if ct, ok := contentTypes[filepath.Ext(file)]; ok {
		in.ContentType = aws.String(ct)
	}

	_, err = s.client.PutObject(ctx, in)
	return err
}
