// Package imagestore offloads inline recipe images to S3-compatible object
// storage. Image references that are not inline payloads pass through
// untouched unless remote mirroring is enabled.
package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/oklog/ulid/v2"

	httpx "github.com/recetas-abuela/backend/internal/http"
)

const (
	objectPrefix   = "recipes/"
	maxMirrorBytes = 25 << 20 // matches the request body cap
	dataURLPrefix  = "data:"
)

var ErrNotDataURL = errors.New("not a data url")

var mimeTypeSuffix = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
}

type Config struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	PublicURL    string
	UseSSL       bool
	MirrorRemote bool
}

type Store struct {
	client       *minio.Client
	httpc        *httpx.HTTP
	bucket       string
	publicURL    string
	mirrorRemote bool
}

func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object storage client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Store{
		client:       client,
		httpc:        httpx.New(httpx.DefaultConfig()),
		bucket:       cfg.Bucket,
		publicURL:    strings.TrimRight(publicURL, "/"),
		mirrorRemote: cfg.MirrorRemote,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket: %w", err)
	}
	return nil
}

// StoreImage resolves one image reference. Inline data URLs are decoded and
// uploaded; http(s) URLs are re-hosted when mirroring is on; anything else
// is returned unchanged.
func (s *Store) StoreImage(ctx context.Context, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, dataURLPrefix):
		mediaType, data, err := DecodeDataURL(ref)
		if err != nil {
			return "", fmt.Errorf("decoding inline image: %w", err)
		}
		return s.upload(ctx, mediaType, data)

	case s.mirrorRemote && (strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")):
		mediaType, data, err := s.fetch(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("mirroring remote image: %w", err)
		}
		return s.upload(ctx, mediaType, data)

	default:
		return ref, nil
	}
}

func (s *Store) upload(ctx context.Context, mediaType string, data []byte) (string, error) {
	object := objectPrefix + ulid.Make().String() + mimeTypeSuffix[mediaType]
	_, err := s.client.PutObject(ctx, s.bucket, object,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mediaType})
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return s.publicURL + "/" + object, nil
}

func (s *Store) fetch(ctx context.Context, url string) (string, []byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetching image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := httpx.ExpectStatus2xx(resp); err != nil {
		return "", nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMirrorBytes))
	if err != nil {
		return "", nil, fmt.Errorf("reading image body: %w", err)
	}

	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	return mediaType, data, nil
}

// DecodeDataURL parses a "data:<mediatype>;base64,<payload>" reference.
func DecodeDataURL(ref string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(ref, dataURLPrefix)
	if !ok {
		return "", nil, ErrNotDataURL
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrNotDataURL)
	}

	mediaType, encoding := meta, ""
	if mt, enc, found := strings.Cut(meta, ";"); found {
		mediaType, encoding = mt, enc
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if encoding == "base64" {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decoding base64 payload: %w", err)
		}
		return mediaType, data, nil
	}

	return mediaType, []byte(payload), nil
}
