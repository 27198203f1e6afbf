package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores objects in a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
}

func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) object(p string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(strings.TrimPrefix(p, "/"))
}

func (g *GCS) Store(ctx context.Context, p string, r io.Reader) (string, error) {
	w := g.object(p).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return strings.TrimPrefix(p, "/"), nil
}

func (g *GCS) Exists(ctx context.Context, p string) (bool, error) {
	_, err := g.object(p).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (g *GCS) Download(ctx context.Context, p string) (io.ReadCloser, error) {
	r, err := g.object(p).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotExist
	}
	return r, err
}

func (g *GCS) Delete(ctx context.Context, p string) (bool, error) {
	err := g.object(p).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (g *GCS) URL(p string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, strings.TrimPrefix(p, "/"))
}

func (g *GCS) Close() error {
	return g.client.Close()
}
