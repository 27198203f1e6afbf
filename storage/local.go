package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Local keeps objects on a filesystem rooted at a base directory.
type Local struct {
	fs        afero.Fs
	publicURL string
}

func NewLocal(dir, publicURL string) (*Local, error) {
	base := afero.NewOsFs()
	if err := base.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{fs: afero.NewBasePathFs(base, dir), publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// NewLocalFs wraps an existing afero filesystem, e.g. afero.NewMemMapFs.
func NewLocalFs(fs afero.Fs, publicURL string) *Local {
	return &Local{fs: fs, publicURL: strings.TrimRight(publicURL, "/")}
}

func clean(p string) (string, error) {
	c := path.Clean("/" + p)
	if c == "/" {
		return "", fmt.Errorf("invalid object path %q", p)
	}
	return c, nil
}

func (l *Local) Store(ctx context.Context, p string, r io.Reader) (string, error) {
	key, err := clean(p)
	if err != nil {
		return "", err
	}
	if err := l.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return "", err
	}
	f, err := l.fs.Create(key)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = l.fs.Remove(key)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return strings.TrimPrefix(key, "/"), nil
}

func (l *Local) Exists(ctx context.Context, p string) (bool, error) {
	key, err := clean(p)
	if err != nil {
		return false, err
	}
	return afero.Exists(l.fs, key)
}

func (l *Local) Download(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := clean(p)
	if err != nil {
		return nil, err
	}
	f, err := l.fs.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, p string) (bool, error) {
	key, err := clean(p)
	if err != nil {
		return false, err
	}
	if err := l.fs.Remove(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *Local) URL(p string) string {
	return l.publicURL + "/" + strings.TrimPrefix(p, "/")
}
