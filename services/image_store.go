package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore saves an uploaded image and returns the URL it is served from.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// DiskImageStore writes images under Dir and serves them below BaseURL.
type DiskImageStore struct {
	Dir     string
	BaseURL string
}

func NewDiskImageStore(dir, baseURL string) *DiskImageStore {
	return &DiskImageStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskImageStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return s.BaseURL + "/uploads/" + name, nil
}

// Delete removes an image previously returned by Save. Missing files are not an error.
func (s *DiskImageStore) Delete(_ context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.BaseURL+"/uploads/")
	if !ok || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("image %q is not stored here", url)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
