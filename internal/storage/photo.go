// Package storage persists uploaded recipe photos on the local filesystem.
// Stored paths are relative to the storage root ("receitas/<name>") and are
// served back under the /storage/ route.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/xid"

	"receitas-api/internal/apperror"
)

// MaxPhotoSize is the upload limit for recipe photos.
const MaxPhotoSize = 2 << 20 // 2 MB

const photoSubdir = "receitas"

// allowedExts are the photo types accepted, matching the API contract.
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// PhotoStore writes photos under root/receitas.
type PhotoStore struct {
	root string
}

// NewPhotoStore creates the photo directory if needed.
func NewPhotoStore(root string) (*PhotoStore, error) {
	if err := os.MkdirAll(filepath.Join(root, photoSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating photo directory: %w", err)
	}
	return &PhotoStore{root: root}, nil
}

// Root returns the storage root directory, used to mount the static route.
func (p *PhotoStore) Root() string {
	return p.root
}

// ReadPhoto reads and validates an upload. It returns the file contents and
// the extension to persist under, or a field-level validation error when the
// file is too large or not an accepted image type.
func (p *PhotoStore) ReadPhoto(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("storage: reading upload: %w", err)
	}
	if len(data) > MaxPhotoSize {
		return nil, "", apperror.ValidationFailed("foto", "A foto deve ter no máximo 2 MB.")
	}

	ext := mimetype.Detect(data).Extension()
	if !allowedExts[ext] {
		return nil, "", apperror.ValidationFailed("foto", "A foto deve ser uma imagem.")
	}

	return data, ext, nil
}

// Save writes validated photo bytes and returns the storage-relative path.
func (p *PhotoStore) Save(data []byte, ext string) (string, error) {
	name := xid.New().String() + ext
	rel := path.Join(photoSubdir, name)

	if err := os.WriteFile(filepath.Join(p.root, photoSubdir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("storage: writing photo: %w", err)
	}
	return rel, nil
}

// Delete removes a stored photo. Unknown or already-removed paths are not an
// error; paths escaping the photo directory are rejected.
func (p *PhotoStore) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	cleaned := path.Clean(rel)
	if strings.Contains(cleaned, "..") || !strings.HasPrefix(cleaned, photoSubdir+"/") {
		return fmt.Errorf("storage: refusing to delete %q", rel)
	}

	err := os.Remove(filepath.Join(p.root, filepath.FromSlash(cleaned)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: deleting photo %q: %w", rel, err)
	}
	return nil
}
