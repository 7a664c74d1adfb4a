package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Media categories map to subdirectories under the upload root.
const (
	MediaCategoryProfile   = "profile_pictures"
	MediaCategoryBanner    = "banners"
	MediaCategoryCommunity = "group_pictures"
	MediaCategoryPost      = "posts"
	MediaCategoryComment   = "comments"
)

const (
	MaxImageSize = 5 << 20
	MaxMediaSize = 10 << 20
)

var (
	ErrMediaTooLarge   = errors.New("file exceeds the maximum allowed size")
	ErrMediaBadType    = errors.New("unsupported file type")
	ErrMediaNotFound   = errors.New("media not found")
	ErrMediaBadBlobRef = errors.New("malformed media reference")
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true,
}

// MediaStore keeps uploads on local disk under root/<category>/<uuid><ext>
// and hands out blob references of the form "category/filename".
type MediaStore struct {
	root    string
	baseURL string
}

func NewMediaStore(root, baseURL string) (*MediaStore, error) {
	for _, category := range []string{
		MediaCategoryProfile, MediaCategoryBanner, MediaCategoryCommunity,
		MediaCategoryPost, MediaCategoryComment,
	} {
		if err := os.MkdirAll(filepath.Join(root, category), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &MediaStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// SaveImage stores an image-only upload (profile pictures, banners).
func (s *MediaStore) SaveImage(file *multipart.FileHeader, category string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", ErrMediaBadType
	}
	if file.Size > MaxImageSize {
		return "", ErrMediaTooLarge
	}
	return s.save(file, category, ext)
}

// SaveMedia stores a post or comment attachment, image or video, and reports
// which kind it was.
func (s *MediaStore) SaveMedia(file *multipart.FileHeader, category string) (blob string, mediaType string, err error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch {
	case imageExts[ext]:
		mediaType = "image"
	case videoExts[ext]:
		mediaType = "video"
	default:
		return "", "", ErrMediaBadType
	}
	if file.Size > MaxMediaSize {
		return "", "", ErrMediaTooLarge
	}
	blob, err = s.save(file, category, ext)
	return blob, mediaType, err
}

func (s *MediaStore) save(file *multipart.FileHeader, category, ext string) (string, error) {
	name := uuid.NewString() + ext
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.root, category, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return category + "/" + name, nil
}

// Delete removes a stored blob. A missing file is not an error.
func (s *MediaStore) Delete(blob string) error {
	path, err := s.resolve(blob)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Resolve maps a blob reference to its on-disk path for serving, rejecting
// references that escape the upload root.
func (s *MediaStore) Resolve(blob string) (string, error) {
	path, err := s.resolve(blob)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", ErrMediaNotFound
	}
	return path, nil
}

func (s *MediaStore) resolve(blob string) (string, error) {
	cleaned := filepath.Clean("/" + blob)
	if cleaned == "/" || strings.Contains(blob, "..") {
		return "", ErrMediaBadBlobRef
	}
	return filepath.Join(s.root, cleaned), nil
}

// URLFor returns the public CDN URL for a blob, or nil for an empty blob.
func (s *MediaStore) URLFor(blob string) *string {
	if blob == "" {
		return nil
	}
	url := s.baseURL + "/" + blob
	return &url
}
