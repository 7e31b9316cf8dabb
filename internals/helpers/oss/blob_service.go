package oss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"classroom_backend/internals/constants"
)

const maxUploadSize = 10 * 1024 * 1024

/*
BlobService adalah facade upload/hapus yang seragam untuk controller.
Implementasi default menyimpan ke disk (MEDIA_ROOT) dan mengembalikan URL publik
di bawah MEDIA_URL.
*/
type BlobService interface {
	// UploadImage selalu re-encode ke WebP
	UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (publicURL string, err error)
	// UploadAny menyimpan file apa adanya (materi, submission)
	UploadAny(ctx context.Context, dir string, fh *multipart.FileHeader) (publicURL string, err error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

type LocalBlobService struct {
	Root    string // direktori di disk
	BaseURL string // prefix URL publik, mis. "/media"
	WebP    WebPOptions
}

func NewLocalBlobService(root, baseURL string) *LocalBlobService {
	return &LocalBlobService{
		Root:    root,
		BaseURL: strings.TrimRight(baseURL, "/"),
		WebP:    DefaultWebPOptions,
	}
}

var _ BlobService = (*LocalBlobService)(nil)

func (s *LocalBlobService) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "file not found")
	}
	if fh.Size > maxUploadSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "max upload size is 10MB")
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := ConvertToWebP(src, s.WebP)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			return "", fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
		}
		return "", err
	}

	base := strings.TrimSuffix(sanitizeFilename(fh.Filename), filepath.Ext(fh.Filename))
	key := buildObjectKey(dir, base+".webp")
	if err := s.write(ctx, key, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

func (s *LocalBlobService) UploadAny(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "file not found")
	}
	if fh.Size > maxUploadSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "max upload size is 10MB")
	}
	if !constants.IsAllowedUpload(fh.Filename) {
		return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "file type not allowed")
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := buildObjectKey(dir, sanitizeFilename(fh.Filename))
	if err := s.write(ctx, key, src); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

func (s *LocalBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := s.KeyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalBlobService) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

func (s *LocalBlobService) KeyFromPublicURL(publicURL string) (string, error) {
	u := strings.TrimSpace(publicURL)
	if !strings.HasPrefix(u, s.BaseURL+"/") {
		return "", fmt.Errorf("url is not under %s", s.BaseURL)
	}
	key := path.Clean(strings.TrimPrefix(u, s.BaseURL+"/"))
	if strings.HasPrefix(key, "..") || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid key")
	}
	return key, nil
}

func (s *LocalBlobService) write(ctx context.Context, key string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write: %w", err)
	}
	return f.Close()
}

/* =======================================================================
   Key helpers
======================================================================= */

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	safe := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	if safe == "" || safe == "." {
		safe = "file"
	}
	return safe
}

// dir/20240131-<uuid>-name.ext
func buildObjectKey(dir, filename string) string {
	dir = strings.Trim(path.Clean("/"+strings.TrimSpace(dir)), "/")
	name := fmt.Sprintf("%s-%s-%s", time.Now().Format("20060102"), uuid.NewString(), filename)
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// GetFile: ambil *FileHeader dari salah satu nama field kandidat
func GetFile(c *fiber.Ctx, candidates ...string) (*multipart.FileHeader, error) {
	if len(candidates) == 0 {
		candidates = []string{"file", "image", "upload"}
	}
	for _, name := range candidates {
		if fh, err := c.FormFile(name); err == nil && fh != nil && fh.Filename != "" {
			return fh, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "file is required (field: "+candidates[0]+")")
}
